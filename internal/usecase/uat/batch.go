package uat

import (
	"context"
	"log/slog"

	"pulseboard/internal/bootstrap/logging"
	domain "pulseboard/internal/domain/analytics"
	"pulseboard/internal/errs"
	"pulseboard/internal/ports"
)

// TestCaseEdit is one edited table row as displayed to the user.
type TestCaseEdit struct {
	ID     uint
	Status string
	Delete bool
}

// DefectEdit is one edited defect row.
type DefectEdit struct {
	ID       uint
	Severity string
	Status   string
	Delete   bool
}

type BatchResult struct {
	Updated int
	Deleted int
}

// SaveTestCaseBatch diffs the edited rows against current state and commits
// every change as one transaction: one update per changed row, one delete
// per delete-flagged row. Last write wins; a no-change batch opens no
// transaction and reports zeros.
func (s *Service) SaveTestCaseBatch(ctx context.Context, edits []TestCaseEdit) (BatchResult, error) {
	type plannedUpdate struct {
		id     uint
		status string
	}
	var updates []plannedUpdate
	var deletes []uint

	for _, edit := range edits {
		if edit.Delete {
			deletes = append(deletes, edit.ID)
			continue
		}

		if err := validateMembership(edit.Status, domain.TestStatuses, "status"); err != nil {
			return BatchResult{}, err
		}

		current, err := s.testCases.Get(ctx, edit.ID)
		if err != nil {
			return BatchResult{}, errs.Wrapf(err, "read test case %d", edit.ID)
		}
		if current.Status != edit.Status {
			updates = append(updates, plannedUpdate{id: edit.ID, status: edit.Status})
		}
	}

	result := BatchResult{Updated: len(updates), Deleted: len(deletes)}
	if result.Updated == 0 && result.Deleted == 0 {
		return result, nil
	}

	err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		for _, update := range updates {
			status := update.status
			if err := s.testCases.Update(txCtx, update.id, ports.TestCaseUpdate{Status: &status}); err != nil {
				return errs.Wrapf(err, "update test case %d", update.id)
			}
		}
		for _, id := range deletes {
			if err := s.testCases.Delete(txCtx, id); err != nil {
				return errs.Wrapf(err, "delete test case %d", id)
			}
		}
		return nil
	})
	if err != nil {
		return BatchResult{}, err
	}

	logging.Info(ctx, "test case batch saved",
		slog.Int("updated", result.Updated),
		slog.Int("deleted", result.Deleted),
	)
	return result, nil
}

// SaveDefectBatch is the defect counterpart: severity and status are
// diffable, deletes are flagged per row.
func (s *Service) SaveDefectBatch(ctx context.Context, edits []DefectEdit) (BatchResult, error) {
	type plannedUpdate struct {
		id       uint
		severity *string
		status   *string
	}
	var updates []plannedUpdate
	var deletes []uint

	for _, edit := range edits {
		if edit.Delete {
			deletes = append(deletes, edit.ID)
			continue
		}

		if err := validateMembership(edit.Severity, domain.DefectSeverities, "severity"); err != nil {
			return BatchResult{}, err
		}
		if err := validateMembership(edit.Status, domain.DefectStatuses, "status"); err != nil {
			return BatchResult{}, err
		}

		current, err := s.defects.Get(ctx, edit.ID)
		if err != nil {
			return BatchResult{}, errs.Wrapf(err, "read defect %d", edit.ID)
		}

		update := plannedUpdate{id: edit.ID}
		if current.Severity != edit.Severity {
			severity := edit.Severity
			update.severity = &severity
		}
		if current.Status != edit.Status {
			status := edit.Status
			update.status = &status
		}
		if update.severity != nil || update.status != nil {
			updates = append(updates, update)
		}
	}

	result := BatchResult{Updated: len(updates), Deleted: len(deletes)}
	if result.Updated == 0 && result.Deleted == 0 {
		return result, nil
	}

	err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		for _, update := range updates {
			input := ports.DefectUpdate{Severity: update.severity, Status: update.status}
			if err := s.defects.Update(txCtx, update.id, input); err != nil {
				return errs.Wrapf(err, "update defect %d", update.id)
			}
		}
		for _, id := range deletes {
			if err := s.defects.Delete(txCtx, id); err != nil {
				return errs.Wrapf(err, "delete defect %d", id)
			}
		}
		return nil
	})
	if err != nil {
		return BatchResult{}, err
	}

	logging.Info(ctx, "defect batch saved",
		slog.Int("updated", result.Updated),
		slog.Int("deleted", result.Deleted),
	)
	return result, nil
}
