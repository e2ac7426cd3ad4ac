// Package uat manages test cases and defects: CRUD with validation plus
// the table-edit batch save flow.
package uat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"pulseboard/internal/bootstrap/logging"
	domain "pulseboard/internal/domain/analytics"
	"pulseboard/internal/errs"
	"pulseboard/internal/ports"
)

var ErrDataUnavailable = errors.New("data unavailable")

type Service struct {
	testCases ports.TestCaseRepository
	defects   ports.DefectRepository
	uow       ports.UnitOfWork
}

func NewService(testCases ports.TestCaseRepository, defects ports.DefectRepository, uow ports.UnitOfWork) *Service {
	return &Service{testCases: testCases, defects: defects, uow: uow}
}

func (s *Service) ListTestCases(ctx context.Context, serviceID *uint) ([]ports.TestCaseRow, error) {
	rows, err := s.testCases.ListRows(ctx, serviceID)
	if err != nil {
		logging.Error(ctx, "load test cases failed", slog.Any("err", errs.Loggable(err)))
		return nil, errs.Wrap(ErrDataUnavailable, err.Error())
	}
	return rows, nil
}

func (s *Service) ListDefects(ctx context.Context, serviceID *uint) ([]ports.DefectRow, error) {
	rows, err := s.defects.ListRows(ctx, serviceID)
	if err != nil {
		logging.Error(ctx, "load defects failed", slog.Any("err", errs.Loggable(err)))
		return nil, errs.Wrap(ErrDataUnavailable, err.Error())
	}
	return rows, nil
}

func (s *Service) CreateTestCase(ctx context.Context, input ports.TestCaseCreate) (uint, error) {
	if err := requireField(input.Title, "title"); err != nil {
		return 0, err
	}
	if err := requireField(input.ExpectedResult, "expected result"); err != nil {
		return 0, err
	}
	if input.ServiceID == 0 {
		return 0, errors.New("service id is required")
	}
	if input.Status == "" {
		input.Status = "Not Started"
	}
	if err := validateMembership(input.Status, domain.TestStatuses, "status"); err != nil {
		return 0, err
	}

	id, err := s.testCases.Create(ctx, input)
	if err != nil {
		return 0, err
	}
	logging.Info(ctx, "test case created", slog.Uint64("id", uint64(id)), slog.String("title", input.Title))
	return id, nil
}

func (s *Service) UpdateTestCase(ctx context.Context, id uint, input ports.TestCaseUpdate) error {
	if input.Status != nil {
		if err := validateMembership(*input.Status, domain.TestStatuses, "status"); err != nil {
			return err
		}
	}
	if input.Title != nil {
		if err := requireField(*input.Title, "title"); err != nil {
			return err
		}
	}
	return s.testCases.Update(ctx, id, input)
}

func (s *Service) DeleteTestCase(ctx context.Context, id uint) error {
	return s.testCases.Delete(ctx, id)
}

func (s *Service) CreateDefect(ctx context.Context, input ports.DefectCreate) (uint, error) {
	if err := requireField(input.Title, "title"); err != nil {
		return 0, err
	}
	if err := requireField(input.Description, "description"); err != nil {
		return 0, err
	}
	if input.ServiceID == 0 {
		return 0, errors.New("service id is required")
	}
	if input.Severity == "" {
		input.Severity = "Medium"
	}
	if input.Status == "" {
		input.Status = "Open"
	}
	if err := validateMembership(input.Severity, domain.DefectSeverities, "severity"); err != nil {
		return 0, err
	}
	if err := validateMembership(input.Status, domain.DefectStatuses, "status"); err != nil {
		return 0, err
	}

	id, err := s.defects.Create(ctx, input)
	if err != nil {
		return 0, err
	}
	logging.Info(ctx, "defect created", slog.Uint64("id", uint64(id)), slog.String("title", input.Title))
	return id, nil
}

func (s *Service) UpdateDefect(ctx context.Context, id uint, input ports.DefectUpdate) error {
	if input.Severity != nil {
		if err := validateMembership(*input.Severity, domain.DefectSeverities, "severity"); err != nil {
			return err
		}
	}
	if input.Status != nil {
		if err := validateMembership(*input.Status, domain.DefectStatuses, "status"); err != nil {
			return err
		}
	}
	return s.defects.Update(ctx, id, input)
}

func (s *Service) DeleteDefect(ctx context.Context, id uint) error {
	return s.defects.Delete(ctx, id)
}

func requireField(value, name string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", name)
	}
	return nil
}

func validateMembership(value string, allowed []string, name string) error {
	for _, candidate := range allowed {
		if value == candidate {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of: %s", name, strings.Join(allowed, ", "))
}
