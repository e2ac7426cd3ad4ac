// Package seed generates demonstration data mirroring a month of service
// traffic with a small UAT backlog.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"pulseboard/internal/bootstrap/logging"
	"pulseboard/internal/errs"
	"pulseboard/internal/ports"
)

type Service struct {
	services  ports.ServiceRepository
	events    ports.EventRepository
	testCases ports.TestCaseRepository
	defects   ports.DefectRepository
	uow       ports.UnitOfWork
	rand      *rand.Rand
}

func NewService(
	services ports.ServiceRepository,
	events ports.EventRepository,
	testCases ports.TestCaseRepository,
	defects ports.DefectRepository,
	uow ports.UnitOfWork,
) *Service {
	return &Service{
		services:  services,
		events:    events,
		testCases: testCases,
		defects:   defects,
		uow:       uow,
		rand:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

const eventCount = 1000

var sampleServices = []ports.ServiceCreate{
	{Name: "Online Banking Portal", Channel: "web", Description: "Customer banking portal"},
	{Name: "Mobile Banking App", Channel: "mobile", Description: "iOS and Android mobile app"},
	{Name: "Payment Gateway API", Channel: "api", Description: "RESTful payment processing API"},
	{Name: "Customer Support Chat", Channel: "web", Description: "Live chat support system"},
	{Name: "Loan Application System", Channel: "web", Description: "Digital loan application platform"},
}

var sampleActions = []string{"login", "checkout", "payment", "transfer", "view_statement", "apply_loan", "chat_start", "chat_end"}

var sampleErrors = []string{"Timeout", "Validation failed", "Network error", "Invalid input"}

type sampleTestCase struct {
	title, description, expected, status string
}

var sampleTestCases = []sampleTestCase{
	{"User Login Flow", "Verify user can login with valid credentials", "User successfully logged in", "Passed"},
	{"Payment Processing", "Test payment transaction completion", "Payment processed successfully", "Passed"},
	{"Fund Transfer", "Verify fund transfer between accounts", "Transfer completed", "Failed"},
	{"Loan Application Submission", "Test loan application form submission", "Application submitted", "Passed"},
	{"Mobile App Navigation", "Test navigation flow in mobile app", "Navigation works correctly", "Not Started"},
	{"API Authentication", "Verify API token authentication", "Authentication successful", "Passed"},
	{"Chat Session Management", "Test chat session creation and termination", "Sessions managed correctly", "Blocked"},
}

type sampleDefect struct {
	title, description, severity, status string
}

var sampleDefects = []sampleDefect{
	{"Login timeout error", "Users experiencing timeout during login", "High", "Open"},
	{"Payment gateway connection failure", "Intermittent connection failures to payment gateway", "Critical", "In Progress"},
	{"Mobile app crashes on iOS 17", "App crashes when opening on iOS 17 devices", "Critical", "Open"},
	{"Fund transfer validation error", "Incorrect validation message shown during transfer", "Medium", "Resolved"},
	{"API rate limiting too strict", "API rate limits causing legitimate requests to fail", "Medium", "Open"},
	{"Chat widget not loading", "Chat widget fails to load on certain browsers", "High", "In Progress"},
	{"Loan application form validation", "Form accepts invalid input in some fields", "Low", "Open"},
}

// Generate populates the sample data set. It refuses to run twice: any
// existing service means the database is already seeded.
func (s *Service) Generate(ctx context.Context) (string, error) {
	count, err := s.services.Count(ctx)
	if err != nil {
		return "", errs.Wrap(err, "count services")
	}
	if count > 0 {
		logging.Info(ctx, "sample data already exists, skipping generation")
		return "sample data already exists", nil
	}

	err = s.uow.WithTx(ctx, func(txCtx context.Context) error {
		refs := make([]ports.ServiceRef, 0, len(sampleServices))
		for _, input := range sampleServices {
			ref, err := s.services.Create(txCtx, input)
			if err != nil {
				return errs.Wrapf(err, "create service %q", input.Name)
			}
			refs = append(refs, ref)
		}

		events := make([]ports.EventCreate, 0, eventCount)
		now := time.Now().UTC()
		for i := 0; i < eventCount; i++ {
			ref := refs[s.rand.Intn(len(refs))]
			status := s.pickStatus()
			event := ports.EventCreate{
				ServiceID: ref.ID,
				Action:    sampleActions[s.rand.Intn(len(sampleActions))],
				Status:    status,
				Timestamp: now.Add(-time.Duration(s.rand.Intn(30*24*60)) * time.Minute),
			}
			if status == "success" {
				journeyTime := 2.0 + s.rand.Float64()*118.0
				event.JourneyTime = &journeyTime
			}
			if status == "error" {
				message := fmt.Sprintf("Error: %s", sampleErrors[s.rand.Intn(len(sampleErrors))])
				event.ErrorMessage = &message
			}
			events = append(events, event)
		}
		if err := s.events.CreateBatch(txCtx, events); err != nil {
			return errs.Wrap(err, "create sample events")
		}

		testCaseIDs := make([]uint, 0, len(sampleTestCases))
		for _, tc := range sampleTestCases {
			ref := refs[s.rand.Intn(len(refs))]
			id, err := s.testCases.Create(txCtx, ports.TestCaseCreate{
				ServiceID:      ref.ID,
				Title:          tc.title,
				Description:    tc.description,
				ExpectedResult: tc.expected,
				Status:         tc.status,
			})
			if err != nil {
				return errs.Wrapf(err, "create test case %q", tc.title)
			}
			testCaseIDs = append(testCaseIDs, id)
		}

		for _, defect := range sampleDefects {
			ref := refs[s.rand.Intn(len(refs))]
			testCaseID := testCaseIDs[s.rand.Intn(len(testCaseIDs))]
			if _, err := s.defects.Create(txCtx, ports.DefectCreate{
				ServiceID:   ref.ID,
				TestCaseID:  &testCaseID,
				Title:       defect.title,
				Description: defect.description,
				Severity:    defect.severity,
				Status:      defect.status,
			}); err != nil {
				return errs.Wrapf(err, "create defect %q", defect.title)
			}
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	logging.Info(ctx, "sample data generated",
		slog.Int("services", len(sampleServices)),
		slog.Int("events", eventCount),
	)
	return "sample data generated", nil
}

// Clear wipes every domain table inside one transaction, children before
// parents so foreign keys stay satisfied.
func (s *Service) Clear(ctx context.Context) error {
	err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.defects.DeleteAll(txCtx); err != nil {
			return err
		}
		if err := s.testCases.DeleteAll(txCtx); err != nil {
			return err
		}
		if err := s.events.DeleteAll(txCtx); err != nil {
			return err
		}
		return s.services.DeleteAll(txCtx)
	})
	if err != nil {
		return errs.Wrap(err, "clear sample data")
	}

	logging.Info(ctx, "all data cleared")
	return nil
}

func (s *Service) pickStatus() string {
	// 85% success, 10% error, 5% pending.
	roll := s.rand.Float64()
	switch {
	case roll < 0.85:
		return "success"
	case roll < 0.95:
		return "error"
	default:
		return "pending"
	}
}
