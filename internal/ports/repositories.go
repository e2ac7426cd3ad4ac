package ports

import (
	"context"
	"errors"
	"time"
)

var (
	ErrServiceNotFound  = errors.New("service not found")
	ErrTestCaseNotFound = errors.New("test case not found")
	ErrDefectNotFound   = errors.New("defect not found")
	ErrUserNotFound     = errors.New("user not found")
)

// ServiceRef is the joined service identity carried on every row.
type ServiceRef struct {
	ID      uint
	Name    string
	Channel string
}

// EventRow is the flat event row produced by the query/filter layer,
// already joined with its owning service.
type EventRow struct {
	ID           uint
	Service      string
	Channel      string
	Action       string
	Status       string
	Timestamp    time.Time
	JourneyTime  *float64
	ErrorMessage *string
}

type TestCaseRow struct {
	ID             uint
	ServiceID      uint
	Service        string
	Title          string
	Description    string
	ExpectedResult string
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type DefectRow struct {
	ID         uint
	ServiceID  uint
	Service    string
	TestCaseID *uint
	Title      string
	Severity   string
	Status     string
	CreatedAt  time.Time
	ResolvedAt *time.Time
}

// EventFilter narrows the event row-set. Start/End are calendar-day
// boundaries: a nil bound is open, End is inclusive of the whole end day.
type EventFilter struct {
	ServiceID *uint
	Start     *time.Time
	End       *time.Time
}

type EventCreate struct {
	ServiceID    uint
	Action       string
	Status       string
	Timestamp    time.Time
	JourneyTime  *float64
	ErrorMessage *string
	Metadata     *string
}

type ServiceCreate struct {
	Name        string
	Channel     string
	Description string
}

type TestCaseCreate struct {
	ServiceID      uint
	Title          string
	Description    string
	ExpectedResult string
	TestSteps      string
	Status         string
}

type TestCaseUpdate struct {
	Title          *string
	Description    *string
	ExpectedResult *string
	TestSteps      *string
	Status         *string
}

type DefectCreate struct {
	ServiceID        uint
	TestCaseID       *uint
	Title            string
	Description      string
	Severity         string
	Status           string
	StepsToReproduce string
	ExpectedBehavior string
	ActualBehavior   string
}

type DefectUpdate struct {
	Title       *string
	Description *string
	Severity    *string
	Status      *string
}

type ServiceRepository interface {
	List(ctx context.Context) ([]ServiceRef, error)
	Get(ctx context.Context, id uint) (ServiceRef, error)
	Create(ctx context.Context, input ServiceCreate) (ServiceRef, error)
	Count(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) error
}

type EventRepository interface {
	ListRows(ctx context.Context, filter EventFilter) ([]EventRow, error)
	Create(ctx context.Context, input EventCreate) error
	CreateBatch(ctx context.Context, inputs []EventCreate) error
	DeleteAll(ctx context.Context) error
}

type TestCaseRepository interface {
	ListRows(ctx context.Context, serviceID *uint) ([]TestCaseRow, error)
	Get(ctx context.Context, id uint) (TestCaseRow, error)
	Create(ctx context.Context, input TestCaseCreate) (uint, error)
	Update(ctx context.Context, id uint, input TestCaseUpdate) error
	Delete(ctx context.Context, id uint) error
	DeleteAll(ctx context.Context) error
}

type DefectRepository interface {
	ListRows(ctx context.Context, serviceID *uint) ([]DefectRow, error)
	Get(ctx context.Context, id uint) (DefectRow, error)
	Create(ctx context.Context, input DefectCreate) (uint, error)
	Update(ctx context.Context, id uint, input DefectUpdate) error
	Delete(ctx context.Context, id uint) error
	DeleteAll(ctx context.Context) error
}

type UserRecord struct {
	ID           uint
	Username     string
	PasswordHash string
	Role         string
}

type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (UserRecord, error)
	Create(ctx context.Context, username, passwordHash, role string) error
}
