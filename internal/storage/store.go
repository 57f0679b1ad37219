package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/fleet-alert/fleet-alert-server/internal/models"
)

// Common errors
var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrInvalidData  = errors.New("invalid data")
)

// Store defines the storage interface. Lookups on company-scoped entities
// always take the company id; there is no lookup-by-id-only, so a row owned
// by another company is indistinguishable from an absent one.
type Store interface {
	// Transaction support
	BeginTx(ctx context.Context) (Store, error)
	Commit() error
	Rollback() error

	// Company methods
	CreateCompany(ctx context.Context, company *models.Company) error
	GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error)
	UpdateCompany(ctx context.Context, company *models.Company) error
	DeleteCompany(ctx context.Context, id uuid.UUID) error
	ListCompanies(ctx context.Context, limit, offset int) ([]*models.Company, int64, error)

	// User methods
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, companyID, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, companyID, id uuid.UUID) error
	ListUsers(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]*models.User, int64, error)

	// Vehicle methods
	CreateVehicle(ctx context.Context, vehicle *models.Vehicle) error
	GetVehicle(ctx context.Context, companyID, id uuid.UUID) (*models.Vehicle, error)
	GetVehicleByCodeNorm(ctx context.Context, companyID uuid.UUID, codeNorm string) (*models.Vehicle, error)
	UpdateVehicle(ctx context.Context, vehicle *models.Vehicle) error
	DeleteVehicle(ctx context.Context, companyID, id uuid.UUID) error
	ListVehicles(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]*models.Vehicle, int64, error)

	// Fleet methods
	CreateFleet(ctx context.Context, fleet *models.Fleet) error
	GetFleet(ctx context.Context, companyID, id uuid.UUID) (*models.Fleet, error)
	UpdateFleet(ctx context.Context, fleet *models.Fleet) error
	DeleteFleet(ctx context.Context, companyID, id uuid.UUID) error
	ListFleets(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]*models.Fleet, int64, error)

	// Notification group methods
	CreateGroup(ctx context.Context, group *models.NotificationGroup) error
	GetGroup(ctx context.Context, companyID, id uuid.UUID) (*models.NotificationGroup, error)
	UpdateGroup(ctx context.Context, group *models.NotificationGroup) error
	DeleteGroup(ctx context.Context, companyID, id uuid.UUID) error
	ListGroups(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]*models.NotificationGroup, int64, error)
	FindGroupsByPlate(ctx context.Context, companyID uuid.UUID, plate string) ([]*models.NotificationGroup, error)
	FindGroupsByCode(ctx context.Context, companyID uuid.UUID, code string) ([]*models.NotificationGroup, error)

	// Group membership methods
	CreateMembership(ctx context.Context, m *models.GroupMembership) error
	SetMembershipActive(ctx context.Context, groupID, userID uuid.UUID, active bool) error
	ListMemberships(ctx context.Context, groupID uuid.UUID) ([]*models.GroupMembership, error)
	ListActiveMemberships(ctx context.Context, groupIDs []uuid.UUID) ([]*models.GroupMembership, error)
	ListActiveMembershipsByUser(ctx context.Context, userID uuid.UUID) ([]*models.GroupMembership, error)
	GetGroupsByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]*models.NotificationGroup, error)

	// Device registration methods
	UpsertDevice(ctx context.Context, device *models.DeviceRegistration) error
	DeactivateDevice(ctx context.Context, userID uuid.UUID, token string) error
	ListActiveDevices(ctx context.Context, userIDs []uuid.UUID) ([]*models.DeviceRegistration, error)

	// Alert methods
	CreateAlert(ctx context.Context, alert *models.Alert) error
	GetAlert(ctx context.Context, companyID, id uuid.UUID) (*models.Alert, error)
	UpdateAlert(ctx context.Context, alert *models.Alert) error
	DeleteAlert(ctx context.Context, companyID, id uuid.UUID) error
	SearchAlerts(ctx context.Context, filters AlertFilters, limit, offset int) ([]*models.Alert, int64, error)
	CountAlerts(ctx context.Context, filters AlertFilters) (int64, error)

	// Alert revision methods
	CreateRevision(ctx context.Context, revision *models.AlertRevision) error
	GetRevision(ctx context.Context, companyID, id uuid.UUID) (*models.AlertRevision, error)
	GetRevisionByAlert(ctx context.Context, companyID, alertID uuid.UUID) (*models.AlertRevision, error)
	UpdateRevision(ctx context.Context, revision *models.AlertRevision) error
	DeleteRevision(ctx context.Context, companyID, id uuid.UUID) error
	ListRevisions(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]*models.AlertRevision, int64, error)

	// Revision photo methods
	CreatePhoto(ctx context.Context, photo *models.RevisionPhoto) error
	GetPhoto(ctx context.Context, companyID, id uuid.UUID) (*models.RevisionPhoto, error)
	ListPhotosByRevision(ctx context.Context, companyID, revisionID uuid.UUID) ([]*models.RevisionPhoto, error)
	DeletePhoto(ctx context.Context, companyID, id uuid.UUID) error

	// Shift roster methods
	ReplaceShiftBatch(ctx context.Context, companyID uuid.UUID, rosterDate time.Time, shifts []*models.Shift) error
	ListShiftsByDate(ctx context.Context, companyID uuid.UUID, rosterDate time.Time) ([]*models.Shift, error)

	// Close the store
	Close() error
}

// AlertFilters represents the composable predicates over alerts. CompanyID is
// mandatory. Plates and Codes are alternatives: when Plates is non-empty the
// store filters by license plate and ignores Codes entirely.
type AlertFilters struct {
	CompanyID    uuid.UUID
	Plates       []string
	Codes        []string
	Types        []string
	Acknowledged *bool
	From         *time.Time // inclusive
	To           *time.Time // exclusive
}
