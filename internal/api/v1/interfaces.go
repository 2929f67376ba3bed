package v1

import (
	"context"

	"github.com/google/uuid"

	"github.com/hydrocodeir/Sazegari/internal/domain"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Users() domain.UserRepository
	Orgs() domain.OrgRepository
	Counties() domain.CountyRepository
	Reports() domain.ReportRepository
	Audit() domain.AuditRepository
	Notifications() domain.NotificationRepository
}

// AuthService abstracts authentication operations for handler testing.
// *auth.Service satisfies this interface.
type AuthService interface {
	CreateUser(ctx context.Context, username, password, fullName string, role domain.Role, orgID, countyID *uuid.UUID) (*domain.User, error)
	Login(ctx context.Context, username, password string) (accessToken, refreshToken string, err error)
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

// Notifier abstracts the notification fan-out for handler testing.
// *notify.Notifier satisfies this interface.
type Notifier interface {
	NotifyTransition(ctx context.Context, report *domain.Report, recipients []*domain.User, message string)
	NotifyUser(ctx context.Context, userID uuid.UUID, reportID *uuid.UUID, message string)
}
