package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hydrocodeir/Sazegari/internal/domain"
	redisstore "github.com/hydrocodeir/Sazegari/internal/store/redis"
)

// Publisher pushes an event payload to a channel. Satisfied by the redis
// pub/sub store; a nil-safe no-op is used in tests.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// Event is the payload published to a user's channel when a notification
// row is created. Websocket subscribers receive it verbatim.
type Event struct {
	ID        uuid.UUID               `json:"id"`
	ReportID  *uuid.UUID              `json:"report_id,omitempty"`
	Type      domain.NotificationType `json:"type"`
	Message   string                  `json:"message"`
	CreatedAt time.Time               `json:"created_at"`
}

// Notifier fans a committed workflow transition out to the users who must
// act on it. Delivery is best effort: the transition has already committed,
// so failures are logged and never propagated back to the caller.
type Notifier struct {
	notifications domain.NotificationRepository
	users         domain.UserRepository
	pub           Publisher
}

func New(notifications domain.NotificationRepository, users domain.UserRepository, pub Publisher) *Notifier {
	return &Notifier{
		notifications: notifications,
		users:         users,
		pub:           pub,
	}
}

// NotifyTransition creates one action-required notification per recipient
// and publishes each to the recipient's channel. An empty recipient set is
// escalated to the secretariat admins instead of being dropped.
func (n *Notifier) NotifyTransition(ctx context.Context, report *domain.Report, recipients []*domain.User, message string) {
	if len(recipients) == 0 {
		n.escalateUnresolved(ctx, report)
		return
	}

	for _, u := range recipients {
		n.deliver(ctx, u.ID, &report.ID, domain.NotifyActionRequired, message)
	}
}

// NotifyUser sends a plain informational notification to one user.
func (n *Notifier) NotifyUser(ctx context.Context, userID uuid.UUID, reportID *uuid.UUID, message string) {
	n.deliver(ctx, userID, reportID, domain.NotifyInfo, message)
}

// escalateUnresolved tells every secretariat admin that a transition
// committed with nobody to pick it up.
func (n *Notifier) escalateUnresolved(ctx context.Context, report *domain.Report) {
	admins, err := n.users.FindByRole(ctx, domain.RoleSecretariatAdmin, nil, nil)
	if err != nil {
		log.Error().Err(err).
			Str("report_id", report.ID.String()).
			Msg("notify: listing admins for unresolved recipient")
		return
	}

	msg := fmt.Sprintf("report %q entered state %s with no matching recipient", report.Title, report.State)
	for _, admin := range admins {
		n.deliver(ctx, admin.ID, &report.ID, domain.NotifyUnresolved, msg)
	}

	log.Warn().
		Str("report_id", report.ID.String()).
		Str("state", string(report.State)).
		Int("admins_notified", len(admins)).
		Msg("notify: transition committed with empty recipient set")
}

func (n *Notifier) deliver(ctx context.Context, userID uuid.UUID, reportID *uuid.UUID, typ domain.NotificationType, message string) {
	notification := &domain.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		ReportID:  reportID,
		Type:      typ,
		Message:   message,
		CreatedAt: time.Now(),
	}

	if err := n.notifications.Create(ctx, notification); err != nil {
		log.Error().Err(err).
			Str("user_id", userID.String()).
			Msg("notify: persisting notification")
		return
	}

	if n.pub == nil {
		return
	}

	payload, err := json.Marshal(Event{
		ID:        notification.ID,
		ReportID:  reportID,
		Type:      typ,
		Message:   message,
		CreatedAt: notification.CreatedAt,
	})
	if err != nil {
		log.Error().Err(err).Msg("notify: marshaling event")
		return
	}

	if err := n.pub.Publish(ctx, redisstore.UserChannel(userID), payload); err != nil {
		log.Warn().Err(err).
			Str("user_id", userID.String()).
			Msg("notify: publishing event")
	}
}
