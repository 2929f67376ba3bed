package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// NotificationType classifies in-app notifications.
type NotificationType string

const (
	NotifyActionRequired NotificationType = "action_required"
	NotifyInfo           NotificationType = "info"
	// NotifyUnresolved flags a committed transition whose recipient set
	// resolved empty, so operators can follow up out-of-band.
	NotifyUnresolved NotificationType = "unresolved_recipient"
)

type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ReportID  *uuid.UUID
	Type      NotificationType
	Message   string
	IsRead    bool
	CreatedAt time.Time
}

type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]*Notification, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
}
