package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/hydrocodeir/Sazegari/internal/domain"
	"github.com/hydrocodeir/Sazegari/internal/server/middleware"
)

type ListNotificationsInput struct {
	UnreadOnly bool `query:"unread_only" doc:"Only unread notifications"`
	Limit      int  `query:"limit" default:"50" minimum:"1" maximum:"500" doc:"Page size"`
	Offset     int  `query:"offset" default:"0" minimum:"0" doc:"Page offset"`
}

type ListNotificationsOutput struct {
	Body []*domain.Notification
}

type UnreadCountOutput struct {
	Body struct {
		Count int64 `json:"count"`
	}
}

type MarkReadInput struct {
	ID uuid.UUID `path:"id" doc:"Notification ID"`
}

func RegisterNotificationRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-notifications",
		Method:      http.MethodGet,
		Path:        "/notifications",
		Summary:     "List the caller's notifications",
		Tags:        []string{"Notifications"},
	}, func(ctx context.Context, input *ListNotificationsInput) (*ListNotificationsOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		notifications, err := store.Notifications().ListByUser(ctx, userID, input.UnreadOnly, input.Limit, input.Offset)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list notifications", err)
		}

		return &ListNotificationsOutput{Body: notifications}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "count-unread-notifications",
		Method:      http.MethodGet,
		Path:        "/notifications/unread-count",
		Summary:     "Count the caller's unread notifications",
		Tags:        []string{"Notifications"},
	}, func(ctx context.Context, _ *struct{}) (*UnreadCountOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		count, err := store.Notifications().CountUnread(ctx, userID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to count notifications", err)
		}

		out := &UnreadCountOutput{}
		out.Body.Count = count
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "mark-notification-read",
		Method:      http.MethodPost,
		Path:        "/notifications/{id}/read",
		Summary:     "Mark one notification read",
		Tags:        []string{"Notifications"},
	}, func(ctx context.Context, input *MarkReadInput) (*struct{}, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		if err := store.Notifications().MarkRead(ctx, userID, input.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("notification not found")
			}
			return nil, huma.Error500InternalServerError("failed to mark notification read", err)
		}

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "mark-all-notifications-read",
		Method:      http.MethodPost,
		Path:        "/notifications/read-all",
		Summary:     "Mark all of the caller's notifications read",
		Tags:        []string{"Notifications"},
	}, func(ctx context.Context, _ *struct{}) (*struct{}, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		if err := store.Notifications().MarkAllRead(ctx, userID); err != nil {
			return nil, huma.Error500InternalServerError("failed to mark notifications read", err)
		}

		return nil, nil
	})
}
