package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	v1 "github.com/hydrocodeir/Sazegari/internal/api/v1"
	"github.com/hydrocodeir/Sazegari/internal/api/ws"
	"github.com/hydrocodeir/Sazegari/internal/auth"
	"github.com/hydrocodeir/Sazegari/internal/notify"
	"github.com/hydrocodeir/Sazegari/internal/store/postgres"
	"github.com/hydrocodeir/Sazegari/internal/workflow"
)

func registerAuthRoutes(api huma.API, authSvc *auth.Service) {
	v1.RegisterAuthRoutes(api, authSvc)
}

func registerAPIRoutes(api huma.API, store *postgres.Store, authSvc *auth.Service, engine *workflow.Engine, notifier *notify.Notifier) {
	v1.RegisterMeRoute(api, authSvc)
	v1.RegisterReportRoutes(api, store, engine, notifier)
	v1.RegisterAuditRoutes(api, store)
	v1.RegisterNotificationRoutes(api, store)
	v1.RegisterMasterdataReadRoutes(api, store)
}

func registerAdminRoutes(api huma.API, store *postgres.Store, authSvc *auth.Service) {
	v1.RegisterUserRoutes(api, store, authSvc)
	v1.RegisterMasterdataRoutes(api, store)
}

func registerWSRoutes(r chi.Router, hub *ws.Hub) {
	r.Get("/notifications", hub.ServeNotifications)
}
