package v1_test

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/hydrocodeir/Sazegari/internal/domain"
	"github.com/hydrocodeir/Sazegari/internal/server/middleware"
)

func ptr[T any](v T) *T { return &v }

// ---------------------------------------------------------------------------
// Context helpers — inject identity into context for DoCtx
// ---------------------------------------------------------------------------

func identityCtx(userID uuid.UUID, role domain.Role, orgID, countyID *uuid.UUID) context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, middleware.ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, middleware.ContextKeyUserRole, role)
	if orgID != nil {
		ctx = context.WithValue(ctx, middleware.ContextKeyOrgID, *orgID)
	}
	if countyID != nil {
		ctx = context.WithValue(ctx, middleware.ContextKeyCountyID, *countyID)
	}
	return ctx
}

func adminCtx(userID uuid.UUID) context.Context {
	return identityCtx(userID, domain.RoleSecretariatAdmin, nil, nil)
}

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	users         domain.UserRepository
	orgs          domain.OrgRepository
	counties      domain.CountyRepository
	reports       domain.ReportRepository
	audit         domain.AuditRepository
	notifications domain.NotificationRepository
}

func (m *mockDataStore) Users() domain.UserRepository                 { return m.users }
func (m *mockDataStore) Orgs() domain.OrgRepository                   { return m.orgs }
func (m *mockDataStore) Counties() domain.CountyRepository            { return m.counties }
func (m *mockDataStore) Reports() domain.ReportRepository             { return m.reports }
func (m *mockDataStore) Audit() domain.AuditRepository                { return m.audit }
func (m *mockDataStore) Notifications() domain.NotificationRepository { return m.notifications }

// ---------------------------------------------------------------------------
// Mock UserRepository
// ---------------------------------------------------------------------------

type mockUserRepo struct {
	createFunc        func(ctx context.Context, u *domain.User) error
	getByIDFunc       func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	getByUsernameFunc func(ctx context.Context, username string) (*domain.User, error)
	updateFunc        func(ctx context.Context, u *domain.User) error
	listFunc          func(ctx context.Context) ([]*domain.User, error)
	findByRoleFunc    func(ctx context.Context, role domain.Role, orgID, countyID *uuid.UUID) ([]*domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	return m.createFunc(ctx, u)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return m.getByUsernameFunc(ctx, username)
}

func (m *mockUserRepo) Update(ctx context.Context, u *domain.User) error {
	return m.updateFunc(ctx, u)
}

func (m *mockUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	return m.listFunc(ctx)
}

func (m *mockUserRepo) FindByRole(ctx context.Context, role domain.Role, orgID, countyID *uuid.UUID) ([]*domain.User, error) {
	return m.findByRoleFunc(ctx, role, orgID, countyID)
}

// ---------------------------------------------------------------------------
// Mock OrgRepository / CountyRepository
// ---------------------------------------------------------------------------

type mockOrgRepo struct {
	createFunc  func(ctx context.Context, o *domain.Org) error
	getByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.Org, error)
	listFunc    func(ctx context.Context) ([]*domain.Org, error)
}

func (m *mockOrgRepo) Create(ctx context.Context, o *domain.Org) error {
	return m.createFunc(ctx, o)
}

func (m *mockOrgRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Org, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockOrgRepo) List(ctx context.Context) ([]*domain.Org, error) {
	return m.listFunc(ctx)
}

type mockCountyRepo struct {
	createFunc  func(ctx context.Context, c *domain.County) error
	getByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.County, error)
	listFunc    func(ctx context.Context) ([]*domain.County, error)
}

func (m *mockCountyRepo) Create(ctx context.Context, c *domain.County) error {
	return m.createFunc(ctx, c)
}

func (m *mockCountyRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.County, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockCountyRepo) List(ctx context.Context) ([]*domain.County, error) {
	return m.listFunc(ctx)
}

// ---------------------------------------------------------------------------
// Mock ReportRepository
// ---------------------------------------------------------------------------

type mockReportRepo struct {
	createFunc           func(ctx context.Context, r *domain.Report, rec *domain.AuditRecord) error
	getByIDFunc          func(ctx context.Context, id uuid.UUID) (*domain.Report, error)
	listFunc             func(ctx context.Context, f domain.ReportFilter) ([]*domain.Report, error)
	commitTransitionFunc func(ctx context.Context, id uuid.UUID, expectedVersion int64, newState domain.State, rec *domain.AuditRecord) error
	updateContentFunc    func(ctx context.Context, id uuid.UUID, expectedVersion int64, content json.RawMessage, rec *domain.AuditRecord) error
	hardDeleteFunc       func(ctx context.Context, id uuid.UUID, rec *domain.AuditRecord) error
}

func (m *mockReportRepo) Create(ctx context.Context, r *domain.Report, rec *domain.AuditRecord) error {
	return m.createFunc(ctx, r, rec)
}

func (m *mockReportRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockReportRepo) List(ctx context.Context, f domain.ReportFilter) ([]*domain.Report, error) {
	return m.listFunc(ctx, f)
}

func (m *mockReportRepo) CommitTransition(ctx context.Context, id uuid.UUID, expectedVersion int64, newState domain.State, rec *domain.AuditRecord) error {
	return m.commitTransitionFunc(ctx, id, expectedVersion, newState, rec)
}

func (m *mockReportRepo) UpdateContent(ctx context.Context, id uuid.UUID, expectedVersion int64, content json.RawMessage, rec *domain.AuditRecord) error {
	return m.updateContentFunc(ctx, id, expectedVersion, content, rec)
}

func (m *mockReportRepo) HardDelete(ctx context.Context, id uuid.UUID, rec *domain.AuditRecord) error {
	return m.hardDeleteFunc(ctx, id, rec)
}

// ---------------------------------------------------------------------------
// Mock AuditRepository
// ---------------------------------------------------------------------------

type mockAuditRepo struct {
	appendFunc       func(ctx context.Context, rec *domain.AuditRecord) error
	listByReportFunc func(ctx context.Context, reportID uuid.UUID) ([]*domain.AuditRecord, error)
	listByActorFunc  func(ctx context.Context, actorID uuid.UUID, limit, offset int) ([]*domain.AuditRecord, error)
	workflowLogFunc  func(ctx context.Context, reportID uuid.UUID) ([]*domain.AuditRecord, error)
}

func (m *mockAuditRepo) Append(ctx context.Context, rec *domain.AuditRecord) error {
	return m.appendFunc(ctx, rec)
}

func (m *mockAuditRepo) ListByReport(ctx context.Context, reportID uuid.UUID) ([]*domain.AuditRecord, error) {
	return m.listByReportFunc(ctx, reportID)
}

func (m *mockAuditRepo) ListByActor(ctx context.Context, actorID uuid.UUID, limit, offset int) ([]*domain.AuditRecord, error) {
	return m.listByActorFunc(ctx, actorID, limit, offset)
}

func (m *mockAuditRepo) WorkflowLog(ctx context.Context, reportID uuid.UUID) ([]*domain.AuditRecord, error) {
	return m.workflowLogFunc(ctx, reportID)
}

// ---------------------------------------------------------------------------
// Mock NotificationRepository
// ---------------------------------------------------------------------------

type mockNotificationRepo struct {
	createFunc      func(ctx context.Context, n *domain.Notification) error
	listByUserFunc  func(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]*domain.Notification, error)
	markReadFunc    func(ctx context.Context, userID, id uuid.UUID) error
	markAllReadFunc func(ctx context.Context, userID uuid.UUID) error
	countUnreadFunc func(ctx context.Context, userID uuid.UUID) (int64, error)
}

func (m *mockNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	return m.createFunc(ctx, n)
}

func (m *mockNotificationRepo) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]*domain.Notification, error) {
	return m.listByUserFunc(ctx, userID, unreadOnly, limit, offset)
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	return m.markReadFunc(ctx, userID, id)
}

func (m *mockNotificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return m.markAllReadFunc(ctx, userID)
}

func (m *mockNotificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	return m.countUnreadFunc(ctx, userID)
}

// ---------------------------------------------------------------------------
// Mock AuthService
// ---------------------------------------------------------------------------

type mockAuthService struct {
	createUserFunc   func(ctx context.Context, username, password, fullName string, role domain.Role, orgID, countyID *uuid.UUID) (*domain.User, error)
	loginFunc        func(ctx context.Context, username, password string) (string, string, error)
	refreshTokenFunc func(ctx context.Context, refreshToken string) (string, error)
	getUserFunc      func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

func (m *mockAuthService) CreateUser(ctx context.Context, username, password, fullName string, role domain.Role, orgID, countyID *uuid.UUID) (*domain.User, error) {
	return m.createUserFunc(ctx, username, password, fullName, role, orgID, countyID)
}

func (m *mockAuthService) Login(ctx context.Context, username, password string) (accessToken, refreshToken string, err error) {
	return m.loginFunc(ctx, username, password)
}

func (m *mockAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	return m.refreshTokenFunc(ctx, refreshToken)
}

func (m *mockAuthService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return m.getUserFunc(ctx, userID)
}

// ---------------------------------------------------------------------------
// Mock Notifier
// ---------------------------------------------------------------------------

type notifiedTransition struct {
	report     *domain.Report
	recipients []*domain.User
	message    string
}

type mockNotifier struct {
	transitions []notifiedTransition
	userNotices []uuid.UUID
}

func (m *mockNotifier) NotifyTransition(_ context.Context, report *domain.Report, recipients []*domain.User, message string) {
	m.transitions = append(m.transitions, notifiedTransition{report: report, recipients: recipients, message: message})
}

func (m *mockNotifier) NotifyUser(_ context.Context, userID uuid.UUID, _ *uuid.UUID, _ string) {
	m.userNotices = append(m.userNotices, userID)
}
