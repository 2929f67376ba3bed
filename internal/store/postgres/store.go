package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hydrocodeir/Sazegari/internal/domain"
)

type Store struct {
	pool          *pgxpool.Pool
	users         *UserRepo
	orgs          *OrgRepo
	counties      *CountyRepo
	reports       *ReportRepo
	audit         *AuditRepo
	notifications *NotificationRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	audit := NewAuditRepo(pool)

	return &Store{
		pool:          pool,
		users:         NewUserRepo(pool),
		orgs:          NewOrgRepo(pool),
		counties:      NewCountyRepo(pool),
		reports:       NewReportRepo(pool, audit),
		audit:         audit,
		notifications: NewNotificationRepo(pool),
	}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Users() domain.UserRepository                 { return s.users }
func (s *Store) Orgs() domain.OrgRepository                   { return s.orgs }
func (s *Store) Counties() domain.CountyRepository            { return s.counties }
func (s *Store) Reports() domain.ReportRepository             { return s.reports }
func (s *Store) Audit() domain.AuditRepository                { return s.audit }
func (s *Store) Notifications() domain.NotificationRepository { return s.notifications }
