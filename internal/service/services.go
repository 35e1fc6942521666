package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/kirinyoku/fringe/internal/backend"
	"github.com/kirinyoku/fringe/internal/booking"
	"github.com/kirinyoku/fringe/internal/messaging"
	redisrepo "github.com/kirinyoku/fringe/internal/repository/redis"
	"github.com/kirinyoku/fringe/internal/service/admin"
	"github.com/kirinyoku/fringe/internal/service/audit"
	"github.com/kirinyoku/fringe/internal/service/catalog"
	"github.com/kirinyoku/fringe/internal/service/checkout"
)

// Auth is the part of the backend that issues and recovers credentials.
type Auth interface {
	Login(ctx context.Context, creds backend.Credentials) (*backend.TokenPair, error)
	RefreshToken(ctx context.Context, pair backend.TokenPair) (*backend.TokenPair, error)
	Register(ctx context.Context, body json.RawMessage) error
	ForgotPassword(ctx context.Context, body json.RawMessage) error
	ResetPassword(ctx context.Context, body json.RawMessage) error
}

type Services struct {
	Catalog  *catalog.Service
	Checkout *checkout.Service
	Admin    *admin.Service
	Audit    *audit.Service
	Auth     Auth
}

type Config struct {
	Catalog catalog.Config
	Admin   admin.Config
}

// Deps are the shared clients and stores the services are built from.
// Notifier may be nil when no broker is configured.
type Deps struct {
	Backend    *backend.Client
	Cache      *redisrepo.Cache
	Drafts     booking.DraftRepository
	Selections checkout.SelectionRepository
	Limiter    *redisrepo.SlidingWindowLimiter
	Audit      *audit.Service
	Notifier   *messaging.Publisher
	Logger     *slog.Logger
}

func NewServices(d Deps, cfg Config) *Services {
	cat := catalog.New(d.Backend, d.Cache, cfg.Catalog)

	var notifier checkout.Notifier
	if d.Notifier != nil {
		notifier = d.Notifier
	}

	var limiter checkout.Limiter
	if d.Limiter != nil {
		limiter = d.Limiter
	}

	var (
		broadcaster checkout.Broadcaster
		auditor     admin.Auditor
	)
	if d.Audit != nil {
		broadcaster = d.Audit
		auditor = d.Audit
	}

	return &Services{
		Catalog: cat,
		Checkout: checkout.New(checkout.Deps{
			Catalog:     cat,
			Backend:     d.Backend,
			Selections:  d.Selections,
			Drafts:      d.Drafts,
			Limiter:     limiter,
			Notifier:    notifier,
			Broadcaster: broadcaster,
			Logger:      d.Logger,
		}),
		Admin: admin.New(admin.Deps{
			Backend: d.Backend,
			Auditor: auditor,
			Cache:   d.Cache,
			Logger:  d.Logger,
			Config:  cfg.Admin,
		}),
		Audit: d.Audit,
		Auth:  d.Backend,
	}
}
