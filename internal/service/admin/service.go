package admin

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/kirinyoku/fringe/internal/backend"
	"github.com/kirinyoku/fringe/internal/domain"
	redisx "github.com/kirinyoku/fringe/internal/redis"
)

// Backend is the part of the festival API behind the admin portal.
type Backend interface {
	ListShows(ctx context.Context) ([]domain.Show, error)
	GetShow(ctx context.Context, id int64) (*domain.Show, error)
	CreateShow(ctx context.Context, s domain.Show) (*domain.Show, error)
	UpdateShow(ctx context.Context, id int64, s domain.Show) error
	DeleteShow(ctx context.Context, id int64) error
	ListAgeRestrictions(ctx context.Context) ([]domain.AgeRestriction, error)
	ListShowTypes(ctx context.Context) ([]domain.ShowType, error)

	ListVenues(ctx context.Context) ([]domain.Venue, error)
	GetVenue(ctx context.Context, id int64) (*domain.Venue, error)
	CreateVenue(ctx context.Context, v domain.Venue) (*domain.Venue, error)
	UpdateVenue(ctx context.Context, id int64, v domain.Venue) error
	DeleteVenue(ctx context.Context, id int64) error
	ListVenueTypes(ctx context.Context) ([]domain.VenueType, error)

	ListLocations(ctx context.Context) ([]domain.Location, error)
	GetLocation(ctx context.Context, id int64) (*domain.Location, error)
	CreateLocation(ctx context.Context, l domain.Location) (*domain.Location, error)
	UpdateLocation(ctx context.Context, id int64, l domain.Location) error
	DeleteLocation(ctx context.Context, id int64) error

	ListPerformances(ctx context.Context) ([]domain.Performance, error)
	ListPerformancesByShow(ctx context.Context, showID int64) ([]domain.Performance, error)
	GetPerformance(ctx context.Context, id int64) (*domain.Performance, error)
	CreatePerformance(ctx context.Context, in domain.CreatePerformance) (*domain.Performance, error)
	BatchCreatePerformances(ctx context.Context, in domain.BatchCreatePerformances) ([]domain.Performance, error)
	UpdatePerformance(ctx context.Context, id int64, in domain.UpdatePerformance) error
	DeletePerformance(ctx context.Context, id int64) error

	ListTicketTypes(ctx context.Context) ([]domain.TicketType, error)
	CreateTicketType(ctx context.Context, t domain.TicketType) (*domain.TicketType, error)
	UpdateTicketType(ctx context.Context, id int64, t domain.TicketType) error
	DeleteTicketType(ctx context.Context, id int64) error

	ListGroupedTickets(ctx context.Context) ([]domain.Ticket, error)
	ListTicketsByBooking(ctx context.Context, ref string) ([]domain.Ticket, error)
	UpdateBookingTickets(ctx context.Context, ref string, status domain.TicketStatus) ([]domain.Ticket, error)
	DeleteBookingTickets(ctx context.Context, ref string) error

	ShowSalesReport(ctx context.Context, startDate, endDate string) ([]domain.ShowSales, error)

	UploadImage(ctx context.Context, kind backend.UploadKind, filename, contentType string, data []byte) (string, error)
	FileURL(path string) string
}

// Auditor stores audit entries and fans out the catalog change once the
// entry is committed.
type Auditor interface {
	Record(ctx context.Context, e domain.AuditEntry, change *redisx.CatalogChange) error
	Broadcast(ctx context.Context, change redisx.CatalogChange)
}

// Cache holds the shared admin lists. *redisrepo.Cache satisfies it.
type Cache interface {
	GetString(ctx context.Context, key string) (string, bool, error)
	SetString(ctx context.Context, key, val string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type Config struct {
	ListTTL  time.Duration
	Location *time.Location
}

type Deps struct {
	Backend Backend
	Auditor Auditor
	Cache   Cache
	Logger  *slog.Logger
	Config  Config
}

type Service struct {
	backend Backend
	auditor Auditor
	cache   Cache
	logger  *slog.Logger
	cfg     Config
	now     func() time.Time
}

func New(d Deps) *Service {
	cfg := d.Config
	if cfg.ListTTL <= 0 {
		cfg.ListTTL = 5 * time.Minute
	}

	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		backend: d.Backend,
		auditor: d.Auditor,
		cache:   d.Cache,
		logger:  logger,
		cfg:     cfg,
		now:     time.Now,
	}
}

type actorKey struct{}

// WithActor attaches the authenticated admin to ctx for audit records.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func ActorFrom(ctx context.Context) string {
	if a, ok := ctx.Value(actorKey{}).(string); ok && a != "" {
		return a
	}
	return "unknown"
}

// record writes the audit entry for a mutation the backend already accepted.
// Audit storage failures are logged, not returned; the catalog change is
// still applied.
func (s *Service) record(
	ctx context.Context,
	action domain.AuditAction,
	entity string,
	id any,
	summary string,
	change *redisx.CatalogChange,
) {
	if s.auditor == nil {
		return
	}

	entry := domain.AuditEntry{
		Actor:     ActorFrom(ctx),
		Action:    action,
		Entity:    entity,
		EntityID:  entityID(id),
		Summary:   summary,
		CreatedAt: s.now().UTC(),
	}

	if err := s.auditor.Record(ctx, entry, change); err != nil {
		s.logger.Warn("audit record failed",
			"entity", entity,
			"action", string(action),
			"error", err,
		)
		if change != nil {
			s.auditor.Broadcast(ctx, *change)
		}
	}
}

func entityID(id any) string {
	switch v := id.(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case string:
		return v
	default:
		return ""
	}
}

func catalogChange(entity string, id, showID int64) *redisx.CatalogChange {
	return &redisx.CatalogChange{Entity: entity, ID: id, ShowID: showID}
}
