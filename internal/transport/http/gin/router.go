package httpgin

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kirinyoku/fringe/internal/booking"
	redisx "github.com/kirinyoku/fringe/internal/redis"
	"github.com/kirinyoku/fringe/internal/service"
	"github.com/kirinyoku/fringe/internal/service/checkout"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// IdempotencyStore remembers booking responses by Idempotency-Key.
// *redisrepo.IdempotencyStore satisfies it.
type IdempotencyStore interface {
	AcquireLock(ctx context.Context, key string, lockTTL time.Duration) (bool, error)
	SaveResult(ctx context.Context, key string, jsonPayload string) error
	GetResult(ctx context.Context, key string) (string, bool, error)
	Release(ctx context.Context, key string) error
}

type RouterConfig struct {
	CORSOrigins  []string
	SessionTTL   time.Duration
	SecureCookie bool
	JWTSecret    string
	AdminRole    string
}

func NewRouter(
	svcs *service.Services,
	idem IdempotencyStore,
	cfg RouterConfig,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), RequestIDMiddleware(), LoggingMiddleware(logger), CORS(cfg.CORSOrigins))
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public API
	r.GET("/", handleHome(svcs))
	r.GET("/shows", handleListShows(svcs))
	r.GET("/shows/:id", handleGetShow(svcs))
	r.GET("/shows/:id/performances", handleListPerformances(svcs))
	r.GET("/booking-confirmation/:ref", handleBookingConfirmation(svcs))
	r.POST("/queries", handleSubmitQuery(svcs))

	session := r.Group("/", SessionMiddleware(cfg.SessionTTL, cfg.SecureCookie))
	{
		session.POST("/booking/selection", handleStartSelection(svcs))
		session.GET("/booking/selection", handleGetSelection(svcs))
		session.PUT("/booking/selection/tickets/:ticketPriceId", handleSetQuantity(svcs))
		session.POST("/booking/selection/seats", handleToggleSeat(svcs))
		session.POST("/booking/selection/confirm", handleConfirmSelection(svcs))

		session.GET("/checkout", handleGetCheckout(svcs))
		session.POST("/checkout", handleSubmitCheckout(svcs, idem, logger))
		session.DELETE("/checkout", handleAbandonCheckout(svcs))
	}

	auth := r.Group("/auth")
	{
		auth.POST("/login", handleLogin(svcs, cfg.SecureCookie))
		auth.POST("/refresh-token", handleRefreshToken(svcs, cfg.SecureCookie))
		auth.POST("/logout", handleLogout(cfg.SecureCookie))
		auth.POST("/register", handleAuthForward(svcs.Auth.Register))
		auth.POST("/forgot-password", handleAuthForward(svcs.Auth.ForgotPassword))
		auth.POST("/reset-password", handleAuthForward(svcs.Auth.ResetPassword))
	}

	// Admin API
	adm := r.Group("/admin", RequireAdmin(cfg.JWTSecret, cfg.AdminRole))
	{
		adm.GET("/dashboard", handleDashboard(svcs))

		adm.GET("/shows", handleAdminListShows(svcs))
		adm.POST("/shows", handleCreateShow(svcs))
		adm.GET("/shows/:id", handleAdminGetShow(svcs))
		adm.PUT("/shows/:id", handleUpdateShow(svcs))
		adm.DELETE("/shows/:id", handleDeleteShow(svcs))
		adm.GET("/shows/:id/performances", handleAdminShowPerformances(svcs))
		adm.GET("/age-restrictions", handleAgeRestrictions(svcs))
		adm.GET("/show-types", handleShowTypes(svcs))

		adm.GET("/venues", handleListVenues(svcs))
		adm.POST("/venues", handleCreateVenue(svcs))
		adm.GET("/venues/:id", handleGetVenue(svcs))
		adm.PUT("/venues/:id", handleUpdateVenue(svcs))
		adm.DELETE("/venues/:id", handleDeleteVenue(svcs))
		adm.GET("/venue-types", handleVenueTypes(svcs))

		adm.GET("/locations", handleListLocations(svcs))
		adm.POST("/locations", handleCreateLocation(svcs))
		adm.GET("/locations/:id", handleGetLocation(svcs))
		adm.PUT("/locations/:id", handleUpdateLocation(svcs))
		adm.DELETE("/locations/:id", handleDeleteLocation(svcs))

		adm.GET("/performances", handleAdminListPerformances(svcs))
		adm.POST("/performances", handleCreatePerformance(svcs))
		adm.POST("/performances/batch", handleBatchCreatePerformances(svcs))
		adm.GET("/performances/:id", handleAdminGetPerformance(svcs))
		adm.PUT("/performances/:id", handleUpdatePerformance(svcs))
		adm.DELETE("/performances/:id", handleDeletePerformance(svcs))

		adm.GET("/ticket-types", handleListTicketTypes(svcs))
		adm.POST("/ticket-types", handleCreateTicketType(svcs))
		adm.PUT("/ticket-types/:id", handleUpdateTicketType(svcs))
		adm.DELETE("/ticket-types/:id", handleDeleteTicketType(svcs))

		adm.GET("/tickets", handleListTickets(svcs))
		adm.GET("/tickets/:ref", handleBookingTickets(svcs))
		adm.PUT("/tickets/:ref/status", handleUpdateTicketStatus(svcs))
		adm.DELETE("/tickets/:ref", handleDeleteBookingTickets(svcs))

		adm.GET("/reports/sales", handleSalesReport(svcs))
		adm.GET("/reports/sales.csv", handleSalesReportCSV(svcs))

		adm.POST("/uploads/:kind", handleUploadImage(svcs))

		adm.GET("/audit", handleListAudit(svcs))
	}

	return r
}

// --- Public handlers ---

// @Summary  Home page shows
// @Param    all  query  bool  false  "return every show"
// @Success  200  {object}  HomeResponse
// @Failure  503  {object}  ErrorResponse
// @Router   / [get]
func handleHome(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		all := c.Query("all") == "true"
		shows, err := svcs.Catalog.Home(c.Request.Context(), all)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, HomeResponse{Shows: shows, All: all}, cacheShows)
	}
}

// @Summary  Search shows by name
// @Param    q  query  string  false  "name fragment"
// @Success  200  {array}  domain.Show
// @Router   /shows [get]
func handleListShows(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		shows, err := svcs.Catalog.ListShows(c.Request.Context(), c.Query("q"))
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, shows, cacheShows)
	}
}

// @Summary  Show with its bookable performances
// @Param    id  path  int  true  "Show ID"
// @Success  200  {object}  ShowDetailResponse
// @Failure  404  {object}  ErrorResponse
// @Router   /shows/{id} [get]
func handleGetShow(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		show, err := svcs.Catalog.GetShow(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		perfs, err := svcs.Catalog.SelectablePerformances(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, ShowDetailResponse{Show: show, Performances: perfs}, cachePerformances)
	}
}

// @Summary  Performances of a show
// @Param    id   path   int   true   "Show ID"
// @Param    all  query  bool  false  "include performances that cannot be booked"
// @Success  200  {array}  domain.Performance
// @Router   /shows/{id}/performances [get]
func handleListPerformances(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		load := svcs.Catalog.SelectablePerformances
		if c.Query("all") == "true" {
			load = svcs.Catalog.Performances
		}
		perfs, err := load(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, perfs, cachePerformances)
	}
}

// @Summary  Start a ticket selection for a performance
// @Param    req  body  StartSelectionRequest  true  "payload"
// @Success  201  {object}  checkout.SelectionView
// @Failure  409  {object}  ErrorResponse  "performance cannot be booked"
// @Router   /booking/selection [post]
func handleStartSelection(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req StartSelectionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		view, err := svcs.Checkout.StartSelection(c.Request.Context(), sessionID(c), req.PerformanceID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, view)
	}
}

// @Summary  Current ticket selection
// @Success  200  {object}  checkout.SelectionView
// @Failure  409  {object}  ErrorResponse  "no selection"
// @Router   /booking/selection [get]
func handleGetSelection(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := svcs.Checkout.Selection(c.Request.Context(), sessionID(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// @Summary  Set the quantity of a ticket price
// @Param    ticketPriceId  path  int                 true  "Ticket price ID"
// @Param    req            body  SetQuantityRequest  true  "payload"
// @Success  200  {object}  checkout.SelectionView
// @Failure  422  {object}  ErrorResponse
// @Router   /booking/selection/tickets/{ticketPriceId} [put]
func handleSetQuantity(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		priceID, ok := parseInt64Param(c, "ticketPriceId")
		if !ok {
			return
		}
		var req SetQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		view, err := svcs.Checkout.SetQuantity(c.Request.Context(), sessionID(c), priceID, req.Quantity)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// @Summary  Toggle a seat
// @Param    req  body  ToggleSeatRequest  true  "payload"
// @Success  200  {object}  ToggleSeatResponse
// @Router   /booking/selection/seats [post]
func handleToggleSeat(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ToggleSeatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		view, res, err := svcs.Checkout.ToggleSeat(c.Request.Context(), sessionID(c), booking.Seat{
			Row:    req.RowNumber,
			Number: req.SeatNumber,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, ToggleSeatResponse{Result: res.String(), Selection: view})
	}
}

// @Summary  Turn the selection into a booking draft
// @Success  201  {object}  booking.Draft
// @Failure  422  {object}  ErrorResponse  "selection incomplete"
// @Router   /booking/selection/confirm [post]
func handleConfirmSelection(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := svcs.Checkout.Confirm(c.Request.Context(), sessionID(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, d)
	}
}

// @Summary  Checkout page data
// @Success  200  {object}  draftResponse
// @Success  303  "no draft, redirected home"
// @Router   /checkout [get]
func handleGetCheckout(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := svcs.Checkout.Draft(c.Request.Context(), sessionID(c))
		if errors.Is(err, booking.ErrNoDraft) {
			c.Redirect(http.StatusSeeOther, "/")
			return
		}
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, draftResponse{
			Draft:       d,
			DefaultForm: booking.CheckoutForm{Country: booking.DefaultCountry},
		})
	}
}

// @Summary  Submit the booking (idempotent)
// @Param    req  body  booking.CheckoutForm  true  "customer details"
// @Header   201  {string}  Idempotency-Key  "echo"
// @Success  201  {object}  SubmitBookingResponse
// @Failure  404  {object}  ErrorResponse  "no draft"
// @Failure  409  {object}  ErrorResponse  "idem in progress"
// @Failure  422  {object}  ErrorResponse
// @Failure  429  {object}  ErrorResponse  "rate limited"
// @Failure  503  {object}  ErrorResponse
// @Router   /checkout [post]
func handleSubmitCheckout(svcs *service.Services, idem IdempotencyStore, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := requestLogger(c, logger)

		var form booking.CheckoutForm
		if err := c.ShouldBindJSON(&form); err != nil {
			badRequest(c, err.Error())
			return
		}

		sid := sessionID(c)
		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisx.KeyIdemBooking(sid, idemKey)

			payload, ok, err := idem.GetResult(c.Request.Context(), idemStorageKey)
			if err != nil {
				log.Warn("idempotency result lookup failed", "key", idemKey, "error", err)
			}
			if ok {
				c.Header("Idempotency-Key", idemKey)
				c.Data(http.StatusCreated, "application/json; charset=utf-8", []byte(payload))
				return
			}

			locked, err := idem.AcquireLock(c.Request.Context(), idemStorageKey, 60*time.Second)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				payload, ok, err := idem.GetResult(c.Request.Context(), idemStorageKey)
				if err != nil {
					log.Warn("idempotency result lookup failed", "key", idemKey, "error", err)
				}
				if ok {
					c.Header("Idempotency-Key", idemKey)
					c.Data(http.StatusCreated, "application/json; charset=utf-8", []byte(payload))
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(http.StatusConflict, ErrorResponse{Error: "idempotency key in progress"})
				return
			}
		}

		res, err := svcs.Checkout.Submit(c.Request.Context(), sid, form)
		if err != nil {
			if idemStorageKey != "" {
				if rerr := idem.Release(c.Request.Context(), idemStorageKey); rerr != nil {
					log.Warn("idempotency lock release failed", "key", idemKey, "error", rerr)
				}
			}
			respondErr(c, err)
			return
		}

		resp := SubmitBookingResponse{
			BookingReference: res.BookingReference,
			RedirectTo:       "/booking-confirmation/" + url.PathEscape(res.BookingReference),
		}

		if idemStorageKey != "" {
			b, err := json.Marshal(resp)
			if err == nil {
				err = idem.SaveResult(c.Request.Context(), idemStorageKey, string(b))
			}
			if err != nil {
				// a retry with this key will not be replayed
				log.Error("idempotency result not stored",
					"key", idemKey,
					"booking_reference", res.BookingReference,
					"error", err,
				)
			}
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusCreated, resp)
	}
}

// @Summary  Abandon the booking in progress
// @Success  204
// @Router   /checkout [delete]
func handleAbandonCheckout(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svcs.Checkout.Abandon(c.Request.Context(), sessionID(c)); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Booking confirmation
// @Param    ref  path  string  true  "Booking reference"
// @Success  200  {object}  checkout.Confirmation
// @Failure  404  {object}  ErrorResponse
// @Router   /booking-confirmation/{ref} [get]
func handleBookingConfirmation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		conf, err := svcs.Checkout.Confirmation(c.Request.Context(), c.Param("ref"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, conf)
	}
}

// @Summary  Contact form
// @Param    req  body  checkout.QueryForm  true  "payload"
// @Success  204
// @Failure  422  {object}  ErrorResponse
// @Router   /queries [post]
func handleSubmitQuery(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form checkout.QueryForm
		if err := c.ShouldBindJSON(&form); err != nil {
			badRequest(c, err.Error())
			return
		}
		if err := svcs.Checkout.SubmitQuery(c.Request.Context(), form); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// --- Helpers ---

// requestLogger scopes logger to the current request id.
func requestLogger(c *gin.Context, logger *slog.Logger) *slog.Logger {
	reqID, _ := c.Get(ctxRequestID)
	return logger.With("request_id", reqID)
}

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	s := c.Param(name)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
