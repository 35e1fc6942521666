package httpgin

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kirinyoku/fringe/internal/domain"
	"github.com/kirinyoku/fringe/internal/listing"
	"github.com/kirinyoku/fringe/internal/media"
	"github.com/kirinyoku/fringe/internal/service"
	"github.com/kirinyoku/fringe/internal/service/admin"
)

func bindQuery(c *gin.Context) (listing.Query, bool) {
	var q listing.Query
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err.Error())
		return q, false
	}
	return q, true
}

// @Summary  Admin dashboard
// @Security BearerAuth
// @Success  200  {object}  admin.Dashboard
// @Failure  503  {object}  ErrorResponse
// @Router   /admin/dashboard [get]
func handleDashboard(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := svcs.Admin.Dashboard(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, d)
	}
}

// --- Shows ---

// @Summary  List shows
// @Security BearerAuth
// @Param    q       query  string  false  "search"
// @Param    status  query  string  false  "active|inactive|all"
// @Param    sort    query  string  false  "sort key"
// @Param    order   query  string  false  "asc|desc"
// @Param    page    query  int     false  "page"
// @Success  200  {object}  listing.Page[domain.Show]
// @Router   /admin/shows [get]
func handleAdminListShows(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, ok := bindQuery(c)
		if !ok {
			return
		}
		page, err := svcs.Admin.ListShows(c.Request.Context(), q)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// @Summary  Create show
// @Security BearerAuth
// @Param    req  body  admin.ShowForm  true  "show"
// @Success  201  {object}  domain.Show
// @Failure  422  {object}  ErrorResponse
// @Router   /admin/shows [post]
func handleCreateShow(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form admin.ShowForm
		if err := c.ShouldBindJSON(&form); err != nil {
			badRequest(c, err.Error())
			return
		}
		show, err := svcs.Admin.CreateShow(c.Request.Context(), form)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, show)
	}
}

func handleAdminGetShow(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		show, err := svcs.Admin.GetShow(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, show)
	}
}

// @Summary  Update show
// @Security BearerAuth
// @Param    id   path  int             true  "Show ID"
// @Param    req  body  admin.ShowForm  true  "show"
// @Success  204
// @Failure  422  {object}  ErrorResponse
// @Router   /admin/shows/{id} [put]
func handleUpdateShow(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var form admin.ShowForm
		if err := c.ShouldBindJSON(&form); err != nil {
			badRequest(c, err.Error())
			return
		}
		respondErr(c, svcs.Admin.UpdateShow(c.Request.Context(), id, form))
	}
}

func handleDeleteShow(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		respondErr(c, svcs.Admin.DeleteShow(c.Request.Context(), id))
	}
}

func handleAdminShowPerformances(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		q, ok := bindQuery(c)
		if !ok {
			return
		}
		page, err := svcs.Admin.ListPerformances(c.Request.Context(), id, q)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func handleAgeRestrictions(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svcs.Admin.AgeRestrictions(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func handleShowTypes(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svcs.Admin.ShowTypes(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// --- Venues & locations ---

func handleListVenues(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, ok := bindQuery(c)
		if !ok {
			return
		}
		page, err := svcs.Admin.ListVenues(c.Request.Context(), q)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// @Summary  Create venue
// @Security BearerAuth
// @Param    req  body  admin.VenueForm  true  "venue"
// @Success  201  {object}  domain.Venue
// @Failure  422  {object}  ErrorResponse
// @Router   /admin/venues [post]
func handleCreateVenue(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form admin.VenueForm
		if err := c.ShouldBindJSON(&form); err != nil {
			badRequest(c, err.Error())
			return
		}
		v, err := svcs.Admin.CreateVenue(c.Request.Context(), form)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, v)
	}
}

func handleGetVenue(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		v, err := svcs.Admin.GetVenue(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

func handleUpdateVenue(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var form admin.VenueForm
		if err := c.ShouldBindJSON(&form); err != nil {
			badRequest(c, err.Error())
			return
		}
		respondErr(c, svcs.Admin.UpdateVenue(c.Request.Context(), id, form))
	}
}

func handleDeleteVenue(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		respondErr(c, svcs.Admin.DeleteVenue(c.Request.Context(), id))
	}
}

func handleVenueTypes(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svcs.Admin.VenueTypes(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func handleListLocations(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, ok := bindQuery(c)
		if !ok {
			return
		}
		page, err := svcs.Admin.ListLocations(c.Request.Context(), q)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// @Summary  Create location
// @Security BearerAuth
// @Param    req  body  admin.LocationForm  true  "location"
// @Success  201  {object}  domain.Location
// @Failure  409  {object}  ErrorResponse  "duplicate name"
// @Failure  422  {object}  ErrorResponse
// @Router   /admin/locations [post]
func handleCreateLocation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form admin.LocationForm
		if err := c.ShouldBindJSON(&form); err != nil {
			badRequest(c, err.Error())
			return
		}
		l, err := svcs.Admin.CreateLocation(c.Request.Context(), form)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, l)
	}
}

func handleGetLocation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		l, err := svcs.Admin.GetLocation(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, l)
	}
}

func handleUpdateLocation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var form admin.LocationForm
		if err := c.ShouldBindJSON(&form); err != nil {
			badRequest(c, err.Error())
			return
		}
		respondErr(c, svcs.Admin.UpdateLocation(c.Request.Context(), id, form))
	}
}

func handleDeleteLocation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		respondErr(c, svcs.Admin.DeleteLocation(c.Request.Context(), id))
	}
}

// --- Performances ---

func handleAdminListPerformances(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, ok := bindQuery(c)
		if !ok {
			return
		}
		var showID int64
		if s := c.Query("showId"); s != "" {
			v, err := strconv.ParseInt(s, 10, 64)
			if err != nil || v < 0 {
				badRequest(c, "invalid showId")
				return
			}
			showID = v
		}
		page, err := svcs.Admin.ListPerformances(c.Request.Context(), showID, q)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// @Summary  Create performance
// @Security BearerAuth
// @Param    req  body  admin.PerformanceForm  true  "performance with ticket prices"
// @Success  201  {object}  domain.Performance
// @Failure  422  {object}  ErrorResponse
// @Router   /admin/performances [post]
func handleCreatePerformance(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form admin.PerformanceForm
		if err := c.ShouldBindJSON(&form); err != nil {
			badRequest(c, err.Error())
			return
		}
		p, err := svcs.Admin.CreatePerformance(c.Request.Context(), form)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

// @Summary  Create one performance per date
// @Security BearerAuth
// @Param    req  body  admin.BatchPerformanceForm  true  "dates and times"
// @Success  201  {array}  domain.Performance
// @Failure  422  {object}  ErrorResponse
// @Router   /admin/performances/batch [post]
func handleBatchCreatePerformances(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form admin.BatchPerformanceForm
		if err := c.ShouldBindJSON(&form); err != nil {
			badRequest(c, err.Error())
			return
		}
		perfs, err := svcs.Admin.BatchCreatePerformances(c.Request.Context(), form)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, perfs)
	}
}

func handleAdminGetPerformance(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		p, err := svcs.Admin.GetPerformance(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func handleUpdatePerformance(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var form admin.PerformanceForm
		if err := c.ShouldBindJSON(&form); err != nil {
			badRequest(c, err.Error())
			return
		}
		respondErr(c, svcs.Admin.UpdatePerformance(c.Request.Context(), id, form))
	}
}

func handleDeletePerformance(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		respondErr(c, svcs.Admin.DeletePerformance(c.Request.Context(), id))
	}
}

// --- Ticket types ---

func handleListTicketTypes(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, ok := bindQuery(c)
		if !ok {
			return
		}
		page, err := svcs.Admin.ListTicketTypes(c.Request.Context(), q)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func handleCreateTicketType(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form admin.TicketTypeForm
		if err := c.ShouldBindJSON(&form); err != nil {
			badRequest(c, err.Error())
			return
		}
		t, err := svcs.Admin.CreateTicketType(c.Request.Context(), form)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, t)
	}
}

func handleUpdateTicketType(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var form admin.TicketTypeForm
		if err := c.ShouldBindJSON(&form); err != nil {
			badRequest(c, err.Error())
			return
		}
		respondErr(c, svcs.Admin.UpdateTicketType(c.Request.Context(), id, form))
	}
}

// @Summary  Delete ticket type
// @Description The cached list drops the row before the backend call and is
// @Description restored if the backend refuses.
// @Security BearerAuth
// @Param    id  path  int  true  "Ticket type ID"
// @Success  204
// @Failure  409  {object}  ErrorResponse  "Delete Failed"
// @Router   /admin/ticket-types/{id} [delete]
func handleDeleteTicketType(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		respondErr(c, svcs.Admin.DeleteTicketType(c.Request.Context(), id))
	}
}

// --- Tickets ---

// @Summary  List bookings
// @Security BearerAuth
// @Param    status  query  string  false  "checkedin|cancelled|open|all"
// @Success  200  {object}  admin.TicketPage
// @Router   /admin/tickets [get]
func handleListTickets(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, ok := bindQuery(c)
		if !ok {
			return
		}
		page, err := svcs.Admin.ListTickets(c.Request.Context(), q)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func handleBookingTickets(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		tickets, err := svcs.Admin.BookingTickets(c.Request.Context(), c.Param("ref"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, tickets)
	}
}

// @Summary  Set check-in or cancellation on every ticket of a booking
// @Security BearerAuth
// @Param    ref  path  string                  true  "Booking reference"
// @Param    req  body  admin.TicketStatusForm  true  "status"
// @Success  200  {array}   domain.Ticket
// @Failure  409  {object}  ErrorResponse  "no changes"
// @Failure  422  {object}  ErrorResponse  "conflicting status"
// @Router   /admin/tickets/{ref}/status [put]
func handleUpdateTicketStatus(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form admin.TicketStatusForm
		if err := c.ShouldBindJSON(&form); err != nil {
			badRequest(c, err.Error())
			return
		}
		tickets, err := svcs.Admin.UpdateTicketStatus(c.Request.Context(), c.Param("ref"), form)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, tickets)
	}
}

func handleDeleteBookingTickets(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		respondErr(c, svcs.Admin.DeleteBookingTickets(c.Request.Context(), c.Param("ref")))
	}
}

// --- Reports ---

// @Summary  Show sales report
// @Security BearerAuth
// @Param    startDate  query  string  false  "YYYY-MM-DD"
// @Param    endDate    query  string  false  "YYYY-MM-DD"
// @Success  200  {array}   domain.ShowSales
// @Failure  422  {object}  ErrorResponse
// @Router   /admin/reports/sales [get]
func handleSalesReport(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := svcs.Admin.SalesReport(c.Request.Context(), c.Query("startDate"), c.Query("endDate"))
		if err != nil {
			respondErr(c, err)
			return
		}
		if rows == nil {
			rows = []domain.ShowSales{}
		}
		c.JSON(http.StatusOK, rows)
	}
}

// @Summary  Show sales report as CSV
// @Security BearerAuth
// @Produce  text/csv
// @Success  200  {file}  file
// @Router   /admin/reports/sales.csv [get]
func handleSalesReportCSV(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := svcs.Admin.SalesReport(c.Request.Context(), c.Query("startDate"), c.Query("endDate"))
		if err != nil {
			respondErr(c, err)
			return
		}

		var buf bytes.Buffer
		if err := admin.WriteSalesCSV(&buf, rows); err != nil {
			respondErr(c, err)
			return
		}

		c.Header("Content-Disposition", `attachment; filename="`+admin.SalesReportFilename+`"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	}
}

// --- Uploads ---

// @Summary  Upload a venue or show image
// @Security BearerAuth
// @Accept   multipart/form-data
// @Param    kind  path      string  true  "venue|show"
// @Param    file  formData  file    true  "image"
// @Success  201  {object}  admin.Upload
// @Failure  413  {object}  ErrorResponse
// @Failure  415  {object}  ErrorResponse
// @Router   /admin/uploads/{kind} [post]
func handleUploadImage(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		// multipart overhead on top of the image itself
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, media.MaxUploadBytes+1<<20)

		fh, err := c.FormFile("file")
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				respondErr(c, media.ErrTooLarge)
				return
			}
			badRequest(c, "file is required")
			return
		}
		if fh.Size > media.MaxUploadBytes {
			respondErr(c, media.ErrTooLarge)
			return
		}

		f, err := fh.Open()
		if err != nil {
			respondErr(c, err)
			return
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			respondErr(c, err)
			return
		}

		up, err := svcs.Admin.UploadImage(c.Request.Context(), c.Param("kind"), fh.Filename, data)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, up)
	}
}

// --- Audit ---

// @Summary  Admin audit trail
// @Security BearerAuth
// @Param    entity  query  string  false  "entity name"
// @Param    actor   query  string  false  "actor"
// @Param    q       query  string  false  "summary search"
// @Param    order   query  string  false  "asc|desc"
// @Param    limit   query  int     false  "page size"
// @Param    offset  query  int     false  "offset"
// @Success  200  {object}  AuditListResponse
// @Router   /admin/audit [get]
func handleListAudit(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, total, err := svcs.Audit.List(c.Request.Context(), domain.AuditFilter{
			Entity: c.Query("entity"),
			Actor:  c.Query("actor"),
			Query:  c.Query("q"),
			Desc:   c.DefaultQuery("order", "desc") == "desc",
			Limit:  parseIntDefault(c.Query("limit"), 0),
			Offset: parseIntDefault(c.Query("offset"), 0),
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		if entries == nil {
			entries = []domain.AuditEntry{}
		}
		c.JSON(http.StatusOK, AuditListResponse{Items: entries, Total: total})
	}
}
