package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Edwardko2004/CS391-Project/internal/domain"
	"github.com/Edwardko2004/CS391-Project/internal/service/events"
	"github.com/Edwardko2004/CS391-Project/internal/service/ledger"
)

type EventHandler struct {
	events events.EventUseCase
	ledger ledger.UseCase
	now    func() time.Time
}

type createEventRequest struct {
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	Location        string             `json:"location"`
	Tags            []string           `json:"tags"`
	Capacity        int                `json:"capacity"`
	StartsAt        time.Time          `json:"starts_at" binding:"required"`
	DurationMinutes int                `json:"duration_minutes"`
	Status          domain.EventStatus `json:"status"`
}

type checkInByCodeRequest struct {
	ConfirmationCode string `json:"confirmation_code" binding:"required"`
}

type eventResponse struct {
	ID                string               `json:"id"`
	OrganizerID       string               `json:"organizer_id"`
	Title             string               `json:"title"`
	Description       string               `json:"description"`
	Location          string               `json:"location"`
	Tags              []string             `json:"tags"`
	Capacity          int                  `json:"capacity"`
	StartsAt          time.Time            `json:"starts_at"`
	EndsAt            time.Time            `json:"ends_at"`
	DurationMinutes   int                  `json:"duration_minutes"`
	Status            domain.EventStatus   `json:"status"`
	ReservationsCount int                  `json:"reservations_count"`
	CreatedAt         time.Time            `json:"created_at"`
	Availability      *domain.Availability `json:"availability,omitempty"`
}

func newEventResponse(e *domain.Event) eventResponse {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	return eventResponse{
		ID:                e.ID,
		OrganizerID:       e.OrganizerID,
		Title:             e.Title,
		Description:       e.Description,
		Location:          e.Location,
		Tags:              tags,
		Capacity:          e.Capacity,
		StartsAt:          e.StartsAt,
		EndsAt:            e.EndsAt(),
		DurationMinutes:   e.DurationMinutes,
		Status:            e.Status,
		ReservationsCount: e.ReservationsCount,
		CreatedAt:         e.CreatedAt,
	}
}

func NewEventHandler(events events.EventUseCase, ledger ledger.UseCase) *EventHandler {
	return &EventHandler{events: events, ledger: ledger, now: time.Now}
}

// Register mounts the event routes. auth guards every route that acts as a caller.
func (h *EventHandler) Register(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.GET("/events", h.list)
	router.POST("/events", auth, h.create)
	router.GET("/events/:id", h.get)
	router.GET("/events/:id/availability", h.availability)
	router.POST("/events/:id/reservations", auth, h.reserve)
	router.GET("/events/:id/reservations/:code", auth, h.verifyCode)
	router.POST("/events/:id/check-in", auth, h.checkInByCode)
}

func (h *EventHandler) create(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	event, err := h.events.Create(c.Request.Context(), callerFrom(c), domain.CreateEventInput{
		Title:           req.Title,
		Description:     req.Description,
		Location:        req.Location,
		Tags:            req.Tags,
		Capacity:        req.Capacity,
		StartsAt:        req.StartsAt,
		DurationMinutes: req.DurationMinutes,
		Status:          req.Status,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newEventResponse(event))
}

func (h *EventHandler) list(c *gin.Context) {
	list, err := h.events.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]eventResponse, 0, len(list))
	for i := range list {
		out = append(out, newEventResponse(&list[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *EventHandler) get(c *gin.Context) {
	event, err := h.events.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	resp := newEventResponse(event)
	availability := domain.AvailabilityOf(event, h.now())
	resp.Availability = &availability
	c.JSON(http.StatusOK, resp)
}

func (h *EventHandler) availability(c *gin.Context) {
	a, err := h.events.Availability(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *EventHandler) reserve(c *gin.Context) {
	res, err := h.ledger.Reserve(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newReservationResponse(res))
}

func (h *EventHandler) verifyCode(c *gin.Context) {
	res, err := h.ledger.VerifyCode(c.Request.Context(), callerFrom(c), c.Param("id"), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newReservationResponse(res))
}

func (h *EventHandler) checkInByCode(c *gin.Context) {
	var req checkInByCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	res, err := h.ledger.CheckInByCode(c.Request.Context(), callerFrom(c), c.Param("id"), req.ConfirmationCode)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newReservationResponse(res))
}
