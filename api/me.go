package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Edwardko2004/CS391-Project/internal/domain"
	"github.com/Edwardko2004/CS391-Project/internal/service/ledger"
)

type MeHandler struct {
	ledger ledger.UseCase
}

type myReservationResponse struct {
	reservationResponse
	Event eventResponse `json:"event"`
}

type profileResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type attendeeResponse struct {
	reservationResponse
	Profile *profileResponse `json:"profile"`
}

type hostedEventResponse struct {
	eventResponse
	Attendees []attendeeResponse  `json:"attendees"`
	Stats     domain.CheckInStats `json:"stats"`
}

func newAttendeeResponse(a *domain.Attendee) attendeeResponse {
	out := attendeeResponse{reservationResponse: newReservationResponse(&a.Reservation)}
	if a.Profile != nil {
		out.Profile = &profileResponse{
			ID:        a.Profile.ID,
			FirstName: a.Profile.FirstName,
			LastName:  a.Profile.LastName,
			Email:     a.Profile.Email,
		}
	}
	return out
}

func NewMeHandler(ledger ledger.UseCase) *MeHandler {
	return &MeHandler{ledger: ledger}
}

func (h *MeHandler) Register(router *gin.RouterGroup, auth gin.HandlerFunc) {
	me := router.Group("/me", auth)
	me.GET("/reservations", h.reservations)
	me.GET("/hosted-events", h.hostedEvents)
}

// upcomingScope reads ?scope=upcoming|past, defaulting to upcoming.
func upcomingScope(c *gin.Context) (bool, bool) {
	switch c.DefaultQuery("scope", "upcoming") {
	case "upcoming":
		return true, true
	case "past":
		return false, true
	default:
		badRequest(c, "scope must be upcoming or past")
		return false, false
	}
}

func (h *MeHandler) reservations(c *gin.Context) {
	upcoming, ok := upcomingScope(c)
	if !ok {
		return
	}

	var (
		list []domain.ReservationWithEvent
		err  error
	)
	if upcoming {
		list, err = h.ledger.UpcomingReservations(c.Request.Context(), callerFrom(c))
	} else {
		list, err = h.ledger.PastReservations(c.Request.Context(), callerFrom(c))
	}
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]myReservationResponse, 0, len(list))
	for i := range list {
		out = append(out, myReservationResponse{
			reservationResponse: newReservationResponse(&list[i].Reservation),
			Event:               newEventResponse(&list[i].Event),
		})
	}
	c.JSON(http.StatusOK, out)
}

func (h *MeHandler) hostedEvents(c *gin.Context) {
	upcoming, ok := upcomingScope(c)
	if !ok {
		return
	}
	hosted, err := h.ledger.HostedEvents(c.Request.Context(), callerFrom(c), upcoming)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]hostedEventResponse, 0, len(hosted))
	for i := range hosted {
		attendees := make([]attendeeResponse, 0, len(hosted[i].Attendees))
		for j := range hosted[i].Attendees {
			attendees = append(attendees, newAttendeeResponse(&hosted[i].Attendees[j]))
		}
		out = append(out, hostedEventResponse{
			eventResponse: newEventResponse(&hosted[i].Event),
			Attendees:     attendees,
			Stats:         hosted[i].Stats(),
		})
	}
	c.JSON(http.StatusOK, out)
}
