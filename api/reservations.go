package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"github.com/Edwardko2004/CS391-Project/internal/domain"
	"github.com/Edwardko2004/CS391-Project/internal/service/ledger"
)

const defaultQRSize = 256

type ReservationHandler struct {
	ledger ledger.UseCase
	qrSize int
}

type reservationResponse struct {
	ID               string     `json:"id"`
	EventID          string     `json:"event_id"`
	ProfileID        string     `json:"profile_id"`
	ConfirmationCode string     `json:"confirmation_code"`
	IsCheckedIn      bool       `json:"is_checked_in"`
	CheckedInAt      *time.Time `json:"checked_in_at"`
	CreatedAt        time.Time  `json:"created_at"`
}

func newReservationResponse(r *domain.Reservation) reservationResponse {
	return reservationResponse{
		ID:               r.ID,
		EventID:          r.EventID,
		ProfileID:        r.ProfileID,
		ConfirmationCode: r.ConfirmationCode,
		IsCheckedIn:      r.IsCheckedIn,
		CheckedInAt:      r.CheckedInAt,
		CreatedAt:        r.CreatedAt,
	}
}

func NewReservationHandler(ledger ledger.UseCase, qrSize int) *ReservationHandler {
	if qrSize <= 0 {
		qrSize = defaultQRSize
	}
	return &ReservationHandler{ledger: ledger, qrSize: qrSize}
}

func (h *ReservationHandler) Register(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.POST("/reservations/:id/check-in", auth, h.checkIn)
	router.GET("/reservations/:id/qr", auth, h.qr)
}

func (h *ReservationHandler) checkIn(c *gin.Context) {
	res, err := h.ledger.CheckIn(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newReservationResponse(res))
}

// qr renders the confirmation code itself, so a host's scanner reads the
// same text the attendee would type.
func (h *ReservationHandler) qr(c *gin.Context) {
	res, err := h.ledger.OwnedReservation(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	png, err := qrcode.Encode(res.ConfirmationCode, qrcode.Medium, h.qrSize)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Cache-Control", "private, max-age=300")
	c.Data(http.StatusOK, "image/png", png)
}
