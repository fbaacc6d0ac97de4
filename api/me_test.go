package api

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Edwardko2004/CS391-Project/internal/domain"
)

func TestMeHandler_reservations(t *testing.T) {
	mockLedger := &MockLedger{}
	handler := NewMeHandler(mockLedger)
	me := domain.Caller{ProfileID: uuid.NewString()}

	c, w := testContext("GET", "/api/v1/me/reservations?scope=past", nil)
	c.Set(contextKeyCaller, me)
	mockLedger.On("PastReservations", mock.Anything, me).Return([]domain.ReservationWithEvent{{
		Reservation: domain.Reservation{ID: "r1", ConfirmationCode: "AAAA1111"},
		Event:       domain.Event{ID: "e1", Title: "Sushi night"},
	}}, nil).Once()

	handler.reservations(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var response []myReservationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response, 1)
	assert.Equal(t, "AAAA1111", response[0].ConfirmationCode)
	assert.Equal(t, "Sushi night", response[0].Event.Title)
	mockLedger.AssertExpectations(t)
}

func TestMeHandler_reservations_BadScope(t *testing.T) {
	mockLedger := &MockLedger{}
	handler := NewMeHandler(mockLedger)
	c, w := testContext("GET", "/api/v1/me/reservations?scope=tomorrow", nil)

	handler.reservations(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockLedger.AssertNotCalled(t, "UpcomingReservations", mock.Anything, mock.Anything)
}

func TestMeHandler_hostedEvents(t *testing.T) {
	mockLedger := &MockLedger{}
	handler := NewMeHandler(mockLedger)
	host := domain.Caller{ProfileID: uuid.NewString()}
	at := time.Now()

	c, w := testContext("GET", "/api/v1/me/hosted-events", nil)
	c.Set(contextKeyCaller, host)
	mockLedger.On("HostedEvents", mock.Anything, host, true).Return([]domain.HostedEvent{{
		Event: domain.Event{ID: "e1", OrganizerID: host.ProfileID, Capacity: 5, ReservationsCount: 2},
		Attendees: []domain.Attendee{
			{
				Reservation: domain.Reservation{ID: "r1", ProfileID: "p1", IsCheckedIn: true, CheckedInAt: &at},
				Profile:     &domain.Profile{ID: "p1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@bu.edu"},
			},
			{Reservation: domain.Reservation{ID: "r2", ProfileID: "p2"}},
		},
	}}, nil).Once()

	handler.hostedEvents(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var response []hostedEventResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response, 1)
	assert.Equal(t, domain.CheckInStats{CheckedIn: 1, NotCheckedIn: 1, Total: 2}, response[0].Stats)
	require.Len(t, response[0].Attendees, 2)
	require.NotNil(t, response[0].Attendees[0].Profile)
	assert.Equal(t, "Ada", response[0].Attendees[0].Profile.FirstName)
	assert.Equal(t, "Lovelace", response[0].Attendees[0].Profile.LastName)
	assert.Equal(t, "r1", response[0].Attendees[0].ID)
	assert.Nil(t, response[0].Attendees[1].Profile)
	assert.Contains(t, w.Body.String(), `"first_name":"Ada"`)
}
