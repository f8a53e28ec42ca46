package booking_test

import (
	"strings"
	"testing"

	"booking-system/booking"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest(slotID uuid.UUID) booking.Request {
	return booking.Request{
		FullName: "Asha Rao",
		Email:    "asha@example.com",
		Phone:    "+918123456789",
		Country:  "IN",
		City:     "Pune",
		Date:     "2026-03-03",
		SlotID:   slotID.String(),
		Message:  "See you then",
	}
}

func TestRequestNormalize(t *testing.T) {
	t.Parallel()
	req := booking.Request{
		FullName: "  Asha Rao ",
		Email:    " Asha@Example.COM",
		Phone:    "+91 81234-56789",
		Country:  " in ",
		Date:     " 2026-03-03 ",
	}
	req.Normalize()

	assert.Equal(t, "Asha Rao", req.FullName)
	assert.Equal(t, "asha@example.com", req.Email)
	assert.Equal(t, "+918123456789", req.Phone)
	assert.Equal(t, "IN", req.Country)
	assert.Equal(t, "2026-03-03", req.Date)
}

func TestRequestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(r *booking.Request)
		field  string
	}{
		{"name too short", func(r *booking.Request) { r.FullName = "A" }, "fullName"},
		{"name too long", func(r *booking.Request) { r.FullName = strings.Repeat("a", 81) }, "fullName"},
		{"bad email", func(r *booking.Request) { r.Email = "not-an-email" }, "email"},
		{"phone not e164", func(r *booking.Request) { r.Phone = "08123456789" }, "phone"},
		{"phone in another country", func(r *booking.Request) { r.Phone = "+14155550123" }, "phone"},
		{"bad country", func(r *booking.Request) { r.Country = "XX" }, "country"},
		{"bad date", func(r *booking.Request) { r.Date = "03/03/2026" }, "date"},
		{"bad slot id", func(r *booking.Request) { r.SlotID = "slot-1" }, "slotId"},
		{"message too long", func(r *booking.Request) { r.Message = strings.Repeat("m", 1201) }, "message"},
		{"missing email", func(r *booking.Request) { r.Email = "" }, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := validRequest(uuid.New())
			tt.mutate(&req)

			err := req.Validate()
			require.ErrorIs(t, err, booking.ErrInvalidInput)

			var be *booking.Error
			require.ErrorAs(t, err, &be)
			assert.Contains(t, be.Fields, tt.field)
		})
	}

	t.Run("valid request canonicalizes phone", func(t *testing.T) {
		t.Parallel()
		req := validRequest(uuid.New())
		req.Phone = "+12015550123"
		req.Country = "US"

		require.NoError(t, req.Validate())
		assert.Equal(t, "+12015550123", req.Phone)
	})

	t.Run("city is optional", func(t *testing.T) {
		t.Parallel()
		req := validRequest(uuid.New())
		req.City = ""
		req.Message = ""
		assert.NoError(t, req.Validate())
	})
}

func TestErrorCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err    *booking.Error
		status int
	}{
		{booking.ErrInvalidInput, 400},
		{booking.ErrDateNotBookable, 400},
		{booking.ErrSlotNotFound, 404},
		{booking.ErrSlotDateMismatch, 400},
		{booking.ErrSlotFull, 409},
		{booking.ErrDuplicateReservation, 409},
		{booking.ErrStorage, 500},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.err.Code.HTTPStatus(), tt.err.Code)
	}
	assert.Equal(t, 500, booking.CodeNotificationFailed.HTTPStatus())

	wrapped := &booking.Error{Code: booking.CodeSlotFull, Message: "slot is full"}
	assert.ErrorIs(t, wrapped, booking.ErrSlotFull)
	assert.NotErrorIs(t, wrapped, booking.ErrDuplicateReservation)
	assert.Equal(t, booking.CodeSlotFull, booking.CodeOf(wrapped))
	assert.Equal(t, booking.CodeStorageError, booking.CodeOf(assert.AnError))
}
