package api

import (
	"errors"
	"log"
	"net/http"

	"booking-system/booking"
)

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// writeError answers with the status and message of a booking error.
// Storage causes are logged and never echoed.
func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var be *booking.Error
	if !errors.As(err, &be) {
		be = &booking.Error{Code: booking.CodeStorageError, Message: booking.ErrStorage.Message, Cause: err}
	}
	if be.Code == booking.CodeStorageError {
		log.Printf("%s %s request_id=%s: %v", r.Method, r.URL.Path, r.Header.Get(requestIDHeader), err)
	}
	a.Response(w, be.Code.HTTPStatus(), errorBody{
		Code:    string(be.Code),
		Message: be.Message,
		Fields:  be.Fields,
	})
}

func (a *API) badRequest(w http.ResponseWriter, message string) {
	a.Response(w, http.StatusBadRequest, errorBody{
		Code:    string(booking.CodeInvalidInput),
		Message: message,
	})
}
