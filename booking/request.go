package booking

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"booking-system/reservation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"
)

// Request is a booking as submitted by a requester.
type Request struct {
	FullName string `json:"fullName" validate:"required,min=2,max=80"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Phone    string `json:"phone" validate:"required,e164"`
	Country  string `json:"country" validate:"required,iso3166_1_alpha2"`
	City     string `json:"city" validate:"max=80"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	SlotID   string `json:"slotId" validate:"required,uuid"`
	Message  string `json:"message" validate:"max=1200"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")

// Normalize trims every field, lower-cases the email, upper-cases the country
// and drops common separators from the phone number.
func (r *Request) Normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = phoneSeparators.Replace(strings.TrimSpace(r.Phone))
	r.Country = strings.ToUpper(strings.TrimSpace(r.Country))
	r.City = strings.TrimSpace(r.City)
	r.Date = strings.TrimSpace(r.Date)
	r.SlotID = strings.TrimSpace(r.SlotID)
	r.Message = strings.TrimSpace(r.Message)
}

// Validate checks the request shape and that the phone number is a valid
// number of the declared country. On success the phone is rewritten in
// canonical E.164 form.
func (r *Request) Validate() error {
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return invalidInput(err.Error(), nil)
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fieldMessage(fe)
		}
		return invalidInput("validation failed", fields)
	}

	num, err := phonenumbers.Parse(r.Phone, phonenumbers.UNKNOWN_REGION)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return invalidInput("validation failed", map[string]string{"phone": "phone number is not valid"})
	}
	if region := phonenumbers.GetRegionCodeForNumber(num); region != r.Country {
		return invalidInput("validation failed", map[string]string{
			"phone": fmt.Sprintf("phone number belongs to %s, not %s", region, r.Country),
		})
	}
	r.Phone = phonenumbers.Format(num, phonenumbers.E164)
	return nil
}

func (r *Request) slotID() uuid.UUID {
	id, _ := uuid.Parse(r.SlotID)
	return id
}

func (r *Request) reservation(slotLabel string) reservation.Reservation {
	return reservation.Reservation{
		FullName:  r.FullName,
		Email:     r.Email,
		Phone:     r.Phone,
		Country:   r.Country,
		City:      r.City,
		Date:      r.Date,
		SlotID:    r.slotID(),
		SlotLabel: slotLabel,
		Message:   r.Message,
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "email":
		return "must be a valid email address"
	case "e164":
		return "must be in international format, e.g. +919876543210"
	case "iso3166_1_alpha2":
		return "must be a two-letter country code"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "uuid":
		return "must be a valid slot id"
	}
	return "is invalid"
}
