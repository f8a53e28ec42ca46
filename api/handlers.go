package api

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"booking-system/booking"
	"booking-system/ratelimit"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

type API struct {
	root     *mux.Router
	router   *mux.Router
	bookings *booking.Coordinator

	adminKey     string
	clientURL    string
	globalLimit  func(http.Handler) http.Handler
	bookingLimit func(http.Handler) http.Handler
}

type Option func(*API)

// WithAdminKey sets the key admin routes expect in X-Admin-Key. Without one
// every admin request is rejected.
func WithAdminKey(key string) Option {
	return func(a *API) { a.adminKey = strings.TrimSpace(key) }
}

// WithClientURL allows cross-origin requests from the booking front end.
func WithClientURL(url string) Option {
	return func(a *API) { a.clientURL = strings.TrimSpace(url) }
}

// WithRateLimits throttles every request with global and booking creation
// with bookings. Either store may be nil. base carries the shared key and
// stats settings.
func WithRateLimits(global, bookings *ratelimit.Store, base ratelimit.Options) Option {
	return func(a *API) {
		base.OnReject = a.tooManyRequests
		if global != nil {
			opts := base
			opts.Store = global
			a.globalLimit = ratelimit.Middleware(opts)
		}
		if bookings != nil {
			opts := base
			opts.Store = bookings
			a.bookingLimit = ratelimit.Middleware(opts)
		}
	}
}

func NewAPI(bookings *booking.Coordinator, opts ...Option) *API {
	root := mux.NewRouter()
	a := &API{
		root:     root,
		router:   root.PathPrefix("/api").Subrouter(),
		bookings: bookings,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *API) Router() *mux.Router {
	return a.root
}

// Handler wraps the router with the cross-cutting middleware: request ids,
// global rate limiting, CORS, panic recovery and the access log.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.root
	if a.globalLimit != nil {
		h = a.globalLimit(h)
	}
	if a.clientURL != "" {
		h = handlers.CORS(
			handlers.AllowedOrigins([]string{a.clientURL}),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
			handlers.AllowedHeaders([]string{"Content-Type", "X-Admin-Key", "X-Request-ID"}),
			handlers.ExposedHeaders([]string{"Content-Disposition", "Retry-After", "X-Request-ID"}),
		)(h)
	}
	h = requestID(h)
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(h)
	return handlers.CombinedLoggingHandler(os.Stdout, h)
}

type Response struct {
	Status   int `json:"status"`
	Response any `json:"response"`
}

func (a *API) Response(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(Response{
		Status:   status,
		Response: data,
	})
	if err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

func (a *API) RegisterRoutes() {
	a.router.HandleFunc("/health", a.health).Methods(http.MethodGet)
	a.router.HandleFunc("/slots", a.getSlots).Methods(http.MethodGet)
	a.router.Handle("/bookings", a.limitBookings(http.HandlerFunc(a.createBooking))).Methods(http.MethodPost)

	admin := a.router.PathPrefix("/admin").Subrouter()
	admin.Use(a.requireAdmin)
	admin.HandleFunc("/validate", a.validateAdmin).Methods(http.MethodGet)
	admin.HandleFunc("/bookings", a.searchBookings).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/export", a.exportBookings).Methods(http.MethodGet)
}

func (a *API) limitBookings(h http.Handler) http.Handler {
	if a.bookingLimit == nil {
		return h
	}
	return a.bookingLimit(h)
}

func (a *API) tooManyRequests(w http.ResponseWriter, _ *http.Request, _ time.Duration) {
	a.Response(w, http.StatusTooManyRequests, errorBody{
		Code:    "RATE_LIMITED",
		Message: "too many requests, please try again later",
	})
}

const requestIDHeader = "X-Request-ID"

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}
