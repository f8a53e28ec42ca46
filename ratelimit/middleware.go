package ratelimit

import (
	"context"
	"log"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// KeyFunc extracts the client key a request is throttled under.
type KeyFunc func(r *http.Request) string

// RejectFunc writes the response for a throttled request. Retry-After is
// already set.
type RejectFunc func(w http.ResponseWriter, r *http.Request, retryAfter time.Duration)

type Options struct {
	Store *Store
	// Stats is optional. Recording is best effort with a short timeout.
	Stats              StatsStore
	KeyFn              KeyFunc
	KeyHeader          string
	TrustXForwardedFor bool
	OnReject           RejectFunc
}

const statsTimeout = 200 * time.Millisecond

// DefaultKeyFunc keys by keyHeader when present, then by the first
// X-Forwarded-For entry when trusted, then by the remote host.
func DefaultKeyFunc(keyHeader string, trustXFF bool) KeyFunc {
	return func(r *http.Request) string {
		if keyHeader != "" {
			if v := strings.TrimSpace(r.Header.Get(keyHeader)); v != "" {
				return v
			}
		}

		if trustXFF {
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				first, _, _ := strings.Cut(xff, ",")
				if ip := strings.TrimSpace(first); ip != "" {
					return ip
				}
			}
		}

		host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
		if err == nil && host != "" {
			return host
		}
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return "unknown"
	}
}

func defaultReject(w http.ResponseWriter, _ *http.Request, _ time.Duration) {
	http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
}

func Middleware(opts Options) func(next http.Handler) http.Handler {
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc(opts.KeyHeader, opts.TrustXForwardedFor)
	}
	if opts.OnReject == nil {
		opts.OnReject = defaultReject
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := opts.KeyFn(r)
			allowed, retryAfter := opts.Store.Decide(key)

			if opts.Stats != nil {
				recordStats(r, opts.Stats, StatsEvent{
					Key:     key,
					Allowed: allowed,
					Method:  r.Method,
					Path:    r.URL.Path,
					At:      time.Now(),
				})
			}

			if !allowed {
				secs := int(math.Ceil(retryAfter.Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(max(secs, 1)))
				opts.OnReject(w, r, retryAfter)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func recordStats(r *http.Request, stats StatsStore, ev StatsEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), statsTimeout)
	defer cancel()
	if err := stats.Record(ctx, ev); err != nil {
		log.Printf("rate limit stats: %v", err)
	}
}
