package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/flo-app/flo-backend/api/responses"
	"github.com/flo-app/flo-backend/api/validators"
	"github.com/flo-app/flo-backend/internal/users"
	pkgerrors "github.com/flo-app/flo-backend/pkg/errors"
	"github.com/flo-app/flo-backend/pkg/logger"
	pkgredis "github.com/flo-app/flo-backend/pkg/redis"
)

const rateLimitedMessage = "too many attempts, try again later"

// AuthRateLimitPolicy throttles one credential endpoint by client IP and by submitted email.
type AuthRateLimitPolicy struct {
	name       string
	window     time.Duration
	ipLimit    int
	emailLimit int
}

func NewAuthRateLimitPolicy(name string, window time.Duration, ipLimit, emailLimit int) AuthRateLimitPolicy {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "auth"
	}
	return AuthRateLimitPolicy{name: name, window: window, ipLimit: ipLimit, emailLimit: emailLimit}
}

func (p AuthRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.emailLimit > 0)
}

// limitCheck is one counter consulted for a request. value is what gets logged.
type limitCheck struct {
	kind  string
	scope string
	value string
	limit int
}

func (p AuthRateLimitPolicy) checks(ip, emailHash string) []limitCheck {
	var out []limitCheck
	if p.ipLimit > 0 && ip != "" {
		out = append(out, limitCheck{kind: "ip", scope: "ip:" + p.name + ":" + ip, value: ip, limit: p.ipLimit})
	}
	if p.emailLimit > 0 && emailHash != "" {
		out = append(out, limitCheck{kind: "email", scope: "email:" + p.name + ":" + emailHash, value: emailHash, limit: p.emailLimit})
	}
	return out
}

// AuthRateLimit rejects with 429 once either counter exceeds its limit inside the window.
// Emails are counted by hash so raw addresses never land in Redis keys.
func AuthRateLimit(policy AuthRateLimitPolicy, limiter pkgredis.RateLimiter, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var emailHash string
			if policy.emailLimit > 0 && r.Body != nil {
				body, err := validators.ReadBody(w, r)
				if err != nil {
					responses.WriteError(ctx, logg, w, err)
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))
				emailHash = hashEmail(body)
			}

			for _, check := range policy.checks(clientIP(r), emailHash) {
				allowed, count, err := limiter.FixedWindowAllow(ctx, check.scope, int64(check.limit), policy.window)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
					return
				}
				if !allowed {
					rejectRateLimited(ctx, logg, w, policy, check, count)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func rejectRateLimited(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, policy AuthRateLimitPolicy, check limitCheck, count int64) {
	if logg != nil {
		logCtx := logg.WithFields(ctx, map[string]any{
			"policy":         policy.name,
			"scope":          check.kind,
			"subject":        check.value,
			"attempts":       count,
			"limit":          check.limit,
			"window_seconds": int(policy.window.Seconds()),
		})
		logg.Warn(logCtx, "auth.rate_limit.blocked")
	}
	w.Header().Set("Retry-After", strconv.Itoa(int(policy.window.Seconds())))
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, rateLimitedMessage))
}

// hashEmail returns the sha256 of the normalized "email" field, or "" when absent.
func hashEmail(payload []byte) string {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	email := users.NormalizeEmail(body.Email)
	if email == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:])
}
