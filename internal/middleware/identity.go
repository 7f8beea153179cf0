package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MrKriegler/insureflow/internal/core"
	"github.com/MrKriegler/insureflow/pkg/problem"
)

// Claims is the bearer token payload. Subject carries the user id.
type Claims struct {
	Email string    `json:"email"`
	Name  string    `json:"name,omitempty"`
	Role  core.Role `json:"role"`
	jwt.RegisteredClaims
}

var errNoCredentials = errors.New("missing bearer token")

// Identity resolves the calling user and stores it as a core.Actor in the
// request context. Requests without a valid identity are rejected with 401
// unless the anonymous matcher accepts them.
type Identity struct {
	secret     []byte
	devHeaders bool
	anonymous  func(*http.Request) bool
	log        *slog.Logger
}

func NewIdentity(secret string, devHeaders bool, log *slog.Logger) *Identity {
	return &Identity{secret: []byte(secret), devHeaders: devHeaders, log: log}
}

// AllowAnonymous lets requests matched by fn through without credentials.
// Credentials that are sent on such a request must still be valid.
func (m *Identity) AllowAnonymous(fn func(*http.Request) bool) *Identity {
	m.anonymous = fn
	return m
}

func (m *Identity) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if publicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		actor, err := m.resolve(r)
		if errors.Is(err, errNoCredentials) && m.anonymous != nil && m.anonymous(r) {
			next.ServeHTTP(w, r)
			return
		}
		if err != nil {
			m.log.WarnContext(r.Context(), "authentication failed", "path", r.URL.Path, "err", err)
			problem.New(problem.TypeUnauthorized, http.StatusUnauthorized, "Unauthorized", err.Error()).Send(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(core.WithActor(r.Context(), actor)))
	})
}

func (m *Identity) resolve(r *http.Request) (core.Actor, error) {
	if auth := r.Header.Get("Authorization"); auth != "" {
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return core.Actor{}, errors.New("invalid Authorization header format")
		}
		return m.parseToken(strings.TrimSpace(parts[1]))
	}

	if m.devHeaders && r.Header.Get("X-User-ID") != "" {
		return actorFrom(r.Header.Get("X-User-ID"), r.Header.Get("X-User-Email"), "", r.Header.Get("X-User-Role"))
	}
	return core.Actor{}, errNoCredentials
}

// PublicRead matches the catalog reads anyone may make: GET on the policy
// list, a policy, its reviews, and quotes. prefix is the API mount point.
func PublicRead(prefix string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			return false
		}
		path, ok := strings.CutPrefix(r.URL.Path, prefix)
		if !ok {
			return false
		}
		return path == "/policies" || path == "/quotes" || strings.HasPrefix(path, "/policies/")
	}
}

func (m *Identity) parseToken(raw string) (core.Actor, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return core.Actor{}, err
	}
	if !token.Valid {
		return core.Actor{}, errors.New("invalid token")
	}
	return actorFrom(claims.Subject, claims.Email, claims.Name, string(claims.Role))
}

func actorFrom(id, email, name, role string) (core.Actor, error) {
	a := core.Actor{
		ID:    strings.TrimSpace(id),
		Email: strings.TrimSpace(email),
		Name:  name,
		Role:  core.Role(strings.ToLower(strings.TrimSpace(role))),
	}
	if a.ID == "" {
		return core.Actor{}, errors.New("identity has no subject")
	}
	if !a.Role.Valid() {
		return core.Actor{}, errors.New("identity has an unknown role")
	}
	return a, nil
}

// IssueToken signs an HS256 token for actor. Used by tooling and tests.
func IssueToken(secret string, actor core.Actor, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: actor.Email,
		Name:  actor.Name,
		Role:  actor.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
