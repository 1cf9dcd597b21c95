// internal/security/security.go
package security

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"pharmabackend/internal/config"
	"pharmabackend/internal/data"
	"pharmabackend/internal/logger"
)

// Session is the explicit per-login state handed out at login time. There is
// no ambient "current user" global; callers carry the token.
type Session struct {
	Token    string    `json:"token"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
	Expiry   time.Time `json:"expiry"`
}

var (
	sessions   = make(map[string]Session)
	sessionsMu sync.Mutex
	sessionTTL = time.Hour * 8
)

// NewSession issues a session token for an authenticated user.
func NewSession(username, role string) Session {
	s := Session{
		Token:    uuid.NewString(),
		Username: username,
		Role:     role,
		Expiry:   time.Now().Add(sessionTTL),
	}

	sessionsMu.Lock()
	sessions[s.Token] = s
	sessionsMu.Unlock()

	return s
}

// ValidateSessionToken reports whether the token belongs to a live session.
func ValidateSessionToken(token string) bool {
	sessionsMu.Lock()
	defer sessionsMu.Unlock()

	s, ok := sessions[token]
	if !ok {
		return false
	}
	if time.Now().After(s.Expiry) {
		delete(sessions, token)
		return false
	}
	return true
}

// GetSession returns the session for a token, if still live.
func GetSession(token string) (Session, bool) {
	sessionsMu.Lock()
	defer sessionsMu.Unlock()

	s, ok := sessions[token]
	if !ok || time.Now().After(s.Expiry) {
		return Session{}, false
	}
	return s, true
}

// RevokeSession removes a session (logout).
func RevokeSession(token string) {
	sessionsMu.Lock()
	delete(sessions, token)
	sessionsMu.Unlock()
}

// CleanExpiredSessions periodically drops expired sessions.
func CleanExpiredSessions() {
	ticker := time.NewTicker(time.Minute * 5)
	defer ticker.Stop()

	for range ticker.C {
		sessionsMu.Lock()
		for token, s := range sessions {
			if time.Now().After(s.Expiry) {
				delete(sessions, token)
			}
		}
		sessionsMu.Unlock()
		logger.LogInfo("Session cleanup completed")
	}
}

// Authenticate checks credentials against the users table. Passwords are
// compared as stored; see DESIGN.md on the plaintext column.
func Authenticate(username, password string) (*data.User, bool) {
	user, err := data.NewUserRepository().GetByUsername(username)
	if err != nil {
		if err != data.ErrNotFound {
			logger.LogError("Login lookup failed for %s: %v", username, err)
		}
		return nil, false
	}

	if user.Password != password {
		return nil, false
	}
	return user, true
}

// ProvisionSeedAdmin inserts the configured admin account when the users
// table is empty. This replaces the original's hardcoded login bypass.
func ProvisionSeedAdmin() error {
	repo := data.NewUserRepository()

	count, err := repo.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	_, err = repo.Insert(data.User{
		Username: config.SeedAdminUsername,
		Password: config.SeedAdminPassword,
		Role:     config.SeedAdminRole,
	})
	if err != nil {
		return err
	}

	logger.LogInfo("Provisioned seed admin account '%s'", config.SeedAdminUsername)
	return nil
}

// AddCORSHeaders adds CORS headers and handles OPTIONS requests globally.
func AddCORSHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", config.AllowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Session-Token")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
