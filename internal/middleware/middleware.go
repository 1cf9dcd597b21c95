package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"pharmabackend/internal/logger"
)

// Request context keys
type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	TokenKey     contextKey = "session_token"
)

// Standard API error response
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
	RequestID string `json:"request_id"`
}

// Standard API success response
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	RequestID string      `json:"request_id"`
}

// TokenValidator reports whether a session token is valid. Injected from
// main so this package stays independent of the session store.
type TokenValidator func(token string) bool

// APIMiddleware is the chain for authenticated API endpoints.
func APIMiddleware(validate TokenValidator, next http.HandlerFunc) http.HandlerFunc {
	return RequestID(
		Logging(
			SessionValidation(validate,
				ErrorHandling(next),
			),
		),
	)
}

// PublicMiddleware is the chain for endpoints reachable without a session
// (login, health).
func PublicMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return RequestID(
		Logging(
			ErrorHandling(next),
		),
	)
}

// RequestID middleware adds a unique request ID to each request
func RequestID(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// Logging middleware logs all API requests with consistent format
func Logging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := getRequestID(r.Context())

		logger.LogInfo("API request started: request_id=%s method=%s path=%s client=%s",
			requestID, r.Method, r.URL.Path, logger.GetClientIP(r))

		// Create a response writer that captures status code
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		logger.LogInfo("API request completed: request_id=%s status=%d took=%s",
			requestID, rw.statusCode, duration)
	}
}

// SessionValidation middleware rejects requests without a valid session token
func SessionValidation(validate TokenValidator, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("X-Session-Token")
		if token == "" {
			WriteAPIError(w, r, http.StatusUnauthorized, "missing_token", "Session token required", "")
			return
		}

		if !validate(token) {
			WriteAPIError(w, r, http.StatusUnauthorized, "invalid_token", "Session token is invalid or expired", "")
			return
		}

		ctx := context.WithValue(r.Context(), TokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// ErrorHandling middleware provides panic recovery and consistent error responses
func ErrorHandling(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				requestID := getRequestID(r.Context())
				logger.LogError("Panic in API handler: request_id=%s path=%s error=%v",
					requestID, r.URL.Path, err)
				WriteAPIError(w, r, http.StatusInternalServerError, "internal_error",
					"An internal error occurred", "")
			}
		}()
		next.ServeHTTP(w, r)
	}
}

// GetToken retrieves the session token from request context
func GetToken(ctx context.Context) string {
	if token, ok := ctx.Value(TokenKey).(string); ok {
		return token
	}
	return ""
}

// Helper functions
func generateRequestID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

func getRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// WriteAPIError writes a standardized error response
func WriteAPIError(w http.ResponseWriter, r *http.Request, statusCode int, code, message, details string) {
	requestID := getRequestID(r.Context())

	response := APIError{
		Code:      code,
		Message:   message,
		Details:   details,
		RequestID: requestID,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

// WriteAPISuccess writes a standardized success response
func WriteAPISuccess(w http.ResponseWriter, r *http.Request, data interface{}) {
	requestID := getRequestID(r.Context())

	response := APIResponse{
		Success:   true,
		Data:      data,
		RequestID: requestID,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// RequireMethod rejects requests whose method doesn't match.
func RequireMethod(method string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		if r.Method != method {
			WriteAPIError(w, r, http.StatusMethodNotAllowed, "method_not_allowed",
				fmt.Sprintf("Use %s for this endpoint", method), "")
			return
		}
		next.ServeHTTP(w, r)
	}
}
