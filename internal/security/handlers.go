// internal/security/handlers.go
package security

import (
	"errors"
	"net/http"

	"pharmabackend/internal/data"
	"pharmabackend/internal/form"
	"pharmabackend/internal/logger"
	"pharmabackend/internal/middleware"
)

func writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, data.ErrNotFound):
		middleware.WriteAPIError(w, r, http.StatusNotFound, "not_found", "User does not exist", "")
	case errors.Is(err, form.ErrValidation):
		middleware.WriteAPIError(w, r, http.StatusBadRequest, "validation_error", err.Error(), "")
	default:
		logger.LogHTTPError(r, http.StatusInternalServerError, err)
		middleware.WriteAPIError(w, r, http.StatusInternalServerError, "store_error", "Storage operation failed", "")
	}
}

// LoginHandler checks credentials and issues a session token.
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req form.LoginRequest
	if err := form.DecodeAndValidate(r, &req); err != nil {
		writeAuthError(w, r, err)
		return
	}

	user, ok := Authenticate(req.Username, req.Password)
	if !ok {
		logger.LogWarn("Failed login attempt for '%s' from %s", req.Username, logger.GetClientIP(r))
		middleware.WriteAPIError(w, r, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password", "")
		return
	}

	session := NewSession(user.Username, user.Role)
	logger.LogInfo("User '%s' logged in", user.Username)
	middleware.WriteAPISuccess(w, r, session)
}

// LogoutHandler revokes the caller's session.
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("X-Session-Token")
	if token != "" {
		RevokeSession(token)
	}
	middleware.WriteAPISuccess(w, r, map[string]bool{"loggedOut": true})
}

// AdminsHandler lists admin accounts. Passwords never leave the store.
func AdminsHandler(w http.ResponseWriter, r *http.Request) {
	users, err := data.NewUserRepository().GetAll()
	if err != nil {
		writeAuthError(w, r, err)
		return
	}
	middleware.WriteAPISuccess(w, r, users)
}

// CreateAdminHandler adds an admin account.
func CreateAdminHandler(w http.ResponseWriter, r *http.Request) {
	var req form.AdminRequest
	if err := form.DecodeAndValidate(r, &req); err != nil {
		writeAuthError(w, r, err)
		return
	}

	user := data.User{Username: req.Username, Password: req.Password, Role: req.Role}
	id, err := data.NewUserRepository().Insert(user)
	if err != nil {
		writeAuthError(w, r, err)
		return
	}
	user.ID = id

	logger.LogInfo("Created admin account '%s' (%s)", user.Username, user.Role)
	middleware.WriteAPISuccess(w, r, user)
}

// DeleteAdminHandler removes an admin account.
func DeleteAdminHandler(w http.ResponseWriter, r *http.Request) {
	var req form.DeleteRequest
	if err := form.DecodeAndValidate(r, &req); err != nil {
		writeAuthError(w, r, err)
		return
	}

	if err := data.NewUserRepository().Delete(req.ID); err != nil {
		writeAuthError(w, r, err)
		return
	}
	logger.LogInfo("Deleted admin account %d", req.ID)
	middleware.WriteAPISuccess(w, r, map[string]int64{"deleted": req.ID})
}
