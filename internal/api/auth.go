package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"

	"github.com/nerrad567/storefront-core/internal/auth"
	"github.com/nerrad567/storefront-core/internal/infrastructure/mqtt"
)

const minPasswordLength = auth.MinPasswordLength

const msgInvalidLogin = "Invalid email and/or password."

type signupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type setRoleRequest struct {
	UserID string    `json:"user_id"`
	Role   auth.Role `json:"role"`
}

type sessionResponse struct {
	Message string     `json:"message"`
	User    *auth.User `json:"user"`
}

// handleSignup creates a member account and starts its session.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" || req.ConfirmPassword == "" {
		writeBadRequest(w, "All fields are required")
		return
	}
	if req.Password != req.ConfirmPassword {
		writeBadRequest(w, "Passwords do not match")
		return
	}
	if len(req.Password) < minPasswordLength {
		writeBadRequest(w, fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeBadRequest(w, "Invalid email address")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("hash password failed", "error", err)
		writeInternalError(w)
		return
	}

	user := &auth.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         auth.RoleMember,
	}
	if err := s.users.Create(r.Context(), user); err != nil {
		if errors.Is(err, auth.ErrEmailExists) {
			writeBadRequest(w, "An account with that email already exists")
			return
		}
		s.logger.Error("create account failed", "error", err)
		writeInternalError(w)
		return
	}

	if !s.startSession(w, user.ID) {
		return
	}

	s.logger.Info("account created", "user_id", user.ID)
	s.publishEvent(mqtt.Topics{}.AccountEvent("created"), "created", user.ID, user.ID)

	writeJSON(w, http.StatusCreated, sessionResponse{
		Message: "Signup Successful.",
		User:    user.Principal(),
	})
}

// handleLogin verifies credentials and starts a session.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeBadRequest(w, "All fields are required")
		return
	}

	user, err := s.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			writeBadRequest(w, msgInvalidLogin)
			return
		}
		s.logger.Error("login lookup failed", "error", err)
		writeInternalError(w)
		return
	}

	ok, err := auth.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		s.logger.Error("password verification failed", "user_id", user.ID, "error", err)
		writeInternalError(w)
		return
	}
	if !ok {
		s.logger.Info("login rejected", "user_id", user.ID)
		writeBadRequest(w, msgInvalidLogin)
		return
	}

	if !s.startSession(w, user.ID) {
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		Message: "Login Successful.",
		User:    user.Principal(),
	})
}

// handleLogout expires both session cookies. It needs no session.
func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	s.cookies.Clear(w)
	writeJSON(w, http.StatusOK, message{Message: "Logout Successful."})
}

// handleMe returns the authenticated principal.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, auth.UserFromContext(r.Context()))
}

// handleDeleteAccount removes the caller's own account and ends the session.
func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	if err := s.users.Delete(r.Context(), user.ID); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			s.cookies.Clear(w)
			writeNotFound(w, "User not found")
			return
		}
		s.logger.Error("delete account failed", "user_id", user.ID, "error", err)
		writeInternalError(w)
		return
	}

	s.cookies.Clear(w)
	s.logger.Info("account deleted", "user_id", user.ID)
	s.publishEvent(mqtt.Topics{}.AccountEvent("deleted"), "deleted", user.ID, user.ID)

	writeJSON(w, http.StatusOK, message{Message: "Account deleted."})
}

// handleSetRole assigns a role to another account. Super-admin only.
func (s *Server) handleSetRole(w http.ResponseWriter, r *http.Request) {
	actor := auth.UserFromContext(r.Context())

	var req setRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.UserID == "" || req.Role == "" {
		writeBadRequest(w, "All fields are required")
		return
	}
	if !auth.IsValidRole(req.Role) {
		writeBadRequest(w, "Invalid role.")
		return
	}
	if req.UserID == actor.ID {
		writeForbidden(w, "You cannot change your own role.")
		return
	}

	if err := s.users.UpdateRole(r.Context(), req.UserID, req.Role); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			writeNotFound(w, "User not found")
			return
		}
		s.logger.Error("set role failed", "user_id", req.UserID, "error", err)
		writeInternalError(w)
		return
	}

	s.logger.Info("role changed", "user_id", req.UserID, "role", req.Role, "changed_by", actor.ID)
	s.auditLog(actor.ID, fmt.Sprintf("Set role of user %s to %s.", req.UserID, req.Role))
	s.publishEvent(mqtt.Topics{}.AccountEvent("role_changed"), "role_changed", req.UserID, actor.ID)

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Role updated.",
		"user_id": req.UserID,
		"role":    req.Role,
	})
}

// handleListAdmins returns every staff account. Super-admin only.
func (s *Server) handleListAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := s.users.ListByRoles(r.Context(), auth.StaffRoles)
	if err != nil {
		s.logger.Error("list admins failed", "error", err)
		writeInternalError(w)
		return
	}

	for i := range admins {
		admins[i].PasswordHash = ""
	}
	writeJSON(w, http.StatusOK, admins)
}

// startSession issues both tokens for userID and writes them as cookies.
// It reports false after writing a 500 response.
func (s *Server) startSession(w http.ResponseWriter, userID string) bool {
	access, err := s.tokens.IssueAccessToken(userID)
	if err != nil {
		s.logger.Error("issue access token failed", "user_id", userID, "error", err)
		writeInternalError(w)
		return false
	}
	refresh, err := s.tokens.IssueRefreshToken(userID)
	if err != nil {
		s.logger.Error("issue refresh token failed", "user_id", userID, "error", err)
		writeInternalError(w)
		return false
	}
	s.cookies.Write(w, access, refresh)
	return true
}
