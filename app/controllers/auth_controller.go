package controllers

import (
	"net/http"

	"quill/app/models"
	"quill/app/services"

	"go.uber.org/zap"
)

// AuthController handles registration, login and the caller's own profile
type AuthController struct {
	responder
	userService *services.UserService
}

// NewAuthController creates a new AuthController
func NewAuthController(userService *services.UserService, log *zap.Logger) *AuthController {
	return &AuthController{
		responder:   responder{log: log.Named("controllers.auth")},
		userService: userService,
	}
}

type loginRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

type availability struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

// Register creates an account and returns a session
func (ac *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in models.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		ac.sendError(w, r, err)
		return
	}

	session, err := ac.userService.Register(r.Context(), in)
	if err != nil {
		ac.sendError(w, r, err)
		return
	}
	ac.sendJSON(w, http.StatusCreated, session)
}

// Login exchanges credentials for a session
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeJSON(w, r, &in); err != nil {
		ac.sendError(w, r, err)
		return
	}

	session, err := ac.userService.Login(r.Context(), in.UserName, in.Password)
	if err != nil {
		ac.sendError(w, r, err)
		return
	}
	ac.sendJSON(w, http.StatusOK, session)
}

// CheckUserName reports whether the userName query parameter is free
func (ac *AuthController) CheckUserName(w http.ResponseWriter, r *http.Request) {
	available, err := ac.userService.CheckAvailability(r.Context(), r.URL.Query().Get("userName"))
	if err != nil {
		ac.sendError(w, r, err)
		return
	}

	resp := availability{Available: available, Message: "Username is available"}
	if !available {
		resp.Message = "Username is already taken"
	}
	ac.sendJSON(w, http.StatusOK, resp)
}

// Profile returns the caller's own user record
func (ac *AuthController) Profile(w http.ResponseWriter, r *http.Request) {
	userID, err := actor(r)
	if err != nil {
		ac.sendError(w, r, err)
		return
	}

	user, err := ac.userService.Profile(r.Context(), userID)
	if err != nil {
		ac.sendError(w, r, err)
		return
	}
	ac.sendJSON(w, http.StatusOK, user)
}

// UpdateProfile edits the caller's profile and returns a fresh session
func (ac *AuthController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := actor(r)
	if err != nil {
		ac.sendError(w, r, err)
		return
	}

	var patch models.ProfilePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		ac.sendError(w, r, err)
		return
	}

	session, err := ac.userService.UpdateProfile(r.Context(), userID, patch)
	if err != nil {
		ac.sendError(w, r, err)
		return
	}
	ac.sendJSON(w, http.StatusOK, session)
}

// ChangePassword replaces the caller's password
func (ac *AuthController) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := actor(r)
	if err != nil {
		ac.sendError(w, r, err)
		return
	}

	var in models.PasswordChange
	if err := decodeJSON(w, r, &in); err != nil {
		ac.sendError(w, r, err)
		return
	}

	if err := ac.userService.ChangePassword(r.Context(), userID, in); err != nil {
		ac.sendError(w, r, err)
		return
	}
	ac.sendMessage(w, http.StatusOK, "Password changed successfully")
}
