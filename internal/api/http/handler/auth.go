package handler

import (
	"context"
	"net/http"

	"github.com/dtroode/taskkeeper-server/internal/api/http/respond"
	"github.com/dtroode/taskkeeper-server/internal/api/http/validate"
	"github.com/dtroode/taskkeeper-server/internal/logger"
	"github.com/dtroode/taskkeeper-server/internal/model"
)

// AuthService defines user registration and login operations.
type AuthService interface {
	Register(ctx context.Context, params model.RegisterParams) (model.User, error)
	Login(ctx context.Context, params model.LoginParams) (string, error)
}

type loginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// Auth handles HTTP endpoints for authentication.
type Auth struct {
	authService AuthService
	logger      *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, logger *logger.Logger) *Auth {
	return &Auth{
		authService: authService,
		logger:      logger,
	}
}

// Register creates a user account.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	req, err := request[RegisterBody, validate.None, validate.None](r)
	if err != nil {
		handleError(w, h.logger, "Auth handler: registration failed", err)
		return
	}

	h.logger.Debug("Auth handler: processing registration request",
		"email", req.Body.Email)

	_, err = h.authService.Register(r.Context(), model.RegisterParams{
		Name:     req.Body.Name,
		Email:    req.Body.Email,
		Password: req.Body.Password,
	})
	if err != nil {
		handleError(w, h.logger, "Auth handler: registration failed", err,
			"email", req.Body.Email)
		return
	}

	respond.Message(w, http.StatusCreated, "User registered successfully")
}

// Login exchanges credentials for an access token.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	req, err := request[LoginBody, validate.None, validate.None](r)
	if err != nil {
		handleError(w, h.logger, "Auth handler: login failed", err)
		return
	}

	h.logger.Debug("Auth handler: processing login request",
		"email", req.Body.Email)

	token, err := h.authService.Login(r.Context(), model.LoginParams{
		Email:    req.Body.Email,
		Password: req.Body.Password,
	})
	if err != nil {
		handleError(w, h.logger, "Auth handler: login failed", err,
			"email", req.Body.Email)
		return
	}

	respond.JSON(w, http.StatusOK, loginResponse{Token: token, Message: "Login successful"})
}
