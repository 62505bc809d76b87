package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/taskkeeper-server/internal/api/http/respond"
	"github.com/dtroode/taskkeeper-server/internal/api/http/validate"
	apiErrors "github.com/dtroode/taskkeeper-server/internal/apierrors"
	"github.com/dtroode/taskkeeper-server/internal/mocks"
	"github.com/dtroode/taskkeeper-server/internal/model"
	"github.com/dtroode/taskkeeper-server/internal/testutil"
)

func registerRoute(h *Auth) http.Handler {
	return mount(http.MethodPost, "/auth/register", validate.Middleware[RegisterBody, validate.None, validate.None], h.Register)
}

func loginRoute(h *Auth) http.Handler {
	return mount(http.MethodPost, "/auth/login", validate.Middleware[LoginBody, validate.None, validate.None], h.Login)
}

func TestAuth_Register(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		svcErr      error
		callsSvc    bool
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "success",
			body:        `{"name":"A","email":"a@b.com","password":"secret123"}`,
			callsSvc:    true,
			wantStatus:  http.StatusCreated,
			wantMessage: "User registered successfully",
		},
		{
			name:        "user exists",
			body:        `{"name":"A","email":"a@b.com","password":"secret123"}`,
			callsSvc:    true,
			svcErr:      apiErrors.NewErrEmailIsTaken("a@b.com"),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "User already exists",
		},
		{
			name:        "store failure",
			body:        `{"name":"A","email":"a@b.com","password":"secret123"}`,
			callsSvc:    true,
			svcErr:      assert.AnError,
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Server error",
		},
		{
			name:        "short password",
			body:        `{"name":"A","email":"a@b.com","password":"short"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Validation error",
		},
		{
			name:        "bad email",
			body:        `{"name":"A","email":"not-an-email","password":"secret123"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Validation error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := mocks.NewAuthService(t)
			if tt.callsSvc {
				svc.On("Register", mock.Anything, model.RegisterParams{Name: "A", Email: "a@b.com", Password: "secret123"}).
					Return(model.User{ID: uuid.New(), Email: "a@b.com"}, tt.svcErr)
			}

			rec := do(t, registerRoute(NewAuth(svc, testutil.MakeNoopLogger())), http.MethodPost, "/auth/register", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decode[respond.ErrorBody](t, rec)
			assert.Equal(t, tt.wantMessage, body.Message)
		})
	}
}

func TestAuth_Login(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		svcToken    string
		svcErr      error
		wantStatus  int
		wantMessage string
		wantToken   string
	}{
		{
			name:        "success",
			svcToken:    "jwt",
			wantStatus:  http.StatusOK,
			wantMessage: "Login successful",
			wantToken:   "jwt",
		},
		{
			name:        "unknown user",
			svcErr:      apiErrors.NewErrUserNotFound("a@b.com"),
			wantStatus:  http.StatusNotFound,
			wantMessage: "User not found",
		},
		{
			name:        "wrong password",
			svcErr:      apiErrors.NewErrInvalidCredentials(),
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Invalid credentials",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := mocks.NewAuthService(t)
			svc.On("Login", mock.Anything, model.LoginParams{Email: "a@b.com", Password: "secret123"}).
				Return(tt.svcToken, tt.svcErr)

			rec := do(t, loginRoute(NewAuth(svc, testutil.MakeNoopLogger())), http.MethodPost, "/auth/login",
				`{"email":"a@b.com","password":"secret123"}`)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decode[loginResponse](t, rec)
			assert.Equal(t, tt.wantMessage, body.Message)
			assert.Equal(t, tt.wantToken, body.Token)
		})
	}
}

func TestAuth_Register_WithoutValidation(t *testing.T) {
	t.Parallel()

	h := NewAuth(mocks.NewAuthService(t), testutil.MakeNoopLogger())

	rec := do(t, http.HandlerFunc(h.Register), http.MethodPost, "/auth/register", `{}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
