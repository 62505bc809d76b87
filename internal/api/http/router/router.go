package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/dtroode/taskkeeper-server/internal/api/http/docs"
	"github.com/dtroode/taskkeeper-server/internal/api/http/handler"
	"github.com/dtroode/taskkeeper-server/internal/api/http/middleware"
	"github.com/dtroode/taskkeeper-server/internal/api/http/respond"
	"github.com/dtroode/taskkeeper-server/internal/api/http/validate"
	"github.com/dtroode/taskkeeper-server/internal/logger"
	"github.com/dtroode/taskkeeper-server/internal/model"
)

const authRateWindow = time.Minute

// Options tune the middleware stack.
type Options struct {
	RequestTimeout time.Duration
	AuthRateLimit  int
	Production     bool
}

// Router wires handlers and middleware into an http.Handler.
type Router struct {
	authService    handler.AuthService
	taskService    handler.TaskService
	tokenService   middleware.TokenService
	contextManager model.ContextManager
	pinger         model.Pinger
	opts           Options
	logger         *logger.Logger
}

// New creates new Router instance.
func New(
	authService handler.AuthService,
	taskService handler.TaskService,
	tokenService middleware.TokenService,
	contextManager model.ContextManager,
	pinger model.Pinger,
	opts Options,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		taskService:    taskService,
		tokenService:   tokenService,
		contextManager: contextManager,
		pinger:         pinger,
		opts:           opts,
		logger:         logger,
	}
}

// Register builds the route tree. Auth and task routes are served both at
// /auth, /tasks and at their /api/users, /api/tasks aliases.
func (rt *Router) Register() http.Handler {
	r := chi.NewRouter()

	r.Use(rt.commonMiddleware()...)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respond.Message(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respond.Message(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	v := validate.New(rt.logger)

	health := handler.NewHealth(rt.pinger, rt.logger)
	r.Get("/", health.Index)
	r.Get("/healthz", health.Healthz)
	r.Get("/api-docs", docs.Handler)

	authRoutes := rt.authRoutes(v)
	r.Route("/auth", authRoutes)
	r.Route("/api/users", authRoutes)

	taskRoutes := rt.taskRoutes(v)
	r.Route("/tasks", taskRoutes)
	r.Route("/api/tasks", taskRoutes)

	return r
}

func (rt *Router) commonMiddleware() []func(http.Handler) http.Handler {
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLRedirect:        rt.opts.Production,
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:      !rt.opts.Production,
	})

	timeout := rt.opts.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return []func(http.Handler) http.Handler{
		chimiddleware.RequestID,
		chimiddleware.RealIP,
		middleware.NewLogging(rt.logger).Handle,
		middleware.NewRecovery(rt.logger).Handle,
		secureMiddleware.Handler,
		cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
			MaxAge:         300,
		}),
		chimiddleware.Timeout(timeout),
	}
}

func (rt *Router) authRoutes(v *validate.Validator) func(chi.Router) {
	authHandler := handler.NewAuth(rt.authService, rt.logger)

	// Shared by both mount points.
	limiter := httprate.Limit(rt.opts.AuthRateLimit, authRateWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			respond.Message(w, http.StatusTooManyRequests, "Too many requests")
		}),
	)

	return func(r chi.Router) {
		r.Use(limiter)
		r.With(validate.Middleware[handler.RegisterBody, validate.None, validate.None](v)).
			Post("/register", authHandler.Register)
		r.With(validate.Middleware[handler.LoginBody, validate.None, validate.None](v)).
			Post("/login", authHandler.Login)
	}
}

// taskRoutes validates the request before the auth gate runs.
func (rt *Router) taskRoutes(v *validate.Validator) func(chi.Router) {
	taskHandler := handler.NewTask(rt.taskService, rt.contextManager, rt.logger)
	authenticate := middleware.NewAuthenticate(rt.tokenService, rt.contextManager, rt.logger).Handle

	return func(r chi.Router) {
		r.With(validate.Middleware[validate.None, validate.None, handler.ListTasksQuery](v), authenticate).
			Get("/", taskHandler.GetTasks)
		r.With(validate.Middleware[handler.CreateTaskBody, validate.None, validate.None](v), authenticate).
			Post("/", taskHandler.CreateTask)
		r.With(validate.Middleware[validate.None, handler.TaskParams, validate.None](v), authenticate).
			Get("/{id}", taskHandler.GetTask)
		r.With(validate.Middleware[handler.UpdateTaskBody, handler.TaskParams, validate.None](v), authenticate).
			Put("/{id}", taskHandler.UpdateTask)
		r.With(validate.Middleware[validate.None, handler.TaskParams, validate.None](v), authenticate).
			Delete("/{id}", taskHandler.DeleteTask)
	}
}
