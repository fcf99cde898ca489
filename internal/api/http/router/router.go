package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dtroode/interview-assistant/internal/api/http/handler"
	"github.com/dtroode/interview-assistant/internal/api/http/middleware"
	"github.com/dtroode/interview-assistant/internal/logger"
	"github.com/dtroode/interview-assistant/internal/metrics"
	"github.com/dtroode/interview-assistant/internal/model"
	"github.com/dtroode/interview-assistant/internal/service"
)

// Router represents the HTTP router of the interview API.
// It owns middleware ordering and route registration.
type Router struct {
	authService      *service.Auth
	interviewService *service.Interview
	reportService    *service.Report
	metrics          *metrics.Metrics
	contextManager   model.ContextManager
	corsOrigins      []string
	logger           *logger.Logger
}

// New creates new HTTP Router instance.
//
// Parameters:
//   - authService: registration, login and identity resolution
//   - interviewService: session lifecycle
//   - reportService: feedback, aggregates and archives
//   - metrics: request and score collectors, also served on /metrics
//   - contextManager: carries identity from middleware to handlers
//   - corsOrigins: origins allowed to call the API from a browser
//   - logger: access and error logging
func New(
	authService *service.Auth,
	interviewService *service.Interview,
	reportService *service.Report,
	metrics *metrics.Metrics,
	contextManager model.ContextManager,
	corsOrigins []string,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:      authService,
		interviewService: interviewService,
		reportService:    reportService,
		metrics:          metrics,
		contextManager:   contextManager,
		corsOrigins:      corsOrigins,
		logger:           logger,
	}
}

// Register builds the handler tree.
//
// Returns the configured chi router.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.authService, r.contextManager, r.logger)

	mux := chi.NewRouter()
	mux.Use(
		chimiddleware.RequestID,
		chimiddleware.RealIP,
		logging.Handle,
		chimiddleware.Recoverer,
		r.metrics.Middleware,
		cors.Handler(cors.Options{
			AllowedOrigins:   r.corsOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
		authenticate.Resolve,
	)

	health := handler.NewHealth()
	mux.Get("/", health.Root)
	mux.Get("/_ping", health.Ping)
	mux.Method(http.MethodGet, "/metrics", r.metrics.Handler())

	authHandler := handler.NewAuth(r.authService, r.contextManager, r.logger)
	mux.Post("/auth/register", authHandler.Register)
	mux.Post("/auth/login", authHandler.Login)

	mux.Group(func(protected chi.Router) {
		protected.Use(authenticate.Require)

		protected.Post("/auth/logout", authHandler.Logout)
		r.registerInterviewRoutes(protected)
		r.registerReportRoutes(protected)
	})

	mux.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"not found"}`))
	})

	return mux
}

func (r *Router) registerInterviewRoutes(router chi.Router) {
	interviewHandler := handler.NewInterview(r.interviewService, r.metrics, r.contextManager, r.logger)

	router.Route("/interview", func(ir chi.Router) {
		ir.Post("/start", interviewHandler.Start)
		ir.Post("/answer", interviewHandler.Answer)
		ir.Get("/status", interviewHandler.Status)
	})
	router.Get("/question/next", interviewHandler.NextQuestion)
}

func (r *Router) registerReportRoutes(router chi.Router) {
	reportHandler := handler.NewReport(r.reportService, r.contextManager, r.logger)

	router.Route("/feedback", func(fr chi.Router) {
		fr.Get("/{response_id}", reportHandler.FeedbackForResponse)
		fr.Get("/session/{session_id}", reportHandler.FeedbackForSession)
	})
	router.Route("/report", func(rr chi.Router) {
		rr.Get("/my", reportHandler.History)
		rr.Get("/session/{session_id}", reportHandler.SessionReport)
		rr.Post("/session/{session_id}/archive", reportHandler.Archive)
		rr.Get("/session/{session_id}/archive", reportHandler.DownloadArchive)
	})
}
