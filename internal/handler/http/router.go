package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterOptions carries the ambient settings the router needs from config
type RouterOptions struct {
	AppName        string
	Version        string
	Env            string
	AllowedOrigins []string
	MetricsEnabled bool
}

func NewRouter(
	JWTService jwt.Service,
	attendanceHandler AttendanceHandler,
	overviewHandler OverviewHandler,
	realtimeHandler RealtimeHandler,
	opts RouterOptions,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", opts.AppName),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})

	if opts.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		// The stream authenticates with the short-lived token in its query
		r.Get("/realtime/stream", realtimeHandler.Stream)

		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/punch", attendanceHandler.Punch)
				r.Post("/leave", attendanceHandler.RequestLeave)
				r.Post("/status", attendanceHandler.SetStatus)
				r.Get("/me", attendanceHandler.GetMyAttendance)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/employees/{employeeID}", attendanceHandler.GetEmployeeAttendance)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Get("/", attendanceHandler.List)
					r.Get("/export", attendanceHandler.Export)
					r.Post("/manual", attendanceHandler.ManualCorrect)
				})
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(employee.RoleAdmin))
				r.Get("/overview", overviewHandler.Get)
			})

			r.Get("/realtime/token", realtimeHandler.GetSSEToken)
			r.Post("/realtime/sync-dashboard", realtimeHandler.SyncDashboard)
		})
	})

	return r
}
