package httpapi

import (
	"net/http"

	"github.com/riskibarqy/game-tracker/internal/platform/logging"
)

type RouterOptions struct {
	SwaggerEnabled     bool
	CORSAllowedOrigins []string
	// Metrics serves /metrics when set.
	Metrics        http.Handler
	RequestMetrics RequestRecorder
}

func NewRouter(handler *Handler, verifier TokenVerifier, logger *logging.Logger, opts RouterOptions) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	routes := &routeRegistrar{
		mux:      http.NewServeMux(),
		recorder: opts.RequestMetrics,
		verifier: verifier,
	}
	registerSystemRoutes(routes, handler, opts)
	registerGameQueryRoutes(routes, handler)
	registerGameMutationRoutes(routes, handler)
	registerViewerRoutes(routes, handler)

	return RequestTracing(RequestLogging(logger, CORS(opts.CORSAllowedOrigins, recoverPanic(logger, routes.mux))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "path", r.URL.Path)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
