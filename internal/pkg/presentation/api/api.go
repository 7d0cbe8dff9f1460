package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/trello-client/internal/pkg/application/stub"
	"github.com/diwise/trello-client/internal/pkg/presentation/api/auth"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"
)

func RegisterHandlers(ctx context.Context, r chi.Router, policies io.Reader, app stub.App) error {

	authenticator, err := auth.NewAuthenticator(ctx, policies)
	if err != nil {
		return fmt.Errorf("failed to create api authenticator: %w", err)
	}

	r.Route("/1", func(r chi.Router) {
		r.Use(
			Logger(logging.GetFromContext(ctx)),
			RequiredContentTypes([]string{"application/json"}),
			Authorize(authenticator),
		)

		r.Route("/{collection}", func(r chi.Router) {
			r.Post("/", NewCreateObjectHandler(app))

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", NewRetrieveObjectHandler(app))
				r.Put("/", NewUpdateObjectHandler(app))
				r.Delete("/", NewDeleteObjectHandler(app))

				r.Get("/{related}", NewListRelatedObjectsHandler(app))
			})
		})
	})

	return nil
}

func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			_, ctx, _ = o11y.AddTraceIDToLoggerAndStoreInContext(
				trace.SpanFromContext(ctx),
				logger,
				ctx)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequiredContentTypes(validTypes []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			contentType := r.Header.Get("Content-Type")
			isValidContentType := true

			if len(contentType) > 0 {
				isValidContentType = false

				for _, t := range validTypes {
					if strings.HasPrefix(contentType, t) {
						isValidContentType = true
						break
					}
				}
			}

			if isValidContentType {
				next.ServeHTTP(w, r)
			} else {
				reportError(w, http.StatusUnsupportedMediaType, "unsupported media type")
			}
		})
	}
}

// Authorize rejects requests that the policy does not allow with 401.
func Authorize(authenticator auth.Enticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			err := authenticator.CheckAccess(ctx, r)
			if err != nil {
				logging.GetFromContext(ctx).Warn("access not granted", "err", err.Error())
				reportError(w, http.StatusUnauthorized, "invalid key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
