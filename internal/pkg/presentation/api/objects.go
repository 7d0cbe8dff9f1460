package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/trello-client/internal/pkg/application/stub"
	"github.com/diwise/trello-client/internal/pkg/infrastructure/storage"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("trello-stub/api/objects")

func NewCreateObjectHandler(app stub.App) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "create-object")
		defer func() {
			if err != nil {
				span.RecordError(err)
			}
			span.End()
		}()

		body := map[string]any{}
		err = json.NewDecoder(r.Body).Decode(&body)
		if err != nil {
			reportError(w, http.StatusBadRequest, fmt.Sprintf("unable to decode request payload: %s", err.Error()))
			return
		}

		obj, err := app.Create(ctx, chi.URLParam(r, "collection"), body)
		if err != nil {
			reportAppError(w, r, err)
			return
		}

		writeJSON(w, r, obj)
	})
}

func NewRetrieveObjectHandler(app stub.App) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "retrieve-object")
		defer func() {
			if err != nil {
				span.RecordError(err)
			}
			span.End()
		}()

		obj, err := app.Retrieve(ctx, chi.URLParam(r, "collection"), chi.URLParam(r, "id"))
		if err != nil {
			reportAppError(w, r, err)
			return
		}

		writeJSON(w, r, selectFields(obj, r.URL.Query().Get("fields")))
	})
}

func NewUpdateObjectHandler(app stub.App) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "update-object")
		defer func() {
			if err != nil {
				span.RecordError(err)
			}
			span.End()
		}()

		body := map[string]any{}
		err = json.NewDecoder(r.Body).Decode(&body)
		if err != nil {
			reportError(w, http.StatusBadRequest, fmt.Sprintf("unable to decode request payload: %s", err.Error()))
			return
		}

		obj, err := app.Update(ctx, chi.URLParam(r, "collection"), chi.URLParam(r, "id"), body)
		if err != nil {
			reportAppError(w, r, err)
			return
		}

		writeJSON(w, r, obj)
	})
}

func NewDeleteObjectHandler(app stub.App) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "delete-object")
		defer func() {
			if err != nil {
				span.RecordError(err)
			}
			span.End()
		}()

		err = app.Delete(ctx, chi.URLParam(r, "collection"), chi.URLParam(r, "id"))
		if err != nil {
			reportAppError(w, r, err)
			return
		}

		writeJSON(w, r, map[string]any{"_value": nil})
	})
}

func NewListRelatedObjectsHandler(app stub.App) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "list-related-objects")
		defer func() {
			if err != nil {
				span.RecordError(err)
			}
			span.End()
		}()

		found, err := app.ListRelated(ctx, chi.URLParam(r, "collection"), chi.URLParam(r, "id"), chi.URLParam(r, "related"))
		if err != nil {
			reportAppError(w, r, err)
			return
		}

		fields := r.URL.Query().Get("fields")
		result := make([]storage.Object, 0, len(found))
		for _, obj := range found {
			result = append(result, selectFields(obj, fields))
		}

		writeJSON(w, r, result)
	})
}

// selectFields keeps the comma separated keys in fields, plus the id. An empty
// fields value or "all" keeps everything.
func selectFields(obj storage.Object, fields string) storage.Object {
	if fields == "" || fields == "all" {
		return obj
	}

	selected := storage.Object{"id": obj["id"]}
	for _, key := range strings.Split(fields, ",") {
		if value, ok := obj[key]; ok {
			selected[key] = value
		}
	}

	return selected
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		logging.GetFromContext(r.Context()).Error("failed to marshal response", "err", err.Error())
		reportError(w, http.StatusInternalServerError, "failed to marshal response")
		return
	}

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

func reportAppError(w http.ResponseWriter, r *http.Request, err error) {
	var brd stub.BadRequestDataError
	var nfe stub.NotFoundError

	switch {
	case errors.As(err, &brd):
		reportError(w, http.StatusBadRequest, brd.Error())
	case errors.As(err, &nfe):
		reportError(w, http.StatusNotFound, nfe.Error())
	default:
		logging.GetFromContext(r.Context()).Error("request failed", "err", err.Error())
		reportError(w, http.StatusInternalServerError, "internal server error")
	}
}

func reportError(w http.ResponseWriter, code int, message string) {
	b, _ := json.Marshal(map[string]string{
		"message": message,
		"error":   strings.ToUpper(strings.ReplaceAll(http.StatusText(code), " ", "_")),
	})

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(b)
}
