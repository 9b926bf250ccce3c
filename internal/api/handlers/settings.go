package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jarutosurano/wordcounter/internal/models"
	"github.com/jarutosurano/wordcounter/internal/settings"
	"github.com/jarutosurano/wordcounter/internal/storage"
)

// GetSettings handles GET /api/settings. It returns the decoded settings
// with defaults filled in.
func GetSettings(store *settings.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := store.Load(r.Context())
		if err != nil {
			slog.Error("failed to load settings", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to load settings")
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}

// UpdateSettings handles PUT /api/settings. The body is a JSON object keyed
// by field name or option key; values may be strings, booleans or numbers.
// Fields that fail validation keep their previous value and are reported
// with 422; the rest are saved.
func UpdateSettings(store *settings.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var body map[string]any
		if err := decodeJSON(w, r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		values := make(map[string]string, len(body))
		for k, v := range body {
			s, err := formValue(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("field %q: %v", k, err))
				return
			}
			values[k] = s
		}

		err := store.Apply(ctx, values)
		var invalid settings.ValidationErrors
		switch {
		case errors.Is(err, settings.ErrUnknownOption):
			writeError(w, http.StatusBadRequest, err.Error())
			return
		case errors.As(err, &invalid):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":  "Some settings were not saved",
				"fields": invalid,
			})
			return
		case err != nil:
			slog.Error("failed to save settings", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to save settings")
			return
		}

		s, err := store.Load(ctx)
		if err != nil {
			slog.Error("failed to load settings after save", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to load settings")
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}

// formValue converts a decoded JSON value to the string form the settings
// store accepts.
func formValue(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case bool:
		if t {
			return "1", nil
		}
		return "0", nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case nil:
		return "", nil
	default:
		return "", errors.New("must be a string, boolean or number")
	}
}

// DeleteSettings handles DELETE /api/settings. It removes every option the
// service owns, including legacy keys.
func DeleteSettings(store *settings.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Uninstall(r.Context()); err != nil {
			slog.Error("failed to remove settings", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to remove settings")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deleted": settings.UninstallOptions()})
	}
}

// GetSchema handles GET /api/settings/schema.
func GetSchema() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, settings.Schema)
	}
}

// GetOptions handles GET /api/options. It lists the raw stored options.
func GetOptions(opts *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := opts.AllOptions(r.Context())
		if err != nil {
			slog.Error("failed to list options", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to list options")
			return
		}
		if all == nil {
			all = []models.Option{}
		}
		writeJSON(w, http.StatusOK, all)
	}
}
