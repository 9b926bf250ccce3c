package handlers

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/jarutosurano/wordcounter/internal/settings"
)

//go:embed templates/admin.html
var templatesFS embed.FS

var adminTemplate = template.Must(template.ParseFS(templatesFS, "templates/admin.html"))

// formField is a schema field together with its current stored value.
type formField struct {
	settings.Field
	Value   string
	Checked bool
}

type adminPage struct {
	Fields  []formField
	Notices []string
	Updated bool
}

// AdminPage handles GET /admin: the settings form, one control per schema
// field.
func AdminPage(store *settings.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := adminPage{Updated: r.URL.Query().Get("updated") == "1"}
		renderAdmin(r.Context(), w, store, http.StatusOK, page)
	}
}

// SubmitAdmin handles POST /admin. Every schema field is submitted; an
// unchecked checkbox is absent from the form and is saved as off. Invalid
// fields keep their stored value and are shown as error notices.
func SubmitAdmin(store *settings.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		values := make(map[string]string, len(settings.Schema))
		for _, f := range settings.Schema {
			if _, ok := r.PostForm[f.Option]; ok || f.Kind == settings.KindBool {
				values[f.Option] = r.PostForm.Get(f.Option)
			}
		}

		err := store.Apply(r.Context(), values)
		var invalid settings.ValidationErrors
		switch {
		case errors.As(err, &invalid):
			page := adminPage{}
			for _, e := range invalid {
				page.Notices = append(page.Notices, e.Message)
			}
			renderAdmin(r.Context(), w, store, http.StatusUnprocessableEntity, page)
			return
		case err != nil:
			slog.Error("failed to save settings form", "error", err)
			http.Error(w, "Failed to save settings", http.StatusInternalServerError)
			return
		}

		slog.Info("settings saved from admin form")
		http.Redirect(w, r, "/admin?updated=1", http.StatusSeeOther)
	}
}

// renderAdmin fills page with the stored values and writes the form.
func renderAdmin(ctx context.Context, w http.ResponseWriter, store *settings.Store, status int, page adminPage) {
	for _, f := range settings.Schema {
		v, err := store.Get(ctx, f.Option)
		if err != nil {
			slog.Error("failed to read setting", "option", f.Option, "error", err)
			http.Error(w, "Failed to load settings", http.StatusInternalServerError)
			return
		}
		page.Fields = append(page.Fields, formField{
			Field:   f,
			Value:   v,
			Checked: v == "1",
		})
	}

	var buf bytes.Buffer
	if err := adminTemplate.Execute(&buf, page); err != nil {
		slog.Error("failed to render admin page", "error", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
