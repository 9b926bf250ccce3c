package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jarutosurano/wordcounter/internal/models"
	"github.com/jarutosurano/wordcounter/internal/settings"
)

func TestGetSettings_Defaults(t *testing.T) {
	deps := newTestDeps(t)

	r := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
	w := httptest.NewRecorder()
	GetSettings(deps.settings).ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
	}

	var got settings.Settings
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if got != settings.Defaults() {
		t.Errorf("got %+v, want defaults %+v", got, settings.Defaults())
	}
}

func TestUpdateSettings(t *testing.T) {
	deps := newTestDeps(t)

	body := `{"location":"end","headline":"  Reading <i>Info</i> ","show_char_count":true,"cwc_wordcount":false}`
	r := httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader(body))
	w := httptest.NewRecorder()
	UpdateSettings(deps.settings).ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var got settings.Settings
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	want := settings.Settings{
		Location:      settings.End,
		Headline:      "Reading Info",
		ShowWordCount: false,
		ShowCharCount: true,
		ShowReadTime:  true,
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestUpdateSettings_RoundTripsGetOutput(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()

	if err := deps.settings.Set(ctx, "location", "end"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	get := httptest.NewRecorder()
	GetSettings(deps.settings).ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/api/settings", nil))

	put := httptest.NewRecorder()
	UpdateSettings(deps.settings).ServeHTTP(put, httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader(get.Body.String())))
	if put.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d: %s", put.Code, http.StatusOK, put.Body.String())
	}
}

func TestUpdateSettings_InvalidLocation(t *testing.T) {
	deps := newTestDeps(t)

	body := `{"location":"2","headline":"Saved anyway"}`
	r := httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader(body))
	w := httptest.NewRecorder()
	UpdateSettings(deps.settings).ServeHTTP(w, r)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}

	var resp struct {
		Error  string                     `json:"error"`
		Fields []settings.ValidationError `json:"fields"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Fields) != 1 || resp.Fields[0].Field != "location" {
		t.Fatalf("fields = %+v, want one location error", resp.Fields)
	}
	if resp.Fields[0].Message != "Display location must be either beginning or end." {
		t.Errorf("message = %q", resp.Fields[0].Message)
	}

	s, err := deps.settings.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.Location != settings.Begin {
		t.Errorf("Location = %v, want begin", s.Location)
	}
	if s.Headline != "Saved anyway" {
		t.Errorf("Headline = %q, want %q", s.Headline, "Saved anyway")
	}
}

func TestUpdateSettings_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"location":`},
		{name: "unknown option", body: `{"colour":"red"}`},
		{name: "nested value", body: `{"headline":{"a":1}}`},
		{name: "not an object", body: `["location"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := newTestDeps(t)

			r := httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			UpdateSettings(deps.settings).ServeHTTP(w, r)

			if w.Code != http.StatusBadRequest {
				t.Errorf("got status %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestDeleteSettings(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()

	if err := deps.settings.EnsureDefaults(ctx); err != nil {
		t.Fatalf("EnsureDefaults() error: %v", err)
	}
	if err := deps.opts.SetOption(ctx, "wc_headline_text", "old"); err != nil {
		t.Fatalf("SetOption() error: %v", err)
	}

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		DeleteSettings(deps.settings).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/settings", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("run %d: got status %d, want %d", i, w.Code, http.StatusOK)
		}
	}

	all, err := deps.opts.AllOptions(ctx)
	if err != nil {
		t.Fatalf("AllOptions() error: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("got %d options after delete, want 0", len(all))
	}
}

func TestGetSchema(t *testing.T) {
	w := httptest.NewRecorder()
	GetSchema().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/settings/schema", nil))

	var fields []map[string]any
	if err := json.NewDecoder(w.Body).Decode(&fields); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(fields) != len(settings.Schema) {
		t.Fatalf("got %d fields, want %d", len(fields), len(settings.Schema))
	}
	if fields[0]["option"] != settings.OptionLocation {
		t.Errorf("first field option = %v, want %q", fields[0]["option"], settings.OptionLocation)
	}
}

func TestGetOptions(t *testing.T) {
	deps := newTestDeps(t)

	w := httptest.NewRecorder()
	GetOptions(deps.opts).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/options", nil))
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("empty store body = %q, want []", w.Body.String())
	}

	if err := deps.settings.Set(context.Background(), "headline", "Hi"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	w = httptest.NewRecorder()
	GetOptions(deps.opts).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/options", nil))

	var opts []models.Option
	if err := json.NewDecoder(w.Body).Decode(&opts); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(opts) != 1 || opts[0].Name != settings.OptionHeadline || opts[0].Value != "Hi" {
		t.Errorf("got %+v, want one cwc_headline=Hi", opts)
	}
}

func TestFormValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{in: "end", want: "end"},
		{in: true, want: "1"},
		{in: false, want: "0"},
		{in: float64(1), want: "1"},
		{in: nil, want: ""},
	}
	for _, tt := range tests {
		got, err := formValue(tt.in)
		if err != nil {
			t.Fatalf("formValue(%v) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("formValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if _, err := formValue([]any{}); err == nil {
		t.Error("formValue(array) succeeded, want error")
	}
}
