package storage

import (
	"context"
	"errors"
	"testing"
)

func TestOptions_SetAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SetOption(ctx, "cwc_headline", "Stats"); err != nil {
		t.Fatalf("SetOption() error: %v", err)
	}

	got, err := store.GetOption(ctx, "cwc_headline")
	if err != nil {
		t.Fatalf("GetOption() error: %v", err)
	}
	if got != "Stats" {
		t.Errorf("got %q, want %q", got, "Stats")
	}
}

func TestOptions_SetOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SetOption(ctx, "cwc_location", "0"); err != nil {
		t.Fatalf("first SetOption() error: %v", err)
	}
	if err := store.SetOption(ctx, "cwc_location", "1"); err != nil {
		t.Fatalf("second SetOption() error: %v", err)
	}

	got, err := store.GetOption(ctx, "cwc_location")
	if err != nil {
		t.Fatalf("GetOption() error: %v", err)
	}
	if got != "1" {
		t.Errorf("got %q, want %q", got, "1")
	}
}

func TestOptions_GetNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetOption(context.Background(), "nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}

func TestOptions_EmptyValueIsStored(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SetOption(ctx, "cwc_headline", ""); err != nil {
		t.Fatalf("SetOption() error: %v", err)
	}
	got, err := store.GetOption(ctx, "cwc_headline")
	if err != nil {
		t.Fatalf("GetOption() error: %v", err)
	}
	if got != "" {
		t.Errorf("got %q, want empty string", got)
	}
}

func TestOptions_AddDoesNotOverwrite(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	added, err := store.AddOption(ctx, "cwc_wordcount", "1")
	if err != nil {
		t.Fatalf("AddOption() error: %v", err)
	}
	if !added {
		t.Error("first AddOption() reported no write")
	}

	added, err = store.AddOption(ctx, "cwc_wordcount", "0")
	if err != nil {
		t.Fatalf("second AddOption() error: %v", err)
	}
	if added {
		t.Error("second AddOption() reported a write")
	}

	got, err := store.GetOption(ctx, "cwc_wordcount")
	if err != nil {
		t.Fatalf("GetOption() error: %v", err)
	}
	if got != "1" {
		t.Errorf("got %q, want %q", got, "1")
	}
}

func TestOptions_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SetOption(ctx, "cwc_readtime", "1"); err != nil {
		t.Fatalf("SetOption() error: %v", err)
	}
	if err := store.DeleteOption(ctx, "cwc_readtime"); err != nil {
		t.Fatalf("DeleteOption() error: %v", err)
	}
	if _, err := store.GetOption(ctx, "cwc_readtime"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got: %v", err)
	}

	// Deleting again is not an error.
	if err := store.DeleteOption(ctx, "cwc_readtime"); err != nil {
		t.Errorf("second DeleteOption() error: %v", err)
	}
}

func TestAllOptions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SetOption(ctx, "b", "beta"); err != nil {
		t.Fatalf("SetOption(b) error: %v", err)
	}
	if err := store.SetOption(ctx, "a", "alpha"); err != nil {
		t.Fatalf("SetOption(a) error: %v", err)
	}

	opts, err := store.AllOptions(ctx)
	if err != nil {
		t.Fatalf("AllOptions() error: %v", err)
	}
	if len(opts) != 2 {
		t.Fatalf("got %d options, want 2", len(opts))
	}
	if opts[0].Name != "a" || opts[0].Value != "alpha" {
		t.Errorf("opts[0] = %+v, want a=alpha", opts[0])
	}
	if opts[1].Name != "b" || opts[1].Value != "beta" {
		t.Errorf("opts[1] = %+v, want b=beta", opts[1])
	}
	if opts[0].UpdatedAt.IsZero() {
		t.Error("UpdatedAt not populated")
	}
}

func TestAllOptions_Empty(t *testing.T) {
	store := newTestStore(t)

	opts, err := store.AllOptions(context.Background())
	if err != nil {
		t.Fatalf("AllOptions() error: %v", err)
	}
	if len(opts) != 0 {
		t.Errorf("got %d options, want 0", len(opts))
	}
}
