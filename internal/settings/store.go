package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jarutosurano/wordcounter/internal/storage"
)

// Backend is the key/value persistence the Store reads and writes.
// GetOption returns an error wrapping storage.ErrNotFound for absent keys;
// DeleteOption of an absent key succeeds.
type Backend interface {
	GetOption(ctx context.Context, name string) (string, error)
	SetOption(ctx context.Context, name, value string) error
	DeleteOption(ctx context.Context, name string) error
}

// adder is implemented by backends that can insert without overwriting.
type adder interface {
	AddOption(ctx context.Context, name, value string) (bool, error)
}

// Store reads and writes settings through a Backend, applying the schema's
// defaults and validation.
type Store struct {
	backend Backend
}

// NewStore creates a Store over the given backend.
func NewStore(b Backend) *Store {
	return &Store{backend: b}
}

// Get returns the stored value for name (a field name or option key), or
// the field's default when nothing is stored.
func (s *Store) Get(ctx context.Context, name string) (string, error) {
	f, ok := Lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownOption, name)
	}
	return s.get(ctx, f)
}

func (s *Store) get(ctx context.Context, f Field) (string, error) {
	v, err := s.backend.GetOption(ctx, f.Option)
	if errors.Is(err, storage.ErrNotFound) {
		return f.Default, nil
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", f.Option, err)
	}
	return v, nil
}

// Set sanitizes value and stores it. An invalid location returns a
// *ValidationError and nothing is written.
func (s *Store) Set(ctx context.Context, name, value string) error {
	f, ok := Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownOption, name)
	}
	return s.set(ctx, f, value)
}

func (s *Store) set(ctx context.Context, f Field, value string) error {
	clean, err := f.Sanitize(value)
	if err != nil {
		slog.Warn("rejected setting", "option", f.Option, "value", value, "error", err)
		return err
	}
	if err := s.backend.SetOption(ctx, f.Option, clean); err != nil {
		return fmt.Errorf("writing %s: %w", f.Option, err)
	}
	return nil
}

// Load reads every field and decodes them into Settings.
func (s *Store) Load(ctx context.Context) (Settings, error) {
	values := make(map[string]string, len(Schema))
	for _, f := range Schema {
		v, err := s.get(ctx, f)
		if err != nil {
			return Settings{}, err
		}
		values[f.Option] = v
	}
	return decode(values)
}

// Apply writes a submitted set of values keyed by field name or option
// key. Keys not present are left alone. Unknown keys fail the whole
// submission before anything is written. Fields that fail validation are
// skipped and returned together as ValidationErrors; the remaining fields
// are still saved.
func (s *Store) Apply(ctx context.Context, values map[string]string) error {
	for name := range values {
		if _, ok := Lookup(name); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownOption, name)
		}
	}

	var invalid ValidationErrors
	for _, f := range Schema {
		v, ok := values[f.Option]
		if !ok {
			v, ok = values[f.Name]
		}
		if !ok {
			continue
		}

		err := s.set(ctx, f, v)
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			invalid = append(invalid, verr)
		case err != nil:
			return err
		}
	}

	if len(invalid) > 0 {
		return invalid
	}
	return nil
}

// EnsureDefaults stores the default of every field that has no stored
// value. Existing values are never overwritten.
func (s *Store) EnsureDefaults(ctx context.Context) error {
	for _, f := range Schema {
		if a, ok := s.backend.(adder); ok {
			added, err := a.AddOption(ctx, f.Option, f.Default)
			if err != nil {
				return fmt.Errorf("seeding %s: %w", f.Option, err)
			}
			if added {
				slog.Info("seeded default setting", "option", f.Option)
			}
			continue
		}

		_, err := s.backend.GetOption(ctx, f.Option)
		if err == nil {
			continue
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("reading %s: %w", f.Option, err)
		}
		if err := s.backend.SetOption(ctx, f.Option, f.Default); err != nil {
			return fmt.Errorf("seeding %s: %w", f.Option, err)
		}
		slog.Info("seeded default setting", "option", f.Option)
	}
	return nil
}

// Uninstall deletes every option the schema owns, including legacy keys.
// It keeps going after a failed delete and returns all failures joined.
// Running it twice is harmless.
func (s *Store) Uninstall(ctx context.Context) error {
	var errs []error
	for _, name := range UninstallOptions() {
		if err := s.backend.DeleteOption(ctx, name); err != nil {
			slog.Warn("failed to delete option", "option", name, "error", err)
			errs = append(errs, fmt.Errorf("deleting %s: %w", name, err))
		}
	}
	if len(errs) == 0 {
		slog.Info("removed all settings", "options", len(UninstallOptions()))
	}
	return errors.Join(errs...)
}
