package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jarutosurano/wordcounter/internal/models"
)

// GetOption returns the stored value for name, or ErrNotFound.
func (s *Store) GetOption(ctx context.Context, name string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM options WHERE name = ?`, name,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("getting option %q: %w", name, err)
	}
	return value, nil
}

// SetOption stores value under name, overwriting any previous value.
// Last write wins.
func (s *Store) SetOption(ctx context.Context, name, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO options (name, value, updated_at)
		 VALUES (?, ?, datetime('now'))
		 ON CONFLICT(name) DO UPDATE SET
			value      = excluded.value,
			updated_at = excluded.updated_at`,
		name, value,
	)
	if err != nil {
		return fmt.Errorf("setting option %q: %w", name, err)
	}
	return nil
}

// AddOption stores value under name only if name is absent. It reports
// whether a row was written.
func (s *Store) AddOption(ctx context.Context, name, value string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO options (name, value) VALUES (?, ?)
		 ON CONFLICT(name) DO NOTHING`,
		name, value,
	)
	if err != nil {
		return false, fmt.Errorf("adding option %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("adding option %q: %w", name, err)
	}
	return n > 0, nil
}

// DeleteOption removes name. Deleting an absent option is not an error.
func (s *Store) DeleteOption(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM options WHERE name = ?`, name); err != nil {
		return fmt.Errorf("deleting option %q: %w", name, err)
	}
	return nil
}

// AllOptions returns every stored option ordered by name.
func (s *Store) AllOptions(ctx context.Context) ([]models.Option, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, value, updated_at FROM options ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying options: %w", err)
	}
	defer rows.Close()

	var opts []models.Option
	for rows.Next() {
		var (
			o         models.Option
			updatedAt string
		)
		if err := rows.Scan(&o.Name, &o.Value, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning option row: %w", err)
		}
		o.UpdatedAt = parseTime(updatedAt)
		opts = append(opts, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating option rows: %w", err)
	}
	return opts, nil
}
