package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// starterCategories are inserted into an empty development database.
var starterCategories = []struct {
	name, slug, description, color, icon string
}{
	{"Essays", "essays", "Long-form arguments and reflections.", "from-amber-500 to-rose-500", "feather"},
	{"Interviews", "interviews", "Conversations with writers and makers.", "from-sky-500 to-indigo-600", "mic"},
	{"Reviews", "reviews", "Books, films and exhibitions.", "", "star"},
}

// Seed populates the database with initial development data.
// It creates the starter categories if no categories exist yet.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	for _, c := range starterCategories {
		_, err := db.Exec(`
			INSERT INTO categories (name, slug, description, color, icon)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (slug) DO NOTHING
		`, c.name, c.slug, c.description, c.color, c.icon)
		if err != nil {
			return fmt.Errorf("seed insert category %s: %w", c.slug, err)
		}
	}

	slog.Info("database seeded with starter categories", "count", len(starterCategories))
	return nil
}
