// Package fixtures loads the read-only editorial documents (authors, issues,
// quotes and themes) that ship with the binary. A directory on disk can
// replace the embedded set; there is no way to change them at runtime.
package fixtures

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"slices"

	"folio/internal/models"
)

//go:embed data/*.json
var embedded embed.FS

// Fixture document names.
const (
	AuthorsFile = "authors.json"
	IssuesFile  = "issues.json"
	QuotesFile  = "quotes.json"
	ThemesFile  = "themes.json"
)

// Store holds parsed fixture documents. Accessors return copies, so callers
// may modify what they receive.
type Store struct {
	authors []models.Author
	issues  []models.Issue
	quotes  []models.Quote
	themes  []models.Theme
}

// Default loads the fixtures embedded in the binary.
func Default() (*Store, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, fmt.Errorf("embedded fixtures: %w", err)
	}
	return Load(sub)
}

// FromDir loads fixtures from a directory on disk.
func FromDir(dir string) (*Store, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("fixtures dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("fixtures dir: %s is not a directory", dir)
	}
	return Load(os.DirFS(dir))
}

// Load parses the fixture documents found at the root of fsys. A missing
// document yields an empty collection; malformed JSON or duplicate keys are
// errors.
func Load(fsys fs.FS) (*Store, error) {
	s := &Store{}
	if err := decode(fsys, AuthorsFile, &s.authors); err != nil {
		return nil, err
	}
	if err := decode(fsys, IssuesFile, &s.issues); err != nil {
		return nil, err
	}
	if err := decode(fsys, QuotesFile, &s.quotes); err != nil {
		return nil, err
	}
	if err := decode(fsys, ThemesFile, &s.themes); err != nil {
		return nil, err
	}

	if err := unique(AuthorsFile, s.authors, func(a models.Author) string { return a.Slug }); err != nil {
		return nil, err
	}
	if err := unique(IssuesFile, s.issues, func(i models.Issue) string { return fmt.Sprint(i.Number) }); err != nil {
		return nil, err
	}
	if err := unique(ThemesFile, s.themes, func(t models.Theme) string { return t.Slug }); err != nil {
		return nil, err
	}
	return s, nil
}

func decode(fsys fs.FS, name string, dst any) error {
	data, err := fs.ReadFile(fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func unique[T any](file string, items []T, key func(T) string) error {
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		k := key(it)
		if k == "" {
			return fmt.Errorf("%s: entry without a key", file)
		}
		if seen[k] {
			return fmt.Errorf("%s: duplicate key %q", file, k)
		}
		seen[k] = true
	}
	return nil
}

// Authors returns every author, active or not.
func (s *Store) Authors() []models.Author {
	out := slices.Clone(s.authors)
	for i := range out {
		out[i].Socials = maps.Clone(out[i].Socials)
	}
	return out
}

// Issues returns every issue, active or not.
func (s *Store) Issues() []models.Issue {
	return slices.Clone(s.issues)
}

// Quotes returns every quote, active or not.
func (s *Store) Quotes() []models.Quote {
	return slices.Clone(s.quotes)
}

// Themes returns every theme, active or not.
func (s *Store) Themes() []models.Theme {
	out := slices.Clone(s.themes)
	for i := range out {
		out[i].Gradients = slices.Clone(out[i].Gradients)
	}
	return out
}
