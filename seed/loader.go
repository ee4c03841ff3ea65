package seed

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/marcelsud/bookshelf/book"
	"gopkg.in/yaml.v3"
)

/* Loader reads book fixtures from a seed YAML file
 * Entries keep the order in which they appear in the file
 */

// Config represents the structure of the seed file
type Config struct {
	Books []BookConfig `yaml:"books"`
}

// BookConfig represents a single book in the YAML file
type BookConfig struct {
	Title  string `yaml:"title"`
	Author string `yaml:"author"`
}

// Loader holds the loaded entries
type Loader struct {
	entries []*Entry
}

// NewLoader creates a new seed loader
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and parses the seed file
func (l *Loader) Load(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading seed file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("parsing seed YAML: %w", err)
	}

	entries := make([]*Entry, 0, len(config.Books))
	for i, bc := range config.Books {
		entry := &Entry{
			Title:  strings.TrimSpace(bc.Title),
			Author: strings.TrimSpace(bc.Author),
		}
		if err := entry.Validate(); err != nil {
			return fmt.Errorf("validating book #%d: %w", i+1, err)
		}
		entries = append(entries, entry)
	}
	l.entries = entries

	return nil
}

// List returns all loaded entries
func (l *Loader) List() []*Entry {
	return l.entries
}

// Apply creates every loaded entry through the use case and returns the stored books
func (l *Loader) Apply(ctx context.Context, service book.UseCase) ([]book.Book, error) {
	created := make([]book.Book, 0, len(l.entries))
	for _, e := range l.entries {
		b, err := service.Create(ctx, e.Title, e.Author)
		if err != nil {
			return created, fmt.Errorf("seeding %q: %w", e.Title, err)
		}
		created = append(created, b)
	}
	return created, nil
}
