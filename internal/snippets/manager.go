package snippets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rebelice/sqlfold/internal/models"
	"gopkg.in/yaml.v3"
)

// Manager manages saved query snippets
type Manager struct {
	path     string
	snippets []models.Snippet
}

// NewManager creates a snippet manager backed by snippets.yaml in the
// given config directory, loading existing snippets if the file exists
func NewManager(configDir string) (*Manager, error) {
	m := &Manager{
		path:     filepath.Join(configDir, "snippets.yaml"),
		snippets: []models.Snippet{},
	}

	if _, err := os.Stat(m.path); err == nil {
		if err := m.Load(); err != nil {
			return nil, fmt.Errorf("failed to load snippets: %w", err)
		}
	}

	return m, nil
}

// Load loads snippets from the YAML file
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("failed to read snippets file: %w", err)
	}

	if err := yaml.Unmarshal(data, &m.snippets); err != nil {
		return fmt.Errorf("failed to parse snippets: %w", err)
	}

	return nil
}

// Save saves snippets to the YAML file
func (m *Manager) Save() error {
	data, err := yaml.Marshal(m.snippets)
	if err != nil {
		return fmt.Errorf("failed to marshal snippets: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write snippets file: %w", err)
	}

	return nil
}

// Add adds a new snippet; names are unique case-insensitively
func (m *Manager) Add(name, query string) (*models.Snippet, error) {
	name = strings.TrimSpace(name)
	query = strings.TrimSpace(query)

	if name == "" {
		return nil, fmt.Errorf("snippet name cannot be empty")
	}
	if query == "" {
		return nil, fmt.Errorf("snippet query cannot be empty")
	}

	for _, s := range m.snippets {
		if strings.EqualFold(s.Name, name) {
			return nil, fmt.Errorf("a snippet named '%s' already exists", name)
		}
	}

	snippet := models.Snippet{
		ID:        uuid.New().String(),
		Name:      name,
		Query:     query,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	m.snippets = append(m.snippets, snippet)

	if err := m.Save(); err != nil {
		return nil, fmt.Errorf("failed to save snippet: %w", err)
	}

	return &snippet, nil
}

// Delete removes a snippet by id
func (m *Manager) Delete(id string) error {
	for i, s := range m.snippets {
		if s.ID == id {
			m.snippets = append(m.snippets[:i], m.snippets[i+1:]...)
			return m.Save()
		}
	}
	return fmt.Errorf("snippet not found: %s", id)
}

// Get returns a snippet by name (case-insensitive)
func (m *Manager) Get(name string) *models.Snippet {
	for i := range m.snippets {
		if strings.EqualFold(m.snippets[i].Name, name) {
			return &m.snippets[i]
		}
	}
	return nil
}

// List returns all snippets sorted by name
func (m *Manager) List() []models.Snippet {
	out := make([]models.Snippet, len(m.snippets))
	copy(out, m.snippets)
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}
