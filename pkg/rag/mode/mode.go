package mode

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Mode names form a closed set; unknown modes are rejected.
const (
	Pure     = "pure"
	Creative = "creative"
	Hybrid   = "hybrid"
)

// InvalidConfigurationError reports a RAG-percentage or mode-config violation.
// It is a caller error: the value is rejected, never clamped.
type InvalidConfigurationError struct {
	Mode   string
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid RAG configuration for mode %q: %s", e.Mode, e.Reason)
}

// Config parameterizes the ranking controller for one RAG mode.
type Config struct {
	Name                   string  `json:"name"`
	Description            string  `json:"description"`
	DefaultRAGPercentage   int     `json:"default_rag_percentage"`
	MinRAGPercentage       int     `json:"min_rag_percentage"`
	MaxRAGPercentage       int     `json:"max_rag_percentage"`
	DefaultCreativityLevel float64 `json:"default_creativity_level"`
	EnableVisualization    bool    `json:"enable_visualization"`
	MaxContextChunks       int     `json:"max_context_chunks"`
}

func (c Config) validate() error {
	if c.MinRAGPercentage < 0 || c.MaxRAGPercentage > 100 {
		return &InvalidConfigurationError{Mode: c.Name, Reason: "percentages must lie in [0, 100]"}
	}
	if c.MinRAGPercentage > c.MaxRAGPercentage {
		return &InvalidConfigurationError{Mode: c.Name,
			Reason: fmt.Sprintf("min %d exceeds max %d", c.MinRAGPercentage, c.MaxRAGPercentage)}
	}
	if c.DefaultRAGPercentage < c.MinRAGPercentage || c.DefaultRAGPercentage > c.MaxRAGPercentage {
		return &InvalidConfigurationError{Mode: c.Name,
			Reason: fmt.Sprintf("default %d outside [%d, %d]",
				c.DefaultRAGPercentage, c.MinRAGPercentage, c.MaxRAGPercentage)}
	}
	if c.MaxContextChunks <= 0 {
		return &InvalidConfigurationError{Mode: c.Name, Reason: "max_context_chunks must be positive"}
	}
	return nil
}

// Defaults returns the built-in mode set.
func Defaults() map[string]Config {
	return map[string]Config{
		Pure: {
			Name:                 Pure,
			Description:          "100% retrieval-based responses using only vector search results",
			DefaultRAGPercentage: 100,
			MinRAGPercentage:     90,
			MaxRAGPercentage:     100,
			MaxContextChunks:     5,
		},
		Creative: {
			Name:                   Creative,
			Description:            "Balanced approach combining retrieved data with creative insights",
			DefaultRAGPercentage:   60,
			MinRAGPercentage:       30,
			MaxRAGPercentage:       80,
			DefaultCreativityLevel: 0.7,
			EnableVisualization:    true,
			MaxContextChunks:       5,
		},
		Hybrid: {
			Name:                   Hybrid,
			Description:            "Fully customizable mode with caller-defined RAG/LLM balance",
			DefaultRAGPercentage:   70,
			MinRAGPercentage:       10,
			MaxRAGPercentage:       100,
			DefaultCreativityLevel: 0.5,
			EnableVisualization:    true,
			MaxContextChunks:       7,
		},
	}
}

// Manager holds the per-tenant mode configurations. Lookups may run
// concurrently with the administrative Update, which revalidates invariants
// before swapping the entry in.
type Manager struct {
	mu    sync.RWMutex
	modes map[string]Config
}

// NewManager creates a manager seeded with the default mode set.
func NewManager() *Manager {
	return &Manager{modes: Defaults()}
}

// NewManagerFromFile loads mode overrides from a JSON file ({"modes": {...}})
// on top of the defaults. Every loaded mode is validated.
func NewManagerFromFile(path string) (*Manager, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mode config: %w", err)
	}

	var file struct {
		Modes map[string]Config `json:"modes"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse mode config: %w", err)
	}

	m := NewManager()
	for name, cfg := range file.Modes {
		if _, ok := m.modes[name]; !ok {
			return nil, &InvalidConfigurationError{Mode: name, Reason: "unknown mode"}
		}
		cfg.Name = name
		if err := cfg.validate(); err != nil {
			return nil, err
		}
		m.modes[name] = cfg
	}
	return m, nil
}

// Get returns the configuration for a mode.
func (m *Manager) Get(name string) (Config, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cfg, ok := m.modes[name]
	if !ok {
		return Config{}, &InvalidConfigurationError{Mode: name, Reason: "unknown mode"}
	}
	return cfg, nil
}

// List returns every configured mode, keyed by name.
func (m *Manager) List() map[string]Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]Config, len(m.modes))
	for name, cfg := range m.modes {
		out[name] = cfg
	}
	return out
}

// Update is the administrative mutation: any nil field keeps its current
// value, and the resulting config must still satisfy min <= default <= max.
type Update struct {
	DefaultRAGPercentage *int
	MinRAGPercentage     *int
	MaxRAGPercentage     *int
	MaxContextChunks     *int
	Description          *string
}

// Update applies an administrative change to a mode, revalidating the
// invariants before accepting it. On violation the stored config is left
// untouched and an InvalidConfigurationError is returned.
func (m *Manager) Update(name string, update Update) (Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfg, ok := m.modes[name]
	if !ok {
		return Config{}, &InvalidConfigurationError{Mode: name, Reason: "unknown mode"}
	}

	next := cfg
	if update.DefaultRAGPercentage != nil {
		next.DefaultRAGPercentage = *update.DefaultRAGPercentage
	}
	if update.MinRAGPercentage != nil {
		next.MinRAGPercentage = *update.MinRAGPercentage
	}
	if update.MaxRAGPercentage != nil {
		next.MaxRAGPercentage = *update.MaxRAGPercentage
	}
	if update.MaxContextChunks != nil {
		next.MaxContextChunks = *update.MaxContextChunks
	}
	if update.Description != nil {
		next.Description = *update.Description
	}

	if err := next.validate(); err != nil {
		return Config{}, err
	}

	m.modes[name] = next
	return next, nil
}
