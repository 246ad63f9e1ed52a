// Package registry keeps the catalogue of enumeration tools. Tool packages
// register a factory and metadata from init(); the server builds the
// enabled ones from configuration.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"sleuth/internal/core/domain"
	"sleuth/internal/core/ports"
	"sleuth/internal/platform/logx"
)

// ToolFactory creates a launcher for one tool.
type ToolFactory func(cfg ports.ToolConfig, logger logx.Logger) (ports.StreamLauncher, error)

// ToolRegistry maps tool names to factories and metadata.
type ToolRegistry struct {
	mu        sync.RWMutex
	factories map[domain.ToolName]ToolFactory
	metadata  map[domain.ToolName]ports.ToolMetadata
	logger    logx.Logger
}

var (
	globalRegistry *ToolRegistry
	once           sync.Once
)

// Global returns the process-wide registry used by init() registration.
func Global() *ToolRegistry {
	once.Do(func() {
		globalRegistry = NewToolRegistry(logx.NewSilent())
	})
	return globalRegistry
}

// NewToolRegistry creates an empty registry.
func NewToolRegistry(logger logx.Logger) *ToolRegistry {
	return &ToolRegistry{
		factories: make(map[domain.ToolName]ToolFactory),
		metadata:  make(map[domain.ToolName]ports.ToolMetadata),
		logger:    logger.With("component", "tool-registry"),
	}
}

// Register adds a tool. Names must be unique.
func (r *ToolRegistry) Register(name domain.ToolName, factory ToolFactory, meta ports.ToolMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil for tool %s", name)
	}
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("tool %s is already registered", name)
	}

	if meta.Name == "" {
		meta.Name = name
	}
	r.factories[name] = factory
	r.metadata[name] = meta
	r.logger.Debug("tool registered", "name", name)
	return nil
}

// Build constructs a launcher for every enabled tool in configs. Unknown
// names and factory failures are logged and skipped.
func (r *ToolRegistry) Build(configs map[string]ports.ToolConfig, logger logx.Logger) (map[domain.ToolName]ports.StreamLauncher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	names := make([]string, 0, len(configs))
	for name := range configs {
		names = append(names, name)
	}
	sort.Strings(names)

	tools := make(map[domain.ToolName]ports.StreamLauncher, len(configs))
	for _, name := range names {
		cfg := configs[name]
		if !cfg.Enabled {
			continue
		}

		tool := domain.ToolName(name)
		factory, ok := r.factories[tool]
		if !ok {
			logger.Warn("tool not registered, skipping", "tool", name)
			continue
		}

		launcher, err := factory(cfg, logger)
		if err != nil {
			logger.Warn("failed to build tool", "tool", name, "error", err.Error())
			continue
		}
		tools[tool] = launcher
		logger.Debug("tool built", "tool", name)
	}

	logger.Info("tools built", "count", len(tools), "configured", len(configs))
	return tools, nil
}

// List returns the registered tool names, sorted.
func (r *ToolRegistry) List() []domain.ToolName {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]domain.ToolName, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// GetMetadata returns the metadata of a tool.
func (r *ToolRegistry) GetMetadata(name domain.ToolName) (ports.ToolMetadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meta, ok := r.metadata[name]
	return meta, ok
}

// IsRegistered reports whether name has a factory.
func (r *ToolRegistry) IsRegistered(name domain.ToolName) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.factories[name]
	return ok
}

// Clear removes every registration (tests only).
func (r *ToolRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories = make(map[domain.ToolName]ToolFactory)
	r.metadata = make(map[domain.ToolName]ports.ToolMetadata)
}
