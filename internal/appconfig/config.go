package appconfig

import (
	"os"
	"path/filepath"

	"pkt.systems/docshell/schema"
)

// Config is the top-level application configuration.
type Config struct {
	ConfigVersion int             `mapstructure:"config_version" yaml:"config_version"`
	StateDir      string          `mapstructure:"state_dir" yaml:"state_dir"`
	Workspace     WorkspaceConfig `mapstructure:"workspace" yaml:"workspace"`
	Documents     DocumentsConfig `mapstructure:"documents" yaml:"documents"`
	History       HistoryConfig   `mapstructure:"history" yaml:"history"`
	Linting       LintingConfig   `mapstructure:"linting" yaml:"linting"`
	Logging       LoggingConfig   `mapstructure:"logging" yaml:"logging"`
}

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// Workspace backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// WorkspaceConfig selects where the open workspace is persisted.
type WorkspaceConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend"`
	// Path overrides the backend's default file under state_dir.
	Path string `mapstructure:"path" yaml:"path"`
}

// DocumentsConfig controls which document types the shell handles.
type DocumentsConfig struct {
	DefaultType string   `mapstructure:"default_type" yaml:"default_type"`
	Types       []string `mapstructure:"types" yaml:"types"`
}

// HistoryConfig bounds navigation and reopen state.
type HistoryConfig struct {
	MaxEntries            int  `mapstructure:"max_entries" yaml:"max_entries"`
	ClosedMax             int  `mapstructure:"closed_max" yaml:"closed_max"`
	PreserveActiveOnClose bool `mapstructure:"preserve_active_on_close" yaml:"preserve_active_on_close"`
}

// LintingConfig lists directories searched for .bpmnlintrc files.
type LintingConfig struct {
	SearchPaths []string `mapstructure:"search_paths" yaml:"search_paths"`
}

// LoggingConfig controls the default log level.
type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, err
	}
	return Config{
		ConfigVersion: CurrentConfigVersion,
		StateDir:      filepath.Join(home, ".docshell", "state"),
		Workspace: WorkspaceConfig{
			Backend: BackendJSON,
			Path:    "",
		},
		Documents: DocumentsConfig{
			DefaultType: string(schema.DocumentBPMN),
			Types:       []string{string(schema.DocumentBPMN), string(schema.DocumentDMN), string(schema.DocumentCMMN)},
		},
		History: HistoryConfig{
			MaxEntries: schema.DefaultHistoryMax,
			ClosedMax:  schema.DefaultClosedMax,
		},
		Linting: LintingConfig{
			SearchPaths: []string{"."},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}, nil
}

// DefaultConfigPath returns the standard config path.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".docshell", "config.yaml"), nil
}

// ServiceConfig maps the document and history settings onto the core service config.
func (c Config) ServiceConfig() schema.ServiceConfig {
	types := make([]schema.DocumentType, 0, len(c.Documents.Types))
	for _, t := range c.Documents.Types {
		types = append(types, schema.DocumentType(t))
	}
	return schema.ServiceConfig{
		DefaultType:           schema.DocumentType(c.Documents.DefaultType),
		SupportedTypes:        types,
		HistoryMax:            c.History.MaxEntries,
		ClosedMax:             c.History.ClosedMax,
		PreserveActiveOnClose: c.History.PreserveActiveOnClose,
	}
}

// WorkspacePath returns the workspace file for the configured backend.
func (c Config) WorkspacePath() string {
	if c.Workspace.Path != "" {
		return c.Workspace.Path
	}
	if c.Workspace.Backend == BackendSQLite {
		return filepath.Join(c.StateDir, "workspace.db")
	}
	return filepath.Join(c.StateDir, "workspace.json")
}
