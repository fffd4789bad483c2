// Package clientconfig serves editor-side configuration discovered on disk.
package clientconfig

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pkt.systems/docshell/internal/logx"
)

// LintConfigFileName is the linting configuration looked up in each search path.
const LintConfigFileName = ".bpmnlintrc"

// ErrNoLintConfig indicates no search path holds a linting configuration.
var ErrNoLintConfig = errors.New("no linting config found")

// Rule levels.
const (
	LevelOff   = "off"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Rule is a compiled linting rule.
type Rule struct {
	Level   string          `json:"level"`
	Options json.RawMessage `json:"options,omitempty"`
}

// LintConfig is a compiled linting configuration.
type LintConfig struct {
	Source  string          `json:"source"`
	Extends []string        `json:"extends"`
	Rules   map[string]Rule `json:"rules"`
}

// LintingProvider locates linting configurations in a set of search paths.
type LintingProvider struct {
	paths []string
}

// NewLintingProvider constructs a provider over paths, searched in order.
func NewLintingProvider(paths []string) *LintingProvider {
	return &LintingProvider{paths: append([]string(nil), paths...)}
}

// Find returns every linting configuration found, in search path order.
func (p *LintingProvider) Find(ctx context.Context) []string {
	log := logx.Ctx(ctx)
	var found []string
	for _, dir := range p.paths {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		matches, err := filepath.Glob(filepath.Join(dir, LintConfigFileName))
		if err != nil {
			log.Error("clientconfig glob failed", "path", dir, "err", err)
			continue
		}
		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			if abs, err := filepath.Abs(match); err == nil {
				match = abs
			}
			found = append(found, match)
		}
	}
	return found
}

// Get compiles the first linting configuration found.
func (p *LintingProvider) Get(ctx context.Context) (LintConfig, error) {
	files := p.Find(ctx)
	if len(files) == 0 {
		return LintConfig{}, ErrNoLintConfig
	}
	data, err := os.ReadFile(files[0])
	if err != nil {
		return LintConfig{}, err
	}
	cfg, err := Compile(data)
	if err != nil {
		return LintConfig{}, fmt.Errorf("%s: %w", files[0], err)
	}
	cfg.Source = files[0]
	logx.Ctx(ctx).Debug("clientconfig lint config loaded", "path", cfg.Source, "rules", len(cfg.Rules))
	return cfg, nil
}

type rawLintConfig struct {
	Extends json.RawMessage            `json:"extends"`
	Rules   map[string]json.RawMessage `json:"rules"`
}

// Compile parses a linting configuration. extends may be a string or a list; rule
// values may be a level name, a numeric level (0 off, 1 warn, 2 error), or
// a [level, options] pair.
func Compile(data []byte) (LintConfig, error) {
	var raw rawLintConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return LintConfig{}, fmt.Errorf("parse lint config: %w", err)
	}
	cfg := LintConfig{Rules: make(map[string]Rule, len(raw.Rules))}
	extends, err := parseExtends(raw.Extends)
	if err != nil {
		return LintConfig{}, err
	}
	cfg.Extends = extends
	for name, value := range raw.Rules {
		rule, err := parseRule(value)
		if err != nil {
			return LintConfig{}, fmt.Errorf("rule %q: %w", name, err)
		}
		cfg.Rules[name] = rule
	}
	return cfg, nil
}

func parseExtends(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("extends must be a string or a list of strings")
	}
	return list, nil
}

func parseRule(raw json.RawMessage) (Rule, error) {
	var pair []json.RawMessage
	if err := json.Unmarshal(raw, &pair); err == nil {
		if len(pair) == 0 || len(pair) > 2 {
			return Rule{}, fmt.Errorf("expected [level] or [level, options]")
		}
		level, err := parseLevel(pair[0])
		if err != nil {
			return Rule{}, err
		}
		rule := Rule{Level: level}
		if len(pair) == 2 {
			rule.Options = pair[1]
		}
		return rule, nil
	}
	level, err := parseLevel(raw)
	if err != nil {
		return Rule{}, err
	}
	return Rule{Level: level}, nil
}

func parseLevel(raw json.RawMessage) (string, error) {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case LevelOff:
			return LevelOff, nil
		case LevelWarn, "warning":
			return LevelWarn, nil
		case LevelError:
			return LevelError, nil
		}
		return "", fmt.Errorf("unknown level %q", name)
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("level must be a name or 0-2")
	}
	switch n {
	case 0:
		return LevelOff, nil
	case 1:
		return LevelWarn, nil
	case 2:
		return LevelError, nil
	}
	return "", fmt.Errorf("unknown level %d", n)
}
