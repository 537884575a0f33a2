package project

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"mend/internal/diag"
)

// Config mirrors mend.toml / mend.yaml.
type Config struct {
	Project ProjectSection `toml:"project" yaml:"project"`
	Rules   RulesSection   `toml:"rules" yaml:"rules"`
	Fix     FixSection     `toml:"fix" yaml:"fix"`
	Cache   CacheSection   `toml:"cache" yaml:"cache"`
}

type ProjectSection struct {
	Name    string   `toml:"name" yaml:"name"`
	Exclude []string `toml:"exclude" yaml:"exclude"` // glob по относительному пути
}

type RulesSection struct {
	Disable  []string          `toml:"disable" yaml:"disable"`
	Severity map[string]string `toml:"severity" yaml:"severity"`
}

type FixSection struct {
	Mode string `toml:"mode" yaml:"mode"` // all | once
	Jobs int    `toml:"jobs" yaml:"jobs"`
}

type CacheSection struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Dir     string `toml:"dir" yaml:"dir"`
}

// Manifest is a located and validated config file.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Default is used when no config file exists.
func Default() Config {
	return Config{Fix: FixSection{Mode: "all"}}
}

// LoadConfig decodes path by extension and validates it.
func LoadConfig(path string) (Config, error) {
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		meta, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return Config{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
		}
		if meta.IsDefined("project") && !meta.IsDefined("project", "name") {
			return Config{}, fmt.Errorf("%s: missing [project].name", path)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("%s: unsupported config format", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks rule names, severities and fix settings.
func (c Config) Validate() error {
	for _, r := range c.Rules.Disable {
		if _, ok := diag.ParseCode(r); !ok {
			return fmt.Errorf("[rules].disable: unknown rule %q", r)
		}
	}
	for r, sev := range c.Rules.Severity {
		if _, ok := diag.ParseCode(r); !ok {
			return fmt.Errorf("[rules.severity]: unknown rule %q", r)
		}
		if _, err := diag.ParseSeverity(sev); err != nil {
			return fmt.Errorf("[rules.severity].%s: %w", r, err)
		}
	}
	switch c.Fix.Mode {
	case "", "all", "once":
	default:
		return fmt.Errorf("[fix].mode must be \"all\" or \"once\", got %q", c.Fix.Mode)
	}
	if c.Fix.Jobs < 0 {
		return fmt.Errorf("[fix].jobs must be >= 0, got %d", c.Fix.Jobs)
	}
	for _, pat := range c.Project.Exclude {
		if _, err := filepath.Match(pat, ""); err != nil {
			return fmt.Errorf("[project].exclude: bad pattern %q: %w", pat, err)
		}
	}
	return nil
}

// RuleSet is the resolved form of [rules].
type RuleSet struct {
	Disabled map[diag.Code]bool
	Severity map[diag.Code]diag.Severity
}

// RuleSet resolves names; Validate must have passed.
func (c Config) RuleSet() RuleSet {
	rs := RuleSet{
		Disabled: make(map[diag.Code]bool, len(c.Rules.Disable)),
		Severity: make(map[diag.Code]diag.Severity, len(c.Rules.Severity)),
	}
	for _, r := range c.Rules.Disable {
		if code, ok := diag.ParseCode(r); ok {
			rs.Disabled[code] = true
		}
	}
	for r, s := range c.Rules.Severity {
		code, ok := diag.ParseCode(r)
		sev, err := diag.ParseSeverity(s)
		if ok && err == nil {
			rs.Severity[code] = sev
		}
	}
	return rs
}

// Enabled reports whether diagnostics with code should be produced.
func (rs RuleSet) Enabled(code diag.Code) bool {
	return !rs.Disabled[code]
}

// Apply disables or re-ranks d according to the rule set.
func (rs RuleSet) Apply(d diag.Diagnostic) (diag.Diagnostic, bool) {
	if rs.Disabled[d.Code] {
		return d, false
	}
	if sev, ok := rs.Severity[d.Code]; ok {
		d = d.WithSeverity(sev)
	}
	return d, true
}

// Excluded reports whether rel (slash separated) matches [project].exclude.
func (c Config) Excluded(rel string) bool {
	rel = filepath.ToSlash(rel)
	return slices.ContainsFunc(c.Project.Exclude, func(pat string) bool {
		if ok, _ := filepath.Match(pat, rel); ok {
			return true
		}
		ok, _ := filepath.Match(pat, filepath.Base(rel))
		return ok
	})
}
