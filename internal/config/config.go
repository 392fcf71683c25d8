package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/finsight-dev/finsight/internal/classify"
	"github.com/finsight-dev/finsight/internal/logging"
)

// FileName is the default config file name.
const FileName = "finsight.yaml"

// Config represents the top-level finsight.yaml configuration. The
// category keyword tables live here as data so users can extend them
// without touching the classifier.
type Config struct {
	Statement      StatementConfig `yaml:"statement"`
	IncomeKeywords []string        `yaml:"income_keywords,omitempty"`
	Categories     []CategoryRule  `yaml:"categories,omitempty"`
	Logging        logging.Config  `yaml:"logging"`
}

// StatementConfig controls statement parsing.
type StatementConfig struct {
	Delimiter string `yaml:"delimiter"` // single character, default ","
}

// CategoryRule is one ordered entry of the keyword classifier.
type CategoryRule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Load reads a finsight.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config carrying the built-in keyword tables, so a
// saved config file is a complete, editable rule set.
func Default() *Config {
	rules := classify.DefaultRules()
	cats := make([]CategoryRule, len(rules))
	for i, r := range rules {
		cats[i] = CategoryRule{Name: r.Category, Keywords: r.Keywords}
	}
	return &Config{
		Statement:      StatementConfig{Delimiter: ","},
		IncomeKeywords: classify.DefaultIncomeKeywords(),
		Categories:     cats,
		Logging:        logging.Config{Level: "info", Format: "console"},
	}
}

// Delimiter returns the configured delimiter rune, defaulting to comma.
func (c *Config) Delimiter() rune {
	for _, r := range c.Statement.Delimiter {
		return r
	}
	return ','
}

// Rules converts the configured category table into classifier rules.
// An empty table means the built-in defaults.
func (c *Config) Rules() []classify.Rule {
	if len(c.Categories) == 0 {
		return classify.DefaultRules()
	}
	rules := make([]classify.Rule, len(c.Categories))
	for i, cr := range c.Categories {
		rules[i] = classify.Rule{Category: cr.Name, Keywords: cr.Keywords}
	}
	return rules
}
