// Package catalog holds the quiz questions and the brand tables behind each answer.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"loyalty_quiz/internal/domain"
)

//go:embed questions.yaml
var defaultTables []byte

// Option is one numbered answer. Region options carry dataset region values,
// every other option carries its brand table.
type Option struct {
	Label   string   `yaml:"label" json:"label"`
	Regions []string `yaml:"regions,omitempty" json:"-"`
	Brands  []string `yaml:"brands,omitempty" json:"-"`
}

type Question struct {
	Dimension domain.Dimension `yaml:"dimension" json:"dimension"`
	Prompt    string           `yaml:"prompt" json:"prompt"`
	Options   []Option         `yaml:"options" json:"options"`
}

type Catalog struct {
	Questions []Question `yaml:"questions" json:"questions"`
}

// Default returns the embedded tables.
func Default() (*Catalog, error) {
	return Parse(defaultTables)
}

// Load reads a replacement catalog from disk.
func Load(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(b)
}

func Parse(b []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate requires exactly one non-empty question per dimension.
func (c *Catalog) Validate() error {
	seen := map[domain.Dimension]bool{}
	for _, q := range c.Questions {
		known := false
		for _, d := range domain.Dimensions {
			if q.Dimension == d {
				known = true
			}
		}
		if !known {
			return fmt.Errorf("catalog: unknown dimension %q", q.Dimension)
		}
		if seen[q.Dimension] {
			return fmt.Errorf("catalog: duplicate question for %q", q.Dimension)
		}
		seen[q.Dimension] = true
		if len(q.Options) == 0 {
			return fmt.Errorf("catalog: question %q has no options", q.Dimension)
		}
	}
	for _, d := range domain.Dimensions {
		if !seen[d] {
			return fmt.Errorf("catalog: missing question for %q", d)
		}
	}
	return nil
}

// Question returns the question asked for d.
func (c *Catalog) Question(d domain.Dimension) (Question, bool) {
	for _, q := range c.Questions {
		if q.Dimension == d {
			return q, true
		}
	}
	return Question{}, false
}

// UnknownBrands lists table brands that never occur in ds, sorted.
func (c *Catalog) UnknownBrands(ds domain.Dataset) []string {
	have := make(map[string]struct{}, len(ds))
	for _, r := range ds {
		have[r.Brand] = struct{}{}
	}
	missing := map[string]struct{}{}
	for _, q := range c.Questions {
		for _, o := range q.Options {
			for _, b := range o.Brands {
				if _, ok := have[b]; !ok {
					missing[b] = struct{}{}
				}
			}
		}
	}
	out := make([]string, 0, len(missing))
	for b := range missing {
		out = append(out, b)
	}
	sort.Strings(out)
	return out
}
