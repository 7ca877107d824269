// Package filetype classifies document paths into editor file types using glob rules.
package filetype

import (
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/uber/arena-editor/src/editor/entity"
	"go.uber.org/config"
	"go.uber.org/fx"
)

const _configKey = "editor.fileTypes"

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Rule maps a set of glob patterns to a file type. Rules are evaluated in order and the first match wins.
type Rule struct {
	Type     entity.FileType `yaml:"type"`
	Patterns []string        `yaml:"patterns"`
}

// Validate implements validation.Validatable.
func (r Rule) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Type, validation.Required, validation.By(func(v interface{}) error {
			if t, _ := v.(entity.FileType); !t.Valid() {
				return fmt.Errorf("unknown file type %q", t)
			}
			return nil
		})),
		validation.Field(&r.Patterns, validation.Required, validation.Each(validation.By(func(v interface{}) error {
			if p, _ := v.(string); !doublestar.ValidatePattern(p) {
				return fmt.Errorf("malformed pattern %q", p)
			}
			return nil
		}))),
	)
}

// DefaultRules are used when no rules are configured.
var DefaultRules = []Rule{
	{Type: entity.FileTypeArenaConfig, Patterns: []string{"**/*.arena.yaml", "**/*.arena.yml", "**/arena.yaml", "**/arena.yml"}},
	{Type: entity.FileTypeYAML, Patterns: []string{"**/*.yaml", "**/*.yml"}},
	{Type: entity.FileTypeJSON, Patterns: []string{"**/*.json"}},
	{Type: entity.FileTypeMarkdown, Patterns: []string{"**/*.md", "**/*.markdown"}},
}

// Classifier resolves the file type of a path.
type Classifier interface {
	Classify(filePath string) entity.FileType
}

type classifier struct {
	rules []Rule
}

// Params define values to be used by the Classifier.
type Params struct {
	fx.In

	Config config.Provider
}

// New creates a Classifier from configuration, falling back to DefaultRules.
func New(p Params) (Classifier, error) {
	var rules []Rule
	if err := p.Config.Get(_configKey).Populate(&rules); err != nil {
		return nil, fmt.Errorf("getting config field %q: %w", _configKey, err)
	}
	if err := validation.Validate(rules); err != nil {
		return nil, fmt.Errorf("invalid config field %q: %w", _configKey, err)
	}
	return NewClassifier(rules), nil
}

// NewClassifier creates a Classifier for the given rules, or DefaultRules when empty.
func NewClassifier(rules []Rule) Classifier {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &classifier{rules: rules}
}

func (c *classifier) Classify(filePath string) entity.FileType {
	name := strings.ToLower(strings.TrimPrefix(path.Clean("/"+filePath), "/"))
	for _, r := range c.rules {
		for _, pattern := range r.Patterns {
			if ok, _ := doublestar.Match(strings.ToLower(pattern), name); ok {
				return r.Type
			}
		}
	}
	return entity.FileTypeGeneric
}
