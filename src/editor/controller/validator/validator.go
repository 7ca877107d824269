// Package validator implements the local syntax check run on every content change.
package validator

import (
	"encoding/json"
	"errors"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/uber/arena-editor/src/editor/entity"
	"go.uber.org/fx"
	"gopkg.in/yaml.v3"
)

const _parseFailure = "Failed to parse document"

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// yaml.v3 reports locations as "yaml: line N: ..." and, for type errors, "line N: ...".
var _yamlLine = regexp.MustCompile(`^(?:yaml: )?line (\d+): `)

// Validator checks documents for syntax errors.
type Validator interface {
	// Validate never fails: parser errors and panics become an invalid result.
	Validate(content string, fileType entity.FileType) entity.ValidationResult
}

type validator struct{}

// New creates a Validator.
func New() Validator {
	return validator{}
}

func (v validator) Validate(content string, fileType entity.FileType) (result entity.ValidationResult) {
	if !fileType.IsStructured() || strings.TrimSpace(content) == "" {
		return entity.ValidationResult{Valid: true}
	}

	defer func() {
		if r := recover(); r != nil {
			result = entity.ValidationResult{Valid: false, Error: _parseFailure}
		}
	}()

	switch fileType {
	case entity.FileTypeJSON:
		return validateJSON(content)
	default:
		return validateYAML(content)
	}
}

func validateYAML(content string) entity.ValidationResult {
	dec := yaml.NewDecoder(strings.NewReader(content))
	for {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			return entity.ValidationResult{Valid: true}
		}
		if err != nil {
			return yamlFailure(err)
		}
	}
}

func yamlFailure(err error) entity.ValidationResult {
	msg := err.Error()
	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) && len(typeErr.Errors) > 0 {
		msg = typeErr.Errors[0]
	}

	result := entity.ValidationResult{Valid: false, Error: msg}
	if m := _yamlLine.FindStringSubmatch(msg); m != nil {
		if line, convErr := strconv.Atoi(m[1]); convErr == nil {
			result.Line = line
			result.Error = strings.TrimPrefix(msg, m[0])
		}
	}
	if strings.TrimSpace(result.Error) == "" {
		result.Error = _parseFailure
	}
	return result
}

func validateJSON(content string) entity.ValidationResult {
	var v interface{}
	err := json.Unmarshal([]byte(content), &v)
	if err == nil {
		return entity.ValidationResult{Valid: true}
	}

	result := entity.ValidationResult{Valid: false, Error: err.Error()}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		result.Line = lineAt(content, syntaxErr.Offset)
	}
	return result
}

// lineAt returns the 1-based line of the last byte the decoder consumed before failing at offset.
func lineAt(content string, offset int64) int {
	if offset > int64(len(content)) {
		offset = int64(len(content))
	}
	if offset > 0 {
		offset--
	}
	return strings.Count(content[:offset], "\n") + 1
}
