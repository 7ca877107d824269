// Package entity contains the domain types shared by the arena-editor service.
package entity

import (
	"time"

	"github.com/gofrs/uuid"
	"go.lsp.dev/jsonrpc2"
)

type keyType string

// ClientContextKey indicates the key used to carry the UI client UUID in a request context.
const ClientContextKey keyType = "ClientUUID"

// FileType classifies an open document. It drives local validation and language session eligibility.
type FileType string

const (
	// FileTypeGeneric is any file without structured validation.
	FileTypeGeneric FileType = "generic"
	// FileTypeYAML is a plain YAML document.
	FileTypeYAML FileType = "yaml"
	// FileTypeJSON is a JSON document.
	FileTypeJSON FileType = "json"
	// FileTypeMarkdown is a prose document.
	FileTypeMarkdown FileType = "markdown"
	// FileTypeArenaConfig is the structured project configuration format served by the language session.
	FileTypeArenaConfig FileType = "arena-config"
)

// Valid reports whether t is a known file type.
func (t FileType) Valid() bool {
	switch t {
	case FileTypeGeneric, FileTypeYAML, FileTypeJSON, FileTypeMarkdown, FileTypeArenaConfig:
		return true
	}
	return false
}

// IsStructured reports whether the local syntax validator parses documents of this type.
func (t FileType) IsStructured() bool {
	return t == FileTypeYAML || t == FileTypeJSON || t == FileTypeArenaConfig
}

// SupportsLanguageSession reports whether a remote language session may be opened for this type.
func (t FileType) SupportsLanguageSession() bool {
	return t == FileTypeArenaConfig
}

// LanguageID returns the language identifier announced to a language server.
func (t FileType) LanguageID() string {
	switch t {
	case FileTypeArenaConfig, FileTypeYAML:
		return "yaml"
	case FileTypeJSON:
		return "json"
	case FileTypeMarkdown:
		return "markdown"
	default:
		return "plaintext"
	}
}

// Document is one file open in the editor.
type Document struct {
	Path         string   `json:"path"`
	Name         string   `json:"name"`
	Content      string   `json:"content"`
	SavedContent string   `json:"savedContent"`
	FileType     FileType `json:"fileType"`
	Loading      bool     `json:"loading"`
}

// IsDirty reports whether the document has edits that were not persisted yet.
func (d Document) IsDirty() bool {
	return d.Content != d.SavedContent
}

// DocumentInfo is the tab view of an open document.
type DocumentInfo struct {
	Path     string   `json:"path"`
	Name     string   `json:"name"`
	FileType FileType `json:"fileType"`
	Dirty    bool     `json:"dirty"`
	Loading  bool     `json:"loading"`
	Active   bool     `json:"active"`
}

// FileChange describes a change to a file made outside of the editor.
type FileChange struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	Removed bool   `json:"removed"`
}

// ValidationResult is the outcome of a local syntax check.
// Line is 1-based, zero when the parser did not report a location.
type ValidationResult struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
	Line  int    `json:"line,omitempty"`
}

// Client is a single connected UI client.
type Client struct {
	UUID        uuid.UUID      `json:"uuid"`
	Conn        *jsonrpc2.Conn `json:"-"`
	ConnectedAt time.Time      `json:"connectedAt"`
}
