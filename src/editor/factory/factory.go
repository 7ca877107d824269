// Package factory builds fixtures for tests.
package factory

import (
	"fmt"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/uber/arena-editor/src/editor/entity"
	"go.lsp.dev/jsonrpc2"
	"go.uber.org/config"
)

// UUID is a user-defined factory for a random uuid.UUID.
func UUID() uuid.UUID {
	return uuid.Must(uuid.NewV4())
}

// JSONRPCRequest is a user-defined factory for a JSON-RPC request containing the specified method and parameters.
func JSONRPCRequest(method string, params interface{}) jsonrpc2.Request {
	req, _ := jsonrpc2.NewCall(jsonrpc2.NewNumberID(5), method, params)
	return req
}

// JSONRPCNotification is a factory for a JSON-RPC notification.
func JSONRPCNotification(method string, params interface{}) jsonrpc2.Request {
	req, _ := jsonrpc2.NewNotification(method, params)
	return req
}

// Scope returns a complete session scope.
func Scope() entity.SessionScope {
	return entity.SessionScope{Workspace: "ws-1", ProjectID: "project-1"}
}

// Marker returns a marker on the first line of filePath.
func Marker(filePath string, severity entity.Severity, source entity.DiagnosticSource, message string) entity.Marker {
	return entity.Marker{
		FilePath: filePath,
		Range: entity.Range{
			Start: entity.Position{Line: 0, Character: 0},
			End:   entity.Position{Line: 0, Character: 1},
		},
		Severity: severity,
		Message:  message,
		Source:   source,
	}
}

// Markers returns n error markers for filePath with numbered messages.
func Markers(filePath string, source entity.DiagnosticSource, n int) []entity.Marker {
	markers := make([]entity.Marker, 0, n)
	for i := 0; i < n; i++ {
		markers = append(markers, Marker(filePath, entity.SeverityError, source, fmt.Sprintf("%s problem %d", source, i)))
	}
	return markers
}

// Document returns a clean document.
func Document(filePath string, fileType entity.FileType, content string) entity.Document {
	name := filePath
	if idx := strings.LastIndex(filePath, "/"); idx >= 0 {
		name = filePath[idx+1:]
	}
	return entity.Document{
		Path:         filePath,
		Name:         name,
		Content:      content,
		SavedContent: content,
		FileType:     fileType,
	}
}

// Config builds a provider from YAML text. It panics on malformed input.
func Config(yaml string) config.Provider {
	provider, err := config.NewYAML(config.Source(strings.NewReader(yaml)))
	if err != nil {
		panic(err)
	}
	return provider
}
