package entity

// ConnectionStatus is the observable state of the language session.
type ConnectionStatus string

const (
	// StatusDisconnected means no transport exists.
	StatusDisconnected ConnectionStatus = "disconnected"
	// StatusConnecting means a transport is being established.
	StatusConnecting ConnectionStatus = "connecting"
	// StatusConnected means the transport handshake completed.
	StatusConnected ConnectionStatus = "connected"
	// StatusError means the transport reported an error.
	StatusError ConnectionStatus = "error"
)

// SessionScope identifies the project a language session serves.
type SessionScope struct {
	Workspace string `json:"workspace"`
	ProjectID string `json:"projectId"`
}

// Complete reports whether both identifiers are set.
func (s SessionScope) Complete() bool {
	return s.Workspace != "" && s.ProjectID != ""
}

// SessionTarget is everything the session manager needs to decide whether a session should be live.
type SessionTarget struct {
	Scope        SessionScope `json:"scope"`
	Path         string       `json:"path"`
	FileType     FileType     `json:"fileType"`
	SurfaceReady bool         `json:"surfaceReady"`
}

// Eligible reports whether a live session is permitted for this target.
func (t SessionTarget) Eligible() bool {
	return t.Path != "" && t.FileType.SupportsLanguageSession() && t.Scope.Complete() && t.SurfaceReady
}
