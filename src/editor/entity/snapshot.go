package entity

// Snapshot is the state exposed to presentation clients.
type Snapshot struct {
	Workspace         string                      `json:"workspace"`
	ProjectID         string                      `json:"projectId"`
	ActiveFile        string                      `json:"activeFile,omitempty"`
	OpenFiles         []DocumentInfo              `json:"openFiles"`
	HasUnsavedChanges bool                        `json:"hasUnsavedChanges"`
	ProblemsCount     int                         `json:"problemsCount"`
	Summary           Summary                     `json:"summary"`
	Groups            []FileGroup                 `json:"groups"`
	ConnectionStatus  ConnectionStatus            `json:"connectionStatus"`
	LocalValidation   map[string]ValidationResult `json:"localValidation"`
	Saving            []string                    `json:"saving"`
	Validating        bool                        `json:"validating"`
}
