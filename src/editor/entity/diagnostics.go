package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// Severity of a diagnostic marker. Lower values are more severe.
type Severity int

const (
	// SeverityError is the most severe level.
	SeverityError Severity = iota + 1
	// SeverityWarning marks probable problems.
	SeverityWarning
	// SeverityInfo is informational.
	SeverityInfo
	// SeverityHint is the least severe level.
	SeverityHint
)

// SeverityFromWire maps an integer severity code as sent by producers (1 error, 2 warning, 3 info, 4 hint).
// Unknown codes are treated as info.
func SeverityFromWire(code int) Severity {
	s := Severity(code)
	if !s.Valid() {
		return SeverityInfo
	}
	return s
}

// ParseSeverity maps a textual severity. Unknown values are treated as info.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error", "fatal":
		return SeverityError
	case "warning", "warn":
		return SeverityWarning
	case "hint":
		return SeverityHint
	default:
		return SeverityInfo
	}
}

// Valid reports whether s is one of the four known severities.
func (s Severity) Valid() bool {
	return s >= SeverityError && s <= SeverityHint
}

// Compare orders severities from most to least severe.
// It returns a negative number when s is more severe than o.
func (s Severity) Compare(o Severity) int {
	return int(s) - int(o)
}

// MoreSevere reports whether s ranks strictly above o.
func (s Severity) MoreSevere(o Severity) bool {
	return s.Compare(o) < 0
}

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Icon returns the status icon name used by the problems panel.
func (s Severity) Icon() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityHint:
		return "lightbulb"
	default:
		return "info"
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts either a name or a wire code.
func (s *Severity) UnmarshalText(b []byte) error {
	text := string(b)
	if code, err := strconv.Atoi(text); err == nil {
		*s = SeverityFromWire(code)
		return nil
	}
	*s = ParseSeverity(text)
	return nil
}

// Position is a 0-based line and character offset.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a half open span within a document.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// DiagnosticSource identifies the producer of markers.
type DiagnosticSource string

const (
	// SourceLiveSession markers come from the remote language session.
	SourceLiveSession DiagnosticSource = "live-session"
	// SourceBatchValidate markers come from on-demand project validation.
	SourceBatchValidate DiagnosticSource = "batch-validate"
	// SourceJobRun markers come from a job run problems feed.
	SourceJobRun DiagnosticSource = "job-run"
)

// Marker is a single diagnostic attached to a file.
type Marker struct {
	FilePath string           `json:"filePath"`
	Range    Range            `json:"range"`
	Severity Severity         `json:"severity"`
	Message  string           `json:"message"`
	Source   DiagnosticSource `json:"source"`
	Origin   string           `json:"origin,omitempty"`
}

// FileGroup is the problems panel entry for one file.
type FileGroup struct {
	FilePath string   `json:"filePath"`
	Markers  []Marker `json:"markers"`
	Count    int      `json:"count"`
}

// WorstSeverity returns the most severe marker level in the group.
func (g FileGroup) WorstSeverity() (Severity, bool) {
	return WorstSeverity(g.Markers)
}

// WorstSeverity returns the most severe level among markers, false when there are none.
func WorstSeverity(markers []Marker) (Severity, bool) {
	if len(markers) == 0 {
		return 0, false
	}
	worst := markers[0].Severity
	for _, m := range markers[1:] {
		if m.Severity.MoreSevere(worst) {
			worst = m.Severity
		}
	}
	return worst, true
}

// Summary counts markers by severity.
type Summary struct {
	ErrorCount   int `json:"errorCount"`
	WarningCount int `json:"warningCount"`
	InfoCount    int `json:"infoCount"`
	HintCount    int `json:"hintCount"`
}

// Add counts a single marker of severity s.
func (s *Summary) Add(sev Severity) {
	switch sev {
	case SeverityError:
		s.ErrorCount++
	case SeverityWarning:
		s.WarningCount++
	case SeverityHint:
		s.HintCount++
	default:
		s.InfoCount++
	}
}

// Total is the number of counted markers.
func (s Summary) Total() int {
	return s.ErrorCount + s.WarningCount + s.InfoCount + s.HintCount
}

// WireDiagnostic is a diagnostic as returned by the batch validator.
type WireDiagnostic struct {
	Severity int    `json:"severity"`
	Message  string `json:"message"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
	EndLine  int    `json:"endLine,omitempty"`
	EndCol   int    `json:"endColumn,omitempty"`
	Source   string `json:"source,omitempty"`
}

// BatchValidation is the batch validator response.
type BatchValidation struct {
	Valid       bool                        `json:"valid"`
	Diagnostics map[string][]WireDiagnostic `json:"diagnostics"`
	Summary     Summary                     `json:"summary"`
}

// Problem is a single entry of a job run problems feed. Line and Column are 1-based when set.
type Problem struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
	File     string `json:"file"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
	Source   string `json:"source,omitempty"`
}
