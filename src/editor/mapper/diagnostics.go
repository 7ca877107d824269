package mapper

import (
	"sort"

	"github.com/uber/arena-editor/src/editor/entity"
	"go.lsp.dev/protocol"
)

// ProtocolDiagnosticsToMarkers maps diagnostics pushed by the language session into markers for filePath.
func ProtocolDiagnosticsToMarkers(filePath string, diagnostics []protocol.Diagnostic) []entity.Marker {
	markers := make([]entity.Marker, 0, len(diagnostics))
	for _, d := range diagnostics {
		markers = append(markers, entity.Marker{
			FilePath: filePath,
			Range:    ProtocolRangeToRange(d.Range),
			Severity: entity.SeverityFromWire(int(d.Severity)),
			Message:  d.Message,
			Source:   entity.SourceLiveSession,
			Origin:   d.Source,
		})
	}
	return markers
}

// ProtocolRangeToRange maps an LSP range.
func ProtocolRangeToRange(r protocol.Range) entity.Range {
	return entity.Range{
		Start: entity.Position{Line: int(r.Start.Line), Character: int(r.Start.Character)},
		End:   entity.Position{Line: int(r.End.Line), Character: int(r.End.Character)},
	}
}

// PositionToProtocol maps an editor position to LSP.
func PositionToProtocol(p entity.Position) protocol.Position {
	return protocol.Position{Line: uint32(clampZero(p.Line)), Character: uint32(clampZero(p.Character))}
}

// BatchValidationToMarkers maps a batch validation response. Files are emitted in lexical path order.
func BatchValidationToMarkers(result entity.BatchValidation) []entity.Marker {
	paths := make([]string, 0, len(result.Diagnostics))
	for p := range result.Diagnostics {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var markers []entity.Marker
	for _, p := range paths {
		for _, d := range result.Diagnostics[p] {
			markers = append(markers, WireDiagnosticToMarker(p, d))
		}
	}
	return markers
}

// WireDiagnosticToMarker maps a batch validator diagnostic with 1-based coordinates.
// A missing end collapses the range onto its start.
func WireDiagnosticToMarker(filePath string, d entity.WireDiagnostic) entity.Marker {
	start := oneBasedToPosition(d.Line, d.Column)
	end := start
	if d.EndLine > 0 {
		end = oneBasedToPosition(d.EndLine, d.EndCol)
	}
	return entity.Marker{
		FilePath: filePath,
		Range:    entity.Range{Start: start, End: end},
		Severity: entity.SeverityFromWire(d.Severity),
		Message:  d.Message,
		Source:   entity.SourceBatchValidate,
		Origin:   d.Source,
	}
}

// ProblemsToMarkers maps a job run problems feed. Problems without a file cannot be placed and are dropped.
func ProblemsToMarkers(problems []entity.Problem) []entity.Marker {
	markers := make([]entity.Marker, 0, len(problems))
	for _, p := range problems {
		if p.File == "" {
			continue
		}
		pos := oneBasedToPosition(p.Line, p.Column)
		markers = append(markers, entity.Marker{
			FilePath: p.File,
			Range:    entity.Range{Start: pos, End: pos},
			Severity: entity.ParseSeverity(p.Severity),
			Message:  p.Message,
			Source:   entity.SourceJobRun,
			Origin:   p.Source,
		})
	}
	return markers
}

func oneBasedToPosition(line, column int) entity.Position {
	return entity.Position{Line: clampZero(line - 1), Character: clampZero(column - 1)}
}

func clampZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
