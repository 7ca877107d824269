package mapper

import (
	"bytes"
	"fmt"

	"github.com/sergi/go-diff/diffmatchpatch"
	textpos "github.com/uber/arena-editor/src/editor/internal/protocol"
	"go.lsp.dev/protocol"
)

// EditOffset stores a string modification based on byte offsets in the original text.
type EditOffset struct {
	start int
	end   int
	text  string
}

// ApplyContentChanges applies LSP content change events in order. An event without a range replaces the whole text.
func ApplyContentChanges(initialText string, changes []protocol.TextDocumentContentChangeEvent) (string, error) {
	content := []byte(initialText)
	for _, change := range changes {
		if change.Range == nil {
			content = []byte(change.Text)
			continue
		}

		m := textpos.NewTextOffsetMapper(content)
		start, err := m.PositionOffset(change.Range.Start)
		if err != nil {
			return "", fmt.Errorf("unable to apply changes: %w", err)
		}
		end, err := m.PositionOffset(change.Range.End)
		if err != nil {
			return "", fmt.Errorf("unable to apply changes: %w", err)
		}
		if end < start {
			return "", fmt.Errorf("unable to apply changes: range end %d precedes start %d", end, start)
		}

		var buf bytes.Buffer
		buf.Grow(len(content) - (end - start) + len(change.Text))
		buf.Write(content[:start])
		buf.WriteString(change.Text)
		buf.Write(content[end:])
		content = buf.Bytes()
	}

	return string(content), nil
}

// DiffsToEditOffsets collapses a diff into replace operations expressed against the original text.
// Adjacent deletions and insertions become a single edit.
func DiffsToEditOffsets(diffs []diffmatchpatch.Diff) []EditOffset {
	var (
		edits   []EditOffset
		pending *EditOffset
		offset  int
	)
	flush := func() {
		if pending != nil {
			edits = append(edits, *pending)
			pending = nil
		}
	}

	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			flush()
			offset += len(d.Text)
		case diffmatchpatch.DiffDelete:
			if pending == nil {
				pending = &EditOffset{start: offset, end: offset}
			}
			offset += len(d.Text)
			pending.end = offset
		case diffmatchpatch.DiffInsert:
			if pending == nil {
				pending = &EditOffset{start: offset, end: offset}
			}
			pending.text += d.Text
		}
	}
	flush()
	return edits
}

// ContentChanges computes incremental change events turning oldText into newText.
// Events are ordered from the end of the document backwards so each range is valid against the original text
// when they are applied in sequence.
func ContentChanges(oldText, newText string) ([]protocol.TextDocumentContentChangeEvent, error) {
	if oldText == newText {
		return nil, nil
	}

	dmp := diffmatchpatch.New()
	edits := DiffsToEditOffsets(dmp.DiffMain(oldText, newText, false))

	m := textpos.NewTextOffsetMapper([]byte(oldText))
	changes := make([]protocol.TextDocumentContentChangeEvent, 0, len(edits))
	for i := len(edits) - 1; i >= 0; i-- {
		e := edits[i]
		start, err := m.OffsetPosition(e.start)
		if err != nil {
			return nil, fmt.Errorf("computing change start: %w", err)
		}
		end, err := m.OffsetPosition(e.end)
		if err != nil {
			return nil, fmt.Errorf("computing change end: %w", err)
		}
		changes = append(changes, protocol.TextDocumentContentChangeEvent{
			Range:       &protocol.Range{Start: start, End: end},
			RangeLength: uint32(textpos.UTF16Len([]byte(oldText[e.start:e.end]))),
			Text:        e.text,
		})
	}
	return changes, nil
}
