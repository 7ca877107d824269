// This file includes a selection of byte offset conversion methods from the gopls "protocol" package.
// Based on the following: https://github.com/golang/tools/blob/67d73b2960c82b2c8db0b9d0694c66a789a1db11/gopls/internal/lsp/protocol/mapper.go

// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// License Revision: https://github.com/golang/tools/blob/67d73b2960c82b2c8db0b9d0694c66a789a1db11/LICENSE

// Package protocol converts between LSP positions, which count UTF-16 code units, and byte offsets in document text.
package protocol

import (
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"go.lsp.dev/protocol"
)

// TextOffsetMapper is used for conversions related to text offsets.
// It is immutable once built; build a new one whenever the text changes.
type TextOffsetMapper struct {
	content   []byte
	lineStart []int
}

// NewTextOffsetMapper creates a new mapper for the given content.
func NewTextOffsetMapper(content []byte) *TextOffsetMapper {
	starts := []int{0}
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &TextOffsetMapper{content: content, lineStart: starts}
}

// LineCount returns the number of lines, counting a trailing empty line after a final newline.
func (m *TextOffsetMapper) LineCount() int {
	return len(m.lineStart)
}

// lineEnd returns the byte offset of the end of line, excluding its terminator.
func (m *TextOffsetMapper) lineEnd(line int) int {
	if line+1 < len(m.lineStart) {
		end := m.lineStart[line+1] - 1
		if end > m.lineStart[line] && m.content[end-1] == '\r' {
			end--
		}
		return end
	}
	return len(m.content)
}

// PositionOffset converts a protocol (UTF-16) position to a byte offset.
func (m *TextOffsetMapper) PositionOffset(p protocol.Position) (int, error) {
	line := int(p.Line)
	if line >= len(m.lineStart) {
		if line == len(m.lineStart) && p.Character == 0 {
			return len(m.content), nil
		}
		return 0, fmt.Errorf("line number %d out of range 0-%d", p.Line, len(m.lineStart)-1)
	}

	offset := m.lineStart[line]
	end := m.lineEnd(line)
	want := int(p.Character)
	for units := 0; units < want; {
		if offset >= end {
			return 0, fmt.Errorf("column %d is beyond end of line %d", p.Character, p.Line)
		}
		r, size := utf8.DecodeRune(m.content[offset:end])
		if r == utf8.RuneError && size == 1 {
			return 0, fmt.Errorf("buffer contains invalid UTF-8 text at offset %d", offset)
		}
		units += utf16.RuneLen(r)
		if units > want {
			// position points into the middle of a surrogate pair
			break
		}
		offset += size
	}
	return offset, nil
}

// OffsetPosition converts a byte offset to a protocol (UTF-16) position.
func (m *TextOffsetMapper) OffsetPosition(offset int) (protocol.Position, error) {
	if offset < 0 || offset > len(m.content) {
		return protocol.Position{}, fmt.Errorf("invalid offset %d (want 0-%d)", offset, len(m.content))
	}

	lo, hi := 0, len(m.lineStart)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if m.lineStart[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	line := lo
	end := m.lineEnd(line)
	if offset > end {
		offset = end
	}
	return protocol.Position{
		Line:      uint32(line),
		Character: uint32(UTF16Len(m.content[m.lineStart[line]:offset])),
	}, nil
}

// UTF16Len returns the number of codes in the UTF-16 transcoding of s.
func UTF16Len(s []byte) int {
	n := 0
	for len(s) > 0 {
		if s[0] < utf8.RuneSelf {
			n++
			s = s[1:]
			continue
		}
		r, size := utf8.DecodeRune(s)
		n += utf16.RuneLen(r)
		s = s[size:]
	}
	return n
}
