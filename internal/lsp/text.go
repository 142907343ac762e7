package lsp

import (
	"unicode/utf8"

	"go.lsp.dev/protocol"
)

// LSP positions count UTF-16 code units; the formatter works in bytes.

// positionAt converts a byte offset into an LSP position. Offsets past the
// end clamp to the end of text.
func positionAt(text string, off int) protocol.Position {
	if off > len(text) {
		off = len(text)
	}
	var line, col uint32
	for i := 0; i < off; {
		if text[i] == '\n' {
			line++
			col = 0
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		if i+size > off {
			break
		}
		col += utf16Len(r)
		i += size
	}
	return protocol.Position{Line: line, Character: col}
}

func utf16Len(r rune) uint32 {
	if r > 0xFFFF {
		return 2
	}
	return 1
}

// wholeDocument spans text from its first to its last character.
func wholeDocument(text string) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: 0, Character: 0},
		End:   positionAt(text, len(text)),
	}
}
