package lexer

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"tomlfmt/internal/diag"

	"fortio.org/safecast"
)

// ===== Работа с рунами поверх Cursor =====

// peekRune читает текущий байт как руну
func (lx *Lexer) peekRune() (r rune, size int) {
	if lx.cursor.EOF() {
		return utf8.RuneError, 0
	}
	b := lx.cursor.Peek()
	if b < utf8.RuneSelf { // fast-path ASCII
		return rune(b), 1
	}
	return utf8.DecodeRune(lx.file.Content[lx.cursor.Off:])
}

// bumpRune перемещает курсор на размер текущей руны
func (lx *Lexer) bumpRune() {
	_, sz := lx.peekRune()
	if sz == 0 {
		return
	}
	usz, err := safecast.Conv[uint32](sz)
	if err != nil {
		panic(fmt.Errorf("bumpRune overflow: %w", err))
	}
	lx.cursor.BumpN(usz)
}

// ===== Классификаторы =====

func isBareKeyByte(b byte) bool {
	return b == '_' || b == '-' || isDec(b) || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// isValueByte covers every byte a bare value (number, bool, date-time) may contain.
func isValueByte(b byte) bool {
	return isBareKeyByte(b) || b == '+' || b == '.' || b == ':'
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }
func isHex(b byte) bool {
	return (b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'f') ||
		(b >= 'A' && b <= 'F')
}

// isControl reports bytes TOML forbids in comments and strings; tab is allowed.
func isControl(b byte) bool {
	return (b < 0x20 && b != '\t') || b == 0x7f
}

func diagUnknownChar(text string) diag.Code {
	if len(text) == 1 && isControl(text[0]) {
		return diag.LexControlChar
	}
	return diag.LexUnknownChar
}

func quoteRune(text string) string {
	r, _ := utf8.DecodeRuneInString(text)
	return strconv.QuoteRune(r)
}
