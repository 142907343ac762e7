package config

import (
	"bytes"
	"fmt"
	"runtime"
	"strings"
)

// NewLineKind selects the line terminator written to formatted output.
type NewLineKind string

const (
	// NewLineAuto uses the terminator that dominates the input.
	NewLineAuto   NewLineKind = "auto"
	NewLineLF     NewLineKind = "lf"
	NewLineCRLF   NewLineKind = "crlf"
	NewLineSystem NewLineKind = "system"
)

// ParseNewLineKind accepts the names case-insensitively.
func ParseNewLineKind(s string) (NewLineKind, error) {
	switch NewLineKind(strings.ToLower(strings.TrimSpace(s))) {
	case NewLineAuto:
		return NewLineAuto, nil
	case NewLineLF:
		return NewLineLF, nil
	case NewLineCRLF:
		return NewLineCRLF, nil
	case NewLineSystem:
		return NewLineSystem, nil
	}
	return "", fmt.Errorf("unknown newline kind %q (want auto, lf, crlf or system)", s)
}

func (k NewLineKind) String() string { return string(k) }

// Text returns the terminator for k given the text being formatted.
func (k NewLineKind) Text(src []byte) string {
	switch k {
	case NewLineCRLF:
		return "\r\n"
	case NewLineSystem:
		return systemNewLine(runtime.GOOS)
	case NewLineAuto:
		return dominantNewLine(src)
	}
	return "\n"
}

// NewLineText resolves the configured terminator against src.
func (c Configuration) NewLineText(src []byte) string {
	return c.NewLineKind.Text(src)
}

func systemNewLine(goos string) string {
	if goos == "windows" {
		return "\r\n"
	}
	return "\n"
}

// dominantNewLine counts LF and CRLF terminators; ties go to LF.
func dominantNewLine(src []byte) string {
	total := bytes.Count(src, []byte{'\n'})
	crlf := bytes.Count(src, []byte("\r\n"))
	if crlf > total-crlf {
		return "\r\n"
	}
	return "\n"
}
