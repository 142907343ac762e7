package driver

import (
	"fmt"
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// diffContext is the number of unchanged lines shown around each hunk.
const diffContext = 3

type lineOp struct {
	kind diffpatch.Operation
	text string // без завершающего перевода строки
}

// Diff renders a unified diff between before and after, labelled with path.
// It returns "" when the two are equal.
func Diff(path, before, after string) string {
	if before == after {
		return ""
	}
	ops := lineDiff(before, after)

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- %s\n+++ %s (formatted)\n", path, path)
	for _, h := range hunks(ops) {
		writeHunk(&sb, ops, h)
	}
	return sb.String()
}

// lineDiff diffs line by line: each line is mapped to one rune, diffed,
// then expanded back.
func lineDiff(before, after string) []lineOp {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var ops []lineOp
	for _, d := range diffs {
		for _, line := range splitLines(d.Text) {
			ops = append(ops, lineOp{kind: d.Type, text: line})
		}
	}
	return ops
}

// splitLines splits s into lines, keeping a trailing "\r" as part of the line
// so CRLF-only changes stay visible.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\n")
	}
	return lines
}

type hunk struct{ start, end int } // [start, end) in ops

func hunks(ops []lineOp) []hunk {
	var out []hunk
	for i := 0; i < len(ops); {
		if ops[i].kind == diffpatch.DiffEqual {
			i++
			continue
		}
		start := max(i-diffContext, 0)
		end := i
		// расширяем, пока между изменениями не больше 2*context равных строк
		for end < len(ops) {
			if ops[end].kind != diffpatch.DiffEqual {
				end++
				continue
			}
			run := end
			for run < len(ops) && ops[run].kind == diffpatch.DiffEqual {
				run++
			}
			if run == len(ops) || run-end > 2*diffContext {
				end = min(end+diffContext, len(ops))
				break
			}
			end = run
		}
		if n := len(out); n > 0 && start <= out[n-1].end {
			out[n-1].end = end
		} else {
			out = append(out, hunk{start: start, end: end})
		}
		i = end
	}
	return out
}

func writeHunk(sb *strings.Builder, ops []lineOp, h hunk) {
	// номера строк до начала ханка
	oldLine, newLine := 1, 1
	for _, op := range ops[:h.start] {
		if op.kind != diffpatch.DiffInsert {
			oldLine++
		}
		if op.kind != diffpatch.DiffDelete {
			newLine++
		}
	}
	var oldCount, newCount int
	for _, op := range ops[h.start:h.end] {
		if op.kind != diffpatch.DiffInsert {
			oldCount++
		}
		if op.kind != diffpatch.DiffDelete {
			newCount++
		}
	}
	fmt.Fprintf(sb, "@@ -%s +%s @@\n", hunkRange(oldLine, oldCount), hunkRange(newLine, newCount))
	for _, op := range ops[h.start:h.end] {
		switch op.kind {
		case diffpatch.DiffDelete:
			sb.WriteByte('-')
		case diffpatch.DiffInsert:
			sb.WriteByte('+')
		default:
			sb.WriteByte(' ')
		}
		sb.WriteString(op.text)
		sb.WriteByte('\n')
	}
}

func hunkRange(line, count int) string {
	if count == 0 {
		return fmt.Sprintf("%d,0", line-1)
	}
	if count == 1 {
		return fmt.Sprintf("%d", line)
	}
	return fmt.Sprintf("%d,%d", line, count)
}
