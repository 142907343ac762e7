package syntax

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Dump writes an indented listing of el and its descendants:
//
//	Entry@0..5
//	  Key@0..1
//	    Ident@0..1 "a"
func Dump(w io.Writer, el *Element) error {
	return dump(w, el, 0)
}

func dump(w io.Writer, el *Element, depth int) error {
	pad := strings.Repeat("  ", depth)
	if el.IsToken() {
		_, err := fmt.Fprintf(w, "%s%s@%d..%d %s\n", pad, el.Kind(), el.Offset(), el.End(), strconv.Quote(el.Text()))
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%s@%d..%d\n", pad, el.Kind(), el.Offset(), el.End()); err != nil {
		return err
	}
	for _, c := range el.ChildrenWithTokens() {
		if err := dump(w, c, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// DumpString is Dump into a string.
func DumpString(el *Element) string {
	var sb strings.Builder
	_ = Dump(&sb, el)
	return sb.String()
}
