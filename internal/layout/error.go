package layout

import "fmt"

// LayoutErrorKind enumerates malformed instruction streams.
type LayoutErrorKind uint8

const (
	// LayoutErrUnknownGroup: a condition asked about a group that was not laid out yet.
	LayoutErrUnknownGroup LayoutErrorKind = iota + 1
	// LayoutErrUnknownMarker: a condition referenced a marker that was never passed.
	LayoutErrUnknownMarker
	// LayoutErrBadOptions: line width or indent width out of range.
	LayoutErrBadOptions
)

// LayoutError reports an instruction stream the printer cannot render.
type LayoutError struct {
	Kind   LayoutErrorKind
	Group  GroupID
	Marker MarkerID
	Detail string
}

func (e *LayoutError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case LayoutErrUnknownGroup:
		return fmt.Sprintf("layout: condition refers to group #%d before it was laid out", e.Group)
	case LayoutErrUnknownMarker:
		return fmt.Sprintf("layout: condition refers to unknown marker #%d", e.Marker)
	case LayoutErrBadOptions:
		return "layout: invalid options: " + e.Detail
	default:
		return "layout: unknown error"
	}
}
