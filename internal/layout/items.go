package layout

// Item is one layout instruction.
type Item interface{ isItem() }

// Text is written as is. It must not contain line breaks.
type Text string

// Raw is written as is; line breaks inside it become the configured newline
// text and the following lines get no indentation.
type Raw string

// Suffix is raw text that trails a line (a comment). It is not counted when
// deciding whether earlier content fits on its line.
type Suffix string

// Signal is a line break instruction.
type Signal uint8

const (
	// NewLine always breaks the line.
	NewLine Signal = iota + 1
	// SpaceOrNewLine is a space in flat mode and a line break in break mode.
	SpaceOrNewLine
	// PossibleNewLine is nothing in flat mode and a line break in break mode.
	PossibleNewLine
	// ExpectNewLine makes the next text or space start on a new line.
	ExpectNewLine
)

// Indent increases the indentation of line breaks inside Items by one level.
type Indent struct{ Items []Item }

// GroupID names a Group so conditions can ask how it was laid out.
type GroupID int

// Group is laid out flat when its content fits on the current line and
// contains no hard line break; otherwise its soft breaks become line breaks.
type Group struct {
	ID    GroupID
	Break bool // всегда ломать
	Items []Item
}

// MarkerID names a Marker.
type MarkerID int

// Marker records the output position for WrittenSince.
type Marker struct{ ID MarkerID }

// Resolver decides a Condition once the layout before it is committed.
type Resolver func(ctx *Context) bool

// Condition emits True or False depending on Resolve.
type Condition struct {
	Name    string
	Resolve Resolver
	True    []Item
	False   []Item
}

// NoNewLines lays Items out flat: groups never break and soft line breaks are
// suppressed. NewLine and ExpectNewLine are still honoured.
type NoNewLines struct{ Items []Item }

func (Text) isItem()       {}
func (Raw) isItem()        {}
func (Suffix) isItem()     {}
func (Signal) isItem()     {}
func (Indent) isItem()     {}
func (Group) isItem()      {}
func (Marker) isItem()     {}
func (Condition) isItem()  {}
func (NoNewLines) isItem() {}

func (s Signal) String() string {
	switch s {
	case NewLine:
		return "NewLine"
	case SpaceOrNewLine:
		return "SpaceOrNewLine"
	case PossibleNewLine:
		return "PossibleNewLine"
	case ExpectNewLine:
		return "ExpectNewLine"
	default:
		return "Signal(?)"
	}
}

// IDs hands out group and marker identifiers for one document.
type IDs struct {
	groups  int
	markers int
}

// Group returns a fresh group id.
func (g *IDs) Group() GroupID {
	g.groups++
	return GroupID(g.groups)
}

// Marker returns a fresh marker id.
func (g *IDs) Marker() MarkerID {
	g.markers++
	return MarkerID(g.markers)
}

// IsBroken resolves to true when the group was laid out in break mode.
func IsBroken(id GroupID) Resolver {
	return func(ctx *Context) bool { return ctx.IsBroken(id) }
}

// IsStartOfLine resolves to true when nothing has been written on the current line.
func IsStartOfLine(ctx *Context) bool { return ctx.IsStartOfLine() }

// WrittenSince resolves to true when output was produced after the marker.
func WrittenSince(id MarkerID) Resolver {
	return func(ctx *Context) bool { return ctx.WrittenSince(id) }
}

// Not negates a resolver.
func Not(r Resolver) Resolver {
	return func(ctx *Context) bool { return !r(ctx) }
}
