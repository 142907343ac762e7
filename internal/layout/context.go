package layout

// Context answers Condition questions about the layout committed so far.
type Context struct {
	p *printer
	// measuring != nil while fits() looks ahead; it holds the assumed
	// layout of groups met during the look-ahead
	measuring map[GroupID]bool
}

// IsBroken reports whether the group was laid out in break mode. While
// measuring, groups under measurement count as flat.
func (c *Context) IsBroken(id GroupID) bool {
	if c.measuring != nil {
		if broken, ok := c.measuring[id]; ok {
			return broken
		}
	}
	broken, ok := c.p.broken[id]
	if !ok && c.measuring == nil {
		c.p.fail(&LayoutError{Kind: LayoutErrUnknownGroup, Group: id})
	}
	return broken
}

// IsStartOfLine reports whether nothing has been written on the current line,
// or a pending ExpectNewLine will start a new one before the next text.
// While measuring it is always false.
func (c *Context) IsStartOfLine() bool {
	if c.measuring != nil {
		return false
	}
	return c.p.w.atLineStart || c.p.pending
}

// WrittenSince reports whether any output followed the marker.
func (c *Context) WrittenSince(id MarkerID) bool {
	at, ok := c.p.markers[id]
	if !ok {
		if c.measuring != nil {
			return false
		}
		c.p.fail(&LayoutError{Kind: LayoutErrUnknownMarker, Marker: id})
		return false
	}
	return c.p.w.written > at
}
