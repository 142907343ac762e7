package layout

import (
	"fmt"
	"strings"
)

// Options control rendering.
type Options struct {
	LineWidth   int
	IndentWidth int
	UseTabs     bool
	NewLine     string // "\n" или "\r\n"
}

func (o Options) validate() error {
	switch {
	case o.LineWidth <= 0:
		return &LayoutError{Kind: LayoutErrBadOptions, Detail: fmt.Sprintf("line width %d", o.LineWidth)}
	case o.IndentWidth <= 0:
		return &LayoutError{Kind: LayoutErrBadOptions, Detail: fmt.Sprintf("indent width %d", o.IndentWidth)}
	case o.NewLine != "\n" && o.NewLine != "\r\n":
		return &LayoutError{Kind: LayoutErrBadOptions, Detail: fmt.Sprintf("newline %q", o.NewLine)}
	}
	return nil
}

type mode uint8

const (
	modeBreak mode = iota
	modeFlat
)

// cmd — элемент стека печати: инструкция плюс унаследованное состояние.
type cmd struct {
	indent int
	mode   mode
	noNL   bool
	item   Item
}

type printer struct {
	opt     Options
	w       *Writer
	broken  map[GroupID]bool
	markers map[MarkerID]int
	pending bool // после ExpectNewLine
	err     error
	ctx     Context
}

// Print renders items. Decisions are made in one left-to-right pass: each
// group is measured when reached, and conditions are resolved against the
// layout committed before them.
func Print(items []Item, opt Options) (string, error) {
	if err := opt.validate(); err != nil {
		return "", err
	}
	p := &printer{
		opt:     opt,
		w:       newWriter(opt),
		broken:  make(map[GroupID]bool),
		markers: make(map[MarkerID]int),
	}
	p.ctx = Context{p: p}

	stack := pushItems(nil, items, 0, modeBreak, false)
	for len(stack) > 0 && p.err == nil {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		stack = p.step(c, stack)
	}
	if p.err != nil {
		return "", p.err
	}
	return p.w.String(), nil
}

// pushItems кладёт items на стек в обратном порядке, чтобы первый оказался сверху.
func pushItems(stack []cmd, items []Item, indent int, m mode, noNL bool) []cmd {
	for i := len(items) - 1; i >= 0; i-- {
		stack = append(stack, cmd{indent: indent, mode: m, noNL: noNL, item: items[i]})
	}
	return stack
}

func (p *printer) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

func (p *printer) step(c cmd, stack []cmd) []cmd {
	switch it := c.item.(type) {
	case Text:
		p.flushPending()
		p.w.Text(string(it), c.indent)
	case Raw:
		p.flushPending()
		p.w.Raw(string(it), c.indent)
	case Suffix:
		p.flushPending()
		p.w.Raw(string(it), c.indent)
	case Signal:
		p.signal(it, c)
	case Indent:
		return pushItems(stack, it.Items, c.indent+1, c.mode, c.noNL)
	case NoNewLines:
		return pushItems(stack, it.Items, c.indent, modeFlat, true)
	case Group:
		m := modeFlat
		switch {
		case c.noNL, c.mode == modeFlat:
			// родитель уже поместился целиком
		case it.Break:
			m = modeBreak
		case !p.fits(cmd{indent: c.indent, mode: modeFlat, item: it}, stack):
			m = modeBreak
		}
		if it.ID != 0 {
			p.broken[it.ID] = m == modeBreak
		}
		return pushItems(stack, it.Items, c.indent, m, c.noNL)
	case Condition:
		if it.Resolve(&p.ctx) {
			return pushItems(stack, it.True, c.indent, c.mode, c.noNL)
		}
		return pushItems(stack, it.False, c.indent, c.mode, c.noNL)
	case Marker:
		p.markers[it.ID] = p.w.written
	case nil:
	default:
		p.fail(fmt.Errorf("layout: unsupported item %T", it))
	}
	return stack
}

func (p *printer) signal(s Signal, c cmd) {
	switch s {
	case NewLine:
		p.pending = false
		p.w.NewLine()
	case ExpectNewLine:
		p.pending = true
	case SpaceOrNewLine:
		if p.pending || (c.mode == modeBreak && !c.noNL) {
			p.pending = false
			p.w.NewLine()
			return
		}
		p.w.Space(c.indent)
	case PossibleNewLine:
		if c.mode == modeBreak && !c.noNL {
			p.pending = false
			p.w.NewLine()
		}
	}
}

func (p *printer) flushPending() {
	if p.pending {
		p.pending = false
		p.w.NewLine()
	}
}

// fits measures next laid out flat on the rest of the current line, then
// keeps walking the commands after it until their first line break.
func (p *printer) fits(next cmd, rest []cmd) bool {
	width := p.opt.LineWidth - p.w.column
	if p.pending || p.w.atLineStart {
		width = p.opt.LineWidth - next.indent*p.opt.IndentWidth
	}
	measuring := make(map[GroupID]bool)
	ctx := Context{p: p, measuring: measuring}

	type mcmd struct {
		cmd
		inRest bool
	}
	stack := []mcmd{{cmd: next}}
	restIdx := len(rest)
	for width >= 0 {
		if len(stack) == 0 {
			if restIdx == 0 {
				return true
			}
			restIdx--
			stack = append(stack, mcmd{cmd: rest[restIdx], inRest: true})
			continue
		}
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		push := func(items []Item, m mode) {
			for i := len(items) - 1; i >= 0; i-- {
				stack = append(stack, mcmd{cmd: cmd{indent: c.indent, mode: m, noNL: c.noNL, item: items[i]}, inRest: c.inRest})
			}
		}

		switch it := c.item.(type) {
		case Text:
			width -= textWidth(string(it), p.opt.IndentWidth)
		case Raw:
			if strings.Contains(string(it), "\n") {
				return c.inRest
			}
			width -= textWidth(string(it), p.opt.IndentWidth)
		case Suffix:
			if !c.inRest {
				if strings.Contains(string(it), "\n") {
					return false
				}
				width -= textWidth(string(it), p.opt.IndentWidth)
			}
		case Signal:
			switch it {
			case NewLine, ExpectNewLine:
				return c.inRest
			case SpaceOrNewLine:
				if c.mode == modeBreak && !c.noNL {
					return true
				}
				width--
			case PossibleNewLine:
				if c.mode == modeBreak && !c.noNL {
					return true
				}
			}
		case Indent:
			for i := len(it.Items) - 1; i >= 0; i-- {
				stack = append(stack, mcmd{cmd: cmd{indent: c.indent + 1, mode: c.mode, noNL: c.noNL, item: it.Items[i]}, inRest: c.inRest})
			}
		case NoNewLines:
			c.noNL = true
			push(it.Items, modeFlat)
		case Group:
			if it.Break && !c.noNL {
				if !c.inRest {
					return false
				}
				if it.ID != 0 {
					measuring[it.ID] = true
				}
				push(it.Items, modeBreak)
				continue
			}
			m := c.mode
			if !c.inRest {
				m = modeFlat
			}
			if it.ID != 0 {
				measuring[it.ID] = m == modeBreak
			}
			push(it.Items, m)
		case Condition:
			if it.Resolve(&ctx) {
				push(it.True, c.mode)
			} else {
				push(it.False, c.mode)
			}
		}
	}
	return false
}
