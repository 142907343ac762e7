// Package layout renders a stream of layout instructions into text.
//
// Callers describe a document as Items: text, line-break signals, indented
// regions, groups that break as a unit when they do not fit the line width,
// and conditions resolved against the layout chosen before them (for example
// "is this group broken" for a trailing comma). Print lays the stream out in
// a single pass, measuring each group as it is reached.
package layout
