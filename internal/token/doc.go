// Package token defines syntax kinds for TOML tokens and tree nodes.
// Invariants:
//   - Token.Text is the exact source text covered by Token.Span.
//   - Trivia (Whitespace, Newline, Comment) are ordinary tokens; nothing is
//     attached to a neighbour as leading or trailing trivia.
//   - A Newline token coalesces consecutive line terminators; its line count
//     is the number of '\n' bytes, so "\r\n" counts once.
package token
