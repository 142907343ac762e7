// Package diag defines the diagnostic model shared by the lexer, the parser
// and configuration loading.
//
// # Purpose
//
//   - Provide deterministic data structures that capture findings produced
//     while decoding, lexing and parsing a TOML document.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//
// # Scope
//
// Package diag does not perform IO or terminal rendering. Pretty and JSON
// rendering live in internal/diagfmt.
package diag
