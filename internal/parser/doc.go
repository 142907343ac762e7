// Package parser builds the lossless syntax tree for a TOML document.
//
// The parser drives the lexer in key or value mode and records every token,
// trivia included, into a syntax.Builder. Errors are reported and parsing
// continues, so the tree always reproduces the input byte for byte.
package parser
