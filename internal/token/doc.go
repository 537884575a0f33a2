// Package token defines lexical token kinds and trivia for mend sources.
// Invariants:
//   - Token.Text is exactly the source text covered by Token.Span.
//   - Whitespace and comments never appear in the main token stream; they are
//     attached to the following token as Leading trivia (EOF carries the tail).
//   - Concatenating Leading trivia and Text of every token reproduces the file.
package token
