// Package formatter provides the built-in formatting stages.
//
// HTML stages run over serialized editor content after every transaction
// and on inserted markup. Plain-text stages turn user supplied text into
// markup before it reaches the HTML stages. Every stage preserves
// selection marker tokens.
package formatter
