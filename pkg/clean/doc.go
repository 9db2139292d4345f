// Package clean normalizes lyrics and band names before layout.
//
// The layout synthesizer works on a flat sequence of lowercase words and a
// sequence of target letters. This package produces both from raw user text:
//
//  1. Unicode compatibility normalization (NFKC), so full-width digits,
//     ligatures and superscripts compare equal to their plain forms
//     ("ＡＢＣ１２３" becomes "ABC123", "ﬁ" becomes "fi", "x²" becomes "x2").
//  2. Punctuation that sits between two word characters is removed, joining
//     the fragments ("can't" becomes "cant").
//  3. All other punctuation becomes a word separator, as does the underscore.
//  4. Whitespace is collapsed and trimmed, and the text is case-folded.
//
// Accents are preserved: "é" stays "é" and only matches "é".
//
// # Usage
//
//	words := clean.Words("...I bomb atomically, socrates...")
//	// [i bomb atomically socrates]
//
//	letters := clean.Letters("Zoë  Eñótié")
//	// [z o ë e ñ ó t i é]
package clean
