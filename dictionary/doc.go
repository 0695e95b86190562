// Package dictionary maps tokens to 1-based integer indices and back.
//
// A Dictionary is built once (from a file or by sequential insertion) and is
// read-only afterwards, so it is safe to share between goroutines.
//
// # File Format
//
// One entry per line, either a bare token or a token followed by an explicit
// index:
//
//	a
//	b 7
//	c
//
// Bare tokens receive MaxIndex()+1, so the example above maps a→1, b→7, c→8.
//
// # Collapsing
//
// Collapse derives a dictionary where allophone tokens share the index of a
// canonical token. TIMIT39 is the standard 61→39 phone folding table:
//
//	dict, _ := dictionary.Load("phones.tkn")
//	folded, _ := dict.Collapse(dictionary.TIMIT39)
package dictionary
