// Package conv provides checked integer conversions for values that come from
// storage, such as blob sizes and example counts.
package conv
