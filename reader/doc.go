// Package reader decodes the per-field blobs of an example.
//
// Each field of an example lives in its own blob. A FieldReader turns the blob
// bytes into the value stored in the example record:
//
//   - Features: little-endian float32 frames, optionally zstd or lz4 framed,
//     decoded into a *dataset.Sequence
//   - Tokens: whitespace-separated tokens encoded through a dictionary
//   - Scalar: a decimal number
//   - Text: raw UTF-8, trimmed
//
// Compression is detected from the frame magic, so compressed and raw blobs
// can be mixed within one directory.
package reader
