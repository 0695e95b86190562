package source

import "fmt"

// MissingDirectoryError is returned when a data directory does not exist or
// holds no input blobs.
type MissingDirectoryError struct {
	Path string
}

func (e *MissingDirectoryError) Error() string {
	return fmt.Sprintf("data directory %q is missing or empty", e.Path)
}

// MissingExampleError is returned when an example id in 1..N has no blob for
// a required field.
type MissingExampleError struct {
	ID    int
	Field string
}

func (e *MissingExampleError) Error() string {
	return fmt.Sprintf("example %d has no %q blob", e.ID, e.Field)
}
