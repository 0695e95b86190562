package iterator

import "fmt"

// WorkerConstructionError is returned when a worker fails to build its
// pipeline instance.
type WorkerConstructionError struct {
	Worker int
	Err    error
}

func (e *WorkerConstructionError) Error() string {
	return fmt.Sprintf("worker %d: construct pipeline: %v", e.Worker, e.Err)
}

func (e *WorkerConstructionError) Unwrap() error {
	return e.Err
}
