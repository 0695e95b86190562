// Package resource bounds the cost of blob reads.
//
// A Controller governs three resources:
//
//   - Read slots: a weighted semaphore capping concurrent blob reads, so that
//     many loader workers do not exhaust file descriptors or object-store
//     connections.
//   - IO bandwidth: a token bucket limiting bytes per second.
//   - Memory: fail-fast accounting for cached blob bytes.
//
//	rc := resource.NewController(resource.Config{
//	    MaxConcurrentReads: 32,
//	    IOLimitBytesPerSec: 200 << 20,
//	})
//
//	if err := rc.AcquireRead(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseRead()
//
// All methods are safe for concurrent use, and a nil *Controller is a valid
// controller without limits.
package resource
