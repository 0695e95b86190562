package conv

import (
	"fmt"
	"math"
)

// OverflowError reports a value that does not fit the target type.
type OverflowError struct {
	Value  int64
	Target string
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("integer overflow: %d cannot be converted to %s", e.Value, e.Target)
}

// IntToUint32 converts int to uint32 safely.
func IntToUint32(v int) (uint32, error) {
	if v < 0 || uint64(v) > math.MaxUint32 {
		return 0, &OverflowError{Value: int64(v), Target: "uint32"}
	}
	return uint32(v), nil
}

// Int64ToInt converts int64 to a non-negative int safely.
func Int64ToInt(v int64) (int, error) {
	if v < 0 || uint64(v) > uint64(math.MaxInt) {
		return 0, &OverflowError{Value: v, Target: "int"}
	}
	return int(v), nil
}
