package weight

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidDimension reports a dimension count the sequence generator
	// cannot serve, or an empty basis parameter set.
	ErrInvalidDimension = errors.New("invalid dimension")
	// ErrInconsistentTrackCount reports disagreeing track counts between
	// basis arrays, track ids, hit counts or weights.
	ErrInconsistentTrackCount = errors.New("inconsistent track count")
	// ErrDegenerateWeights reports a run with zero assigned points.
	ErrDegenerateWeights = errors.New("degenerate weights: no oversampled points assigned")
	// ErrSeedExhausted reports a seed past the last representable Sobol point.
	ErrSeedExhausted = errors.New("sobol seed exhausted")
	// ErrNonFiniteParameter reports a NaN or infinite basis parameter value.
	ErrNonFiniteParameter = errors.New("non-finite basis parameter")
	// ErrInvalidTrackID reports an empty track id or two ids stored under the
	// same track group.
	ErrInvalidTrackID = errors.New("invalid track id")
	// ErrStorageWrite is matched by every *StorageWriteError.
	ErrStorageWrite = errors.New("storage write failed")
)

// StorageWriteError reports a failed write and the tracks whose weight was
// already committed before it, so a retry can be scoped to the remainder.
type StorageWriteError struct {
	Path    string   // path whose write failed
	Updated []string // track ids written successfully, in write order
	Err     error
}

func (e *StorageWriteError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v: %s: %v", ErrStorageWrite, e.Path, e.Err)
	fmt.Fprintf(&b, " (%d tracks updated before failure", len(e.Updated))
	if len(e.Updated) > 0 {
		fmt.Fprintf(&b, ", last %s", e.Updated[len(e.Updated)-1])
	}
	b.WriteString(")")
	return b.String()
}

// Unwrap exposes both ErrStorageWrite and the underlying storage error.
func (e *StorageWriteError) Unwrap() []error {
	return []error{ErrStorageWrite, e.Err}
}
