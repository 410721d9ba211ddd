package trajectory

import (
	"errors"
	"fmt"
)

var (
	// ErrNoContours is returned when there are no points to normalize
	ErrNoContours = errors.New("no contours found")

	// ErrDegenerate is returned when every point coincides with the centroid
	ErrDegenerate = errors.New("degenerate point set")

	// ErrInvalidStride is returned for a subsample stride below one
	ErrInvalidStride = errors.New("invalid subsample stride")
)

// ErrInvalidRadius reports a target radius that cannot be scaled to
type ErrInvalidRadius struct {
	radius float64
}

func (e ErrInvalidRadius) Error() string {
	return fmt.Sprintf("target radius %v must be positive", e.radius)
}
