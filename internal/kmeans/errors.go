package kmeans

import "errors"

var (
	// ErrInvalidArgument is returned for k < 1, k greater than the number of
	// points, mismatched dimensions and similar contract violations.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrEmptySet is returned when a centroid is requested for zero points.
	ErrEmptySet = errors.New("centroid of empty set")
)
