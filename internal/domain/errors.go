package domain

import "errors"

var (
	// ErrStorageRead indicates the persisted snapshot could not be read or decoded.
	ErrStorageRead = errors.New("storage read failed")
	// ErrStorageWrite indicates the snapshot could not be persisted.
	ErrStorageWrite = errors.New("storage write failed")
	// ErrUnknownMetric indicates a metric type key that is not in the catalog.
	ErrUnknownMetric = errors.New("unknown metric type")
	// ErrInvalidValue indicates a non-finite or unparsable value.
	ErrInvalidValue = errors.New("invalid value")
)
