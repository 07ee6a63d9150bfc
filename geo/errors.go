package geo

import "errors"

// ErrInvalidGeometry is returned for polygons the core refuses to guess
// about: NaN or infinite coordinates.
var ErrInvalidGeometry = errors.New("invalid geometry")
