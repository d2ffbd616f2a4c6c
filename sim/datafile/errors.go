package datafile

import "errors"

// Errors returned by the file layer. Callers match them with errors.Is.
var (
	ErrMisalignedSize = errors.New("datafile: size is not a multiple of 8 bytes")
	ErrNonFinite      = errors.New("datafile: value is NaN or infinite")
	ErrEmpty          = errors.New("datafile: no values")
	ErrUnknownDigest  = errors.New("datafile: unknown digest algorithm")
)
