package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Record sources and the record
// store return these (optionally wrapped) so services can translate them into
// domain errors.
//
//   - ErrNotFound: the backing document does not exist at the source
//   - ErrUnavailable: the source could not be reached or answered badly
//   - ErrNotLoaded: the record store has not finished its initial load
//   - ErrAlreadyLoaded: the record store was asked to load a second time
var (
	ErrNotFound      = errors.New("not found")
	ErrUnavailable   = errors.New("unavailable")
	ErrNotLoaded     = errors.New("not loaded")
	ErrAlreadyLoaded = errors.New("already loaded")
)
