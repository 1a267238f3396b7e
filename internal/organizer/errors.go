package organizer

import (
	"errors"
	"fmt"
)

var (
	// ErrLoad marks input that could not be parsed as a document.
	ErrLoad = errors.New("document could not be loaded")
	// ErrDeleteRejected is returned when a delete would remove every page.
	ErrDeleteRejected = errors.New("cannot delete every page")
	// ErrMaterialize marks a failure while building the output document.
	ErrMaterialize = errors.New("document could not be generated")
	// ErrEmpty is returned when there is nothing to materialize.
	ErrEmpty = errors.New("session has no pages")
	// ErrUnknownEntry is returned for entry IDs that are not in the session.
	ErrUnknownEntry = errors.New("unknown page")
	// ErrSourceMissing is returned when an entry's source document is gone.
	ErrSourceMissing = errors.New("source document is no longer available")
	// ErrUnknownSession is returned by the registry for unknown session IDs.
	ErrUnknownSession = errors.New("unknown session")
)

// LoadError reports why a named input could not be loaded.
type LoadError struct {
	Name string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%v: %v", ErrLoad, e.Err)
	}
	return fmt.Sprintf("%v: %s: %v", ErrLoad, e.Name, e.Err)
}

func (e *LoadError) Unwrap() []error { return []error{ErrLoad, e.Err} }

// MaterializeError reports the entry whose page could not be resolved, if
// any, and the underlying failure.
type MaterializeError struct {
	Entry string
	Err   error
}

func (e *MaterializeError) Error() string {
	if e.Entry == "" {
		return fmt.Sprintf("%v: %v", ErrMaterialize, e.Err)
	}
	return fmt.Sprintf("%v: page %s: %v", ErrMaterialize, e.Entry, e.Err)
}

func (e *MaterializeError) Unwrap() []error { return []error{ErrMaterialize, e.Err} }
