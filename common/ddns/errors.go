package ddns

import (
	"errors"
	"fmt"
)

// Error kinds shared by the resolver, the provider client and the cache store.
// Concrete errors wrap one of them, test with errors.Is.
var (
	ErrNetwork  = errors.New("network error")
	ErrAuth     = errors.New("credential rejected")
	ErrNotFound = errors.New("no A record found")
	ErrFormat   = errors.New("malformed address")
	ErrProvider = errors.New("provider error")
	ErrStorage  = errors.New("storage error")
)

// Kind returns the error kind wrapped by err, or nil.
func Kind(err error) error {
	for _, k := range []error{ErrNetwork, ErrAuth, ErrNotFound, ErrFormat, ErrProvider, ErrStorage} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// RecordError reports a failed operation on one record.
type RecordError struct {
	Name string
	Op   string
	Err  error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("[%s] %s: %v", e.Name, e.Op, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
