package drive

import "fmt"

// Catalog is an ordered collection of remote resources built from one listing
// pass. It is expected to be built once per session and looked up many times.
type Catalog []Resource

// Resolve returns the id of the first entry whose name matches exactly
// (case-sensitive), in catalog order. It returns the empty sentinel id when
// no entry matches; resolution never fails with an error, callers must check
// for the sentinel.
func (c Catalog) Resolve(name string) string {
	for _, r := range c {
		if r.Name == name {
			return r.ID
		}
	}
	return ""
}

// Names returns the display names of all entries in catalog order.
func (c Catalog) Names() []string {
	names := make([]string, len(c))
	for i, r := range c {
		names[i] = r.Name
	}
	return names
}

// ListError reports a failed page request while building a catalog. Listing
// has no partial-result recovery: the first failed page aborts the whole
// operation.
type ListError struct {
	Scope ListScope
	Page  int
	Err   error
}

func (e *ListError) Error() string {
	return fmt.Sprintf("failed to list %s (page %d): %v", e.Scope, e.Page, e.Err)
}

func (e *ListError) Unwrap() error {
	return e.Err
}
