package skilltree

import "fmt"

// ErrNodeNotFound is returned when a node id does not exist in the catalog.
type ErrNodeNotFound struct {
	ID string
}

func (e *ErrNodeNotFound) Error() string {
	return fmt.Sprintf("node not found: %q", e.ID)
}
