package memory

import (
	"fmt"
	"sort"
)

func errNoEntity(kind string, id int64) error {
	return fmt.Errorf("no %s with ID %d", kind, id)
}

// sortByID keeps listings in creation order, giving callers a stable
// secondary ordering the way the remote store's primary keys do.
func sortByID[E any](items []E, id func(E) int64) {
	sort.Slice(items, func(i, j int) bool { return id(items[i]) < id(items[j]) })
}
