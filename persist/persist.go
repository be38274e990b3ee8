// Package persist stores named collections wholesale as JSON-compatible values.
package persist

import "context"

// Collection names.
const (
	Resources = "resources"
	Reviews   = "reviews"
	Bookmarks = "bookmarks"
	Users     = "users"
)

// Persister reads and writes whole collections. Save replaces whatever was
// stored under name before.
type Persister interface {
	// Load decodes the collection into v. found is false when the collection
	// was never saved.
	Load(ctx context.Context, name string, v any) (found bool, err error)
	Save(ctx context.Context, name string, v any) error
}
