package models

// Bookmarks is a set of resource ids marked by one user, kept in insertion order.
type Bookmarks struct {
	ids []string
}

func NewBookmarks(ids ...string) *Bookmarks {
	b := &Bookmarks{}
	for _, id := range ids {
		if !b.Has(id) {
			b.ids = append(b.ids, id)
		}
	}
	return b
}

func (b *Bookmarks) Has(id string) bool {
	for _, v := range b.ids {
		if v == id {
			return true
		}
	}
	return false
}

// Toggle flips membership of id and reports whether it is now bookmarked.
func (b *Bookmarks) Toggle(id string) bool {
	for i, v := range b.ids {
		if v == id {
			b.ids = append(b.ids[:i], b.ids[i+1:]...)
			return false
		}
	}
	b.ids = append(b.ids, id)
	return true
}

// Remove drops id and reports whether it was present.
func (b *Bookmarks) Remove(id string) bool {
	for i, v := range b.ids {
		if v == id {
			b.ids = append(b.ids[:i], b.ids[i+1:]...)
			return true
		}
	}
	return false
}

func (b *Bookmarks) IDs() []string {
	return append([]string(nil), b.ids...)
}

func (b *Bookmarks) Len() int {
	return len(b.ids)
}
