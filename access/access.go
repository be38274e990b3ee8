// Package access decides who may open or download a resource.
package access

import "campus_share/models"

// CanView reports whether viewer may see the contents of r. Public resources
// are visible to everyone, including anonymous viewers (nil). Private resources
// are visible only to signed-in users of the author's college.
func CanView(r models.Resource, viewer *models.Identity) bool {
	if r.Privacy != models.PrivacyPrivate {
		return true
	}
	if viewer == nil || viewer.College == "" {
		return false
	}
	return viewer.College == r.AuthorCollege
}

// Visible keeps the resources viewer may open, preserving order.
func Visible(rs []models.Resource, viewer *models.Identity) []models.Resource {
	out := make([]models.Resource, 0, len(rs))
	for _, r := range rs {
		if CanView(r, viewer) {
			out = append(out, r)
		}
	}
	return out
}
