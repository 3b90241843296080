package utils

import "github.com/gosimple/slug"

// ToSlug derives a URL-safe identifier from a display name. Slugs are
// computed at creation time and never recomputed on rename.
func ToSlug(name string) string {
	return slug.Make(name)
}
