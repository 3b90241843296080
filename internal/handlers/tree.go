package handlers

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/thaihana/internal/models"
)

// maxCategoryDepth caps the descendant traversal: the seed sits at depth 0
// and nodes at depth 5 are visited but never expanded.
const maxCategoryDepth = 5

// childLookup returns the ids of categories whose parent is in the given set.
type childLookup func(parents []uuid.UUID) ([]uuid.UUID, error)

// descendantIDs walks the parent→child relation breadth-first from the seed,
// one generation per step, stopping at the depth cap. The visited set makes
// the walk terminate on cyclic or self-referential parent data.
func descendantIDs(seed uuid.UUID, children childLookup) ([]uuid.UUID, error) {
	visited := map[uuid.UUID]struct{}{seed: {}}
	result := []uuid.UUID{seed}
	frontier := []uuid.UUID{seed}

	for depth := 0; depth < maxCategoryDepth && len(frontier) > 0; depth++ {
		found, err := children(frontier)
		if err != nil {
			return nil, err
		}

		var next []uuid.UUID
		for _, id := range found {
			if _, seen := visited[id]; seen {
				continue
			}
			visited[id] = struct{}{}
			next = append(next, id)
		}

		result = append(result, next...)
		frontier = next
	}

	return result, nil
}

// categoryChildren is the database-backed child lookup.
func categoryChildren(db *gorm.DB) childLookup {
	return func(parents []uuid.UUID) ([]uuid.UUID, error) {
		var ids []uuid.UUID
		err := db.Model(&models.Category{}).
			Where("parent_id IN ?", parents).
			Pluck("id", &ids).Error
		return ids, err
	}
}
