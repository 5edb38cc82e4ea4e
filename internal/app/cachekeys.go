package app

import (
	"context"

	"bena_places/internal/domain"
)

const categoriesKey = "categories"

func placeKey(id string) string { return "place:" + id }

// invalidate drops cached reads after a write so the API does not serve a stale row.
func invalidate(ctx context.Context, c domain.Cache, keys ...string) {
	if c == nil {
		return
	}
	for _, k := range keys {
		_ = c.Del(ctx, k)
	}
}
