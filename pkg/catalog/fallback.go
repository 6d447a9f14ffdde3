package catalog

import (
	"github.com/example/storefront/pkg/models"
)

// FallbackProducts returns the hardcoded sample catalog served while the
// backend is unreachable. Orders against these products will not go through;
// the UI badges them as offline data.
func FallbackProducts() []models.Product {
	return []models.Product{
		{
			ID:          "offline-boost-1",
			Name:        "Rank Boost (Bronze to Silver)",
			Category:    "boosting",
			Price:       15,
			Stock:       10,
			Description: "Sample item shown while the store is offline.",
		},
		{
			ID:          "offline-coach-1",
			Name:        "Coaching Session (1 hour)",
			Category:    "coaching",
			Price:       25,
			Stock:       5,
			Description: "Sample item shown while the store is offline.",
		},
		{
			ID:          "offline-acc-1",
			Name:        "Starter Account",
			Category:    "accounts",
			Price:       40,
			Stock:       3,
			Description: "Sample item shown while the store is offline.",
		},
	}
}
