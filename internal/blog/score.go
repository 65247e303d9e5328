package blog

import (
	"sort"
	"time"

	"github.com/emilythestrangee/blog-api/backend/internal/models"
)

const (
	upvoteWeight = 1.5
	ageWeight    = 1.0
	day          = 24 * time.Hour
)

// RelevancyScore rewards upvotes and decays with age in fractional days.
func RelevancyScore(post *models.Post, now time.Time) float64 {
	ageDays := float64(now.Sub(post.CreatedAt)) / float64(day)
	return float64(post.Upvotes)*upvoteWeight - ageDays*ageWeight
}

// Rank scores posts and orders them by descending score. Equal scores keep
// their input order.
func Rank(posts []models.Post, now time.Time) []models.ScoredPost {
	scored := make([]models.ScoredPost, len(posts))
	for i := range posts {
		scored[i] = models.ScoredPost{
			Post:           posts[i],
			RelevancyScore: RelevancyScore(&posts[i], now),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].RelevancyScore > scored[j].RelevancyScore
	})
	return scored
}
