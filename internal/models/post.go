package models

import (
	"slices"
	"time"

	"github.com/lib/pq"
)

// Post is a blog entry. UpvotedBy and DownvotedBy are the source of truth for
// how a user voted; Upvotes and Downvotes are maintained alongside them.
type Post struct {
	ID          string         `gorm:"primaryKey;type:uuid" bson:"_id" json:"id"`
	Title       string         `gorm:"not null" bson:"title" json:"title"`
	Content     string         `gorm:"type:text;not null" bson:"content" json:"content"`
	AuthorID    string         `gorm:"index;not null" bson:"author_id" json:"author_id"`
	Upvotes     int            `gorm:"default:0" bson:"upvotes" json:"upvotes"`
	Downvotes   int            `gorm:"default:0" bson:"downvotes" json:"downvotes"`
	UpvotedBy   pq.StringArray `gorm:"type:text[]" bson:"upvoted_by" json:"upvoted_by"`
	DownvotedBy pq.StringArray `gorm:"type:text[]" bson:"downvoted_by" json:"downvoted_by"`
	CommentIDs  pq.StringArray `gorm:"type:text[]" bson:"comment_ids" json:"comments"`
	Version     int            `gorm:"not null;default:0" bson:"version" json:"-"`
	CreatedAt   time.Time      `gorm:"index" bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `bson:"updated_at" json:"updated_at"`
}

// ScoredPost is a post with its read-time relevancy score attached.
type ScoredPost struct {
	Post
	RelevancyScore float64 `json:"relevancy_score"`
}

// HasUpvoted reports whether userID is in the upvote set.
func (p *Post) HasUpvoted(userID string) bool {
	return slices.Contains(p.UpvotedBy, userID)
}

// HasDownvoted reports whether userID is in the downvote set.
func (p *Post) HasDownvoted(userID string) bool {
	return slices.Contains(p.DownvotedBy, userID)
}

// Clone returns a deep copy so stores never share slices with callers.
func (p *Post) Clone() *Post {
	cp := *p
	cp.UpvotedBy = slices.Clone(p.UpvotedBy)
	cp.DownvotedBy = slices.Clone(p.DownvotedBy)
	cp.CommentIDs = slices.Clone(p.CommentIDs)
	return &cp
}

// Normalize replaces nil sets with empty ones so they encode as [] rather than null.
func (p *Post) Normalize() {
	if p.UpvotedBy == nil {
		p.UpvotedBy = pq.StringArray{}
	}
	if p.DownvotedBy == nil {
		p.DownvotedBy = pq.StringArray{}
	}
	if p.CommentIDs == nil {
		p.CommentIDs = pq.StringArray{}
	}
}

type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdatePostRequest carries a partial update; nil fields are left untouched.
type UpdatePostRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}
