package models

import "time"

type Comment struct {
	ID        string    `gorm:"primaryKey;type:uuid" bson:"_id" json:"id"`
	PostID    string    `gorm:"index;not null" bson:"post_id" json:"blog"`
	AuthorID  string    `gorm:"index;not null" bson:"author_id" json:"author_id"`
	Text      string    `gorm:"type:text;not null" bson:"text" json:"text"`
	PostedOn  time.Time `bson:"posted_on" json:"posted_on"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

type CreateCommentRequest struct {
	Text string `json:"text"`
}
