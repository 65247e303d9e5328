package models

import "time"

type User struct {
	ID        string    `gorm:"primaryKey;type:uuid" bson:"_id" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" bson:"username" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" bson:"email" json:"email"`
	Password  string    `gorm:"not null" bson:"password" json:"-"` // bcrypt hash
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Username string `json:"username" binding:"required,min=3,max=50"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}
