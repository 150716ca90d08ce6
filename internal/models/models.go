package models

import "time"

// Role names as granted to users and embedded in tokens.
const (
	RoleUser      = "USER"
	RoleModerator = "MODERATOR"
	RoleAdmin     = "ADMIN"
)

type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	Bio            string    `json:"bio"`
	ProfilePicture string    `json:"profile_picture"`
	Created        time.Time `json:"created_at"`
	Updated        time.Time `json:"updated_at"`
}

type Post struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ViewCount int64     `json:"view_count"`
	LikeCount int64     `json:"like_count"`
	Created   time.Time `json:"created_at"`
	Updated   time.Time `json:"updated_at"`
}

type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	LikeCount int64     `json:"like_count"`
	Created   time.Time `json:"created_at"`
	Updated   time.Time `json:"updated_at"`
}

// Subscription is a directed follow edge: subscriber follows target.
// A follow in one direction implies nothing about the other.
type Subscription struct {
	SubscriberID string `json:"subscriber_id"`
	TargetID     string `json:"target_id"`
}
