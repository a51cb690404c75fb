package model

import "time"

// Article is a wellness article served read-only to the client.
type Article struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Title       string    `json:"title" bson:"title"`
	Summary     string    `json:"summary" bson:"summary"`
	Body        string    `json:"body" bson:"body"`
	Tags        []string  `json:"tags,omitempty" bson:"tags,omitempty"`
	PublishedAt time.Time `json:"publishedAt" bson:"publishedAt"`
}

// Post is a community post written by a user.
type Post struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	UserID    string    `json:"userId" bson:"userId"`
	Author    string    `json:"author" bson:"author"` // display name snapshot
	Body      string    `json:"body" bson:"body"`
	Likes     int       `json:"likes" bson:"likes"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
