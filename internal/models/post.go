package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostTypePush marks posts derived from GitHub push events.
const PostTypePush = "push"

// Post is a published build-in-public update. Immutable once created.
type Post struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	AuthorID    string             `json:"author_id" bson:"author_id"`
	Description string             `json:"description" bson:"description"`
	Type        string             `json:"type" bson:"type"`
	ImageURL    *string            `json:"image_url" bson:"image_url"`
	VideoURL    *string            `json:"video_url" bson:"video_url"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}
