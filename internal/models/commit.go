package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Commit captures one push-event commit attributed to a Crax profile.
// PostID stays null until exactly one post claims the commit.
type Commit struct {
	ID              primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	UserID          string              `json:"user_id" bson:"user_id"`
	RepositoryID    int64               `json:"repository_id" bson:"repository_id"`
	RepositoryName  string              `json:"repository_name" bson:"repository_name"`
	RepositoryOwner string              `json:"repository_owner" bson:"repository_owner"`
	CommitID        string              `json:"commit_id" bson:"commit_id"`
	Message         string              `json:"message" bson:"message"`
	CommittedAt     *time.Time          `json:"committed_at" bson:"committed_at"`
	PushedAt        *time.Time          `json:"pushed_at" bson:"pushed_at"`
	AddedFiles      []string            `json:"added_files" bson:"added_files"`
	RemovedFiles    []string            `json:"removed_files" bson:"removed_files"`
	ModifiedFiles   []string            `json:"modified_files" bson:"modified_files"`
	PostID          *primitive.ObjectID `json:"post_id" bson:"post_id"`
}
