// Package store defines the persistence surface the webhook orchestrator
// and processor handlers consume. Handlers receive a Store explicitly so
// tests can substitute in-memory doubles.
package store

import (
	"context"
	"errors"

	"crax/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrProfileNotFound means no profile row matched the identity lookup.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrNothingInserted reports an insert that wrote zero rows.
	ErrNothingInserted = errors.New("no rows inserted")
	// ErrPostNotCreated reports a post insert that returned no row.
	ErrPostNotCreated = errors.New("failed to create post")
)

// Store is the persistence collaborator for commit ingestion and the
// companion scraper processors.
type Store interface {
	// ResolveIdentity maps a GitHub username to the internal profile ID by
	// exact match on the stored GitHub URL. Unknown identities return
	// ErrProfileNotFound; they are never provisioned on the fly.
	ResolveIdentity(ctx context.Context, githubUsername string) (string, error)

	// InsertCommits persists the push's commits all-or-nothing and returns
	// the new commit IDs.
	InsertCommits(ctx context.Context, commits []models.Commit) ([]primitive.ObjectID, error)

	// UnattributedCommits returns commits with a null post_id for one
	// user+repository pair, newest committed_at first, capped at limit.
	UnattributedCommits(ctx context.Context, userID string, repositoryID int64, limit int64) ([]models.Commit, error)

	// CreatePost inserts a push-type post authored by the given profile.
	CreatePost(ctx context.Context, authorID string, description string) (models.Post, error)

	// AttachCommitsToPost sets post_id on the given commits and reports how
	// many rows changed. Linking is best-effort; callers log mismatches.
	AttachCommitsToPost(ctx context.Context, commitIDs []primitive.ObjectID, postID primitive.ObjectID) (int64, error)

	// UpdateLinkedInData stores a scraped LinkedIn payload on the profile.
	UpdateLinkedInData(ctx context.Context, userID string, raw map[string]any) error

	// ReplaceProjects swaps the profile's stored Devpost projects.
	ReplaceProjects(ctx context.Context, userID string, projects []models.Project) error
}
