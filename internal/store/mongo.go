package store

import (
	"context"
	"fmt"
	"time"

	"crax/internal/logger"
	"crax/internal/models"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Mongo implements Store over the crax collections. Cache is optional; when
// present it fronts identity lookups so repeated pushes from the same user
// skip the profiles query.
type Mongo struct {
	Profiles *mongo.Collection
	Commits  *mongo.Collection
	Posts    *mongo.Collection
	Projects *mongo.Collection
	Cache    *redis.Client
}

const identityCachePrefix = "profile:github:"

func (m *Mongo) ResolveIdentity(ctx context.Context, githubUsername string) (string, error) {
	githubURL := "https://github.com/" + githubUsername

	if m.Cache != nil {
		cached, err := m.Cache.Get(ctx, identityCachePrefix+githubURL).Result()
		if err == nil && cached != "" {
			return cached, nil
		}
		if err != nil && err != redis.Nil {
			logger.Warn("identity cache read failed", zap.Error(err))
		}
	}

	var row struct {
		ID string `bson:"_id"`
	}
	err := m.Profiles.FindOne(ctx, bson.M{"github_url": githubURL}).Decode(&row)
	if err == mongo.ErrNoDocuments {
		return "", ErrProfileNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve identity for %s: %w", githubUsername, err)
	}

	if m.Cache != nil {
		if err := m.Cache.Set(ctx, identityCachePrefix+githubURL, row.ID, 0).Err(); err != nil {
			logger.Warn("identity cache write failed", zap.Error(err))
		}
	}

	return row.ID, nil
}

func (m *Mongo) InsertCommits(ctx context.Context, commits []models.Commit) ([]primitive.ObjectID, error) {
	if len(commits) == 0 {
		return nil, ErrNothingInserted
	}

	docs := make([]interface{}, len(commits))
	for i, commit := range commits {
		docs[i] = commit
	}

	result, err := m.Commits.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if err != nil {
		return nil, fmt.Errorf("failed to store commits: %w", err)
	}
	if len(result.InsertedIDs) == 0 {
		return nil, ErrNothingInserted
	}

	ids := make([]primitive.ObjectID, 0, len(result.InsertedIDs))
	for _, raw := range result.InsertedIDs {
		id, ok := raw.(primitive.ObjectID)
		if !ok {
			return nil, fmt.Errorf("unexpected inserted id type %T", raw)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func (m *Mongo) UnattributedCommits(ctx context.Context, userID string, repositoryID int64, limit int64) ([]models.Commit, error) {
	filter := bson.M{
		"user_id":       userID,
		"repository_id": repositoryID,
		"post_id":       nil,
	}

	// Descending sort puts null committed_at values last, which keeps
	// commits with unknown timestamps out of the judged window head.
	opts := options.Find().
		SetSort(bson.D{{Key: "committed_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := m.Commits.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unattributed commits: %w", err)
	}
	defer cursor.Close(ctx)

	var commits []models.Commit
	if err := cursor.All(ctx, &commits); err != nil {
		return nil, fmt.Errorf("failed to decode unattributed commits: %w", err)
	}

	return commits, nil
}

func (m *Mongo) CreatePost(ctx context.Context, authorID string, description string) (models.Post, error) {
	post := models.Post{
		AuthorID:    authorID,
		Description: description,
		Type:        models.PostTypePush,
		CreatedAt:   time.Now().UTC(),
	}

	result, err := m.Posts.InsertOne(ctx, post)
	if err != nil {
		return models.Post{}, fmt.Errorf("%w: %v", ErrPostNotCreated, err)
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return models.Post{}, ErrPostNotCreated
	}
	post.ID = id

	return post, nil
}

func (m *Mongo) AttachCommitsToPost(ctx context.Context, commitIDs []primitive.ObjectID, postID primitive.ObjectID) (int64, error) {
	if len(commitIDs) == 0 {
		return 0, nil
	}

	result, err := m.Commits.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": commitIDs}},
		bson.M{"$set": bson.M{"post_id": postID}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to link commits to post: %w", err)
	}

	return result.ModifiedCount, nil
}

func (m *Mongo) UpdateLinkedInData(ctx context.Context, userID string, raw map[string]any) error {
	result, err := m.Profiles.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"linkedin_data_raw": raw}},
	)
	if err != nil {
		return fmt.Errorf("failed to update linkedin data: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrProfileNotFound
	}

	return nil
}

func (m *Mongo) ReplaceProjects(ctx context.Context, userID string, projects []models.Project) error {
	if _, err := m.Projects.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return fmt.Errorf("failed to clear projects: %w", err)
	}

	docs := make([]interface{}, len(projects))
	for i, project := range projects {
		project.UserID = userID
		docs[i] = project
	}

	result, err := m.Projects.InsertMany(ctx, docs)
	if err != nil {
		return fmt.Errorf("failed to store projects: %w", err)
	}
	if len(result.InsertedIDs) == 0 {
		return ErrNothingInserted
	}

	return nil
}
