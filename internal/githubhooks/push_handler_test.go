package githubhooks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crax/internal/judge"
	"crax/internal/models"
	"crax/internal/store"
	"crax/internal/summarizer"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

// fakeGen scripts the text-generation collaborator call by call.
type genTurn struct {
	text string
	err  error
}

type fakeGen struct {
	turns []genTurn
	calls int
}

func (f *fakeGen) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if len(f.turns) == 0 {
		return "", errors.New("unexpected generation call")
	}
	turn := f.turns[0]
	f.turns = f.turns[1:]
	return turn.text, turn.err
}

// fakeStore is an in-memory Store double tracking every side effect.
type fakeStore struct {
	profiles map[string]string

	commits []models.Commit
	posts   []models.Post

	resolveCalls int
	insertCalls  int

	insertErr error
	windowErr error
	postErr   error
	attachErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		profiles: map[string]string{"octocat": "user-1"},
	}
}

func (f *fakeStore) ResolveIdentity(ctx context.Context, githubUsername string) (string, error) {
	f.resolveCalls++
	id, ok := f.profiles[githubUsername]
	if !ok {
		return "", store.ErrProfileNotFound
	}
	return id, nil
}

func (f *fakeStore) InsertCommits(ctx context.Context, commits []models.Commit) ([]primitive.ObjectID, error) {
	f.insertCalls++
	if f.insertErr != nil {
		return nil, f.insertErr
	}

	ids := make([]primitive.ObjectID, 0, len(commits))
	for _, commit := range commits {
		commit.ID = primitive.NewObjectID()
		f.commits = append(f.commits, commit)
		ids = append(ids, commit.ID)
	}
	return ids, nil
}

func (f *fakeStore) UnattributedCommits(ctx context.Context, userID string, repositoryID int64, limit int64) ([]models.Commit, error) {
	if f.windowErr != nil {
		return nil, f.windowErr
	}

	var window []models.Commit
	for i := len(f.commits) - 1; i >= 0 && int64(len(window)) < limit; i-- {
		commit := f.commits[i]
		if commit.UserID == userID && commit.RepositoryID == repositoryID && commit.PostID == nil {
			window = append(window, commit)
		}
	}
	return window, nil
}

func (f *fakeStore) CreatePost(ctx context.Context, authorID string, description string) (models.Post, error) {
	if f.postErr != nil {
		return models.Post{}, f.postErr
	}

	post := models.Post{
		ID:          primitive.NewObjectID(),
		AuthorID:    authorID,
		Description: description,
		Type:        models.PostTypePush,
		CreatedAt:   time.Now().UTC(),
	}
	f.posts = append(f.posts, post)
	return post, nil
}

func (f *fakeStore) AttachCommitsToPost(ctx context.Context, commitIDs []primitive.ObjectID, postID primitive.ObjectID) (int64, error) {
	if f.attachErr != nil {
		return 0, f.attachErr
	}

	var linked int64
	for _, id := range commitIDs {
		for i := range f.commits {
			if f.commits[i].ID == id {
				pid := postID
				f.commits[i].PostID = &pid
				linked++
			}
		}
	}
	return linked, nil
}

func (f *fakeStore) UpdateLinkedInData(ctx context.Context, userID string, raw map[string]any) error {
	return nil
}

func (f *fakeStore) ReplaceProjects(ctx context.Context, userID string, projects []models.Project) error {
	return nil
}

func newTestApp(st *fakeStore, gen *fakeGen) *fiber.App {
	app := fiber.New()
	Routes(app, &Handler{
		Secret:     testSecret,
		MainBranch: "refs/heads/main",
		Store:      st,
		Judge:      judge.New(gen),
		Summarizer: summarizer.New(gen),
	})
	return app
}

func pushBody(t *testing.T, ref string, messages ...string) []byte {
	t.Helper()

	commits := make([]map[string]any, 0, len(messages))
	for i, msg := range messages {
		commits = append(commits, map[string]any{
			"id":        primitive.NewObjectID().Hex(),
			"message":   msg,
			"timestamp": time.Date(2024, 5, 1, 10, 0, i, 0, time.UTC).Format(time.RFC3339),
			"added":     []string{"main.go"},
			"removed":   []string{},
			"modified":  []string{},
		})
	}

	body, err := json.Marshal(map[string]any{
		"ref": ref,
		"repository": map[string]any{
			"id":        4242,
			"name":      "crax",
			"private":   false,
			"pushed_at": 1714557600,
			"owner":     map[string]any{"login": "octocat"},
		},
		"sender":  map[string]any{"login": "octocat"},
		"commits": commits,
	})
	require.NoError(t, err)

	return body
}

func sendSigned(t *testing.T, app *fiber.App, body []byte) (*http.Response, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/webhooks/github", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Hub-Signature-256", ComputeSignature(testSecret, body))

	resp, err := app.Test(req, fiber.TestConfig{Timeout: 0, FailOnTimeout: false})
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(raw, &parsed))

	return resp, parsed
}

func TestPushMissingSignature(t *testing.T) {
	st := newFakeStore()
	app := newTestApp(st, &fakeGen{})

	body := pushBody(t, "refs/heads/main", "add auth system")
	req := httptest.NewRequest(http.MethodPost, "/webhooks/github", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, fiber.TestConfig{Timeout: 0, FailOnTimeout: false})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, st.resolveCalls)
}

func TestPushInvalidSignature(t *testing.T) {
	st := newFakeStore()
	app := newTestApp(st, &fakeGen{})

	body := pushBody(t, "refs/heads/main", "add auth system")
	req := httptest.NewRequest(http.MethodPost, "/webhooks/github", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Hub-Signature-256", ComputeSignature("wrong-secret", body))

	resp, err := app.Test(req, fiber.TestConfig{Timeout: 0, FailOnTimeout: false})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, st.resolveCalls)
	assert.Empty(t, st.commits)
}

func TestPushSecretNotConfigured(t *testing.T) {
	app := fiber.New()
	Routes(app, &Handler{
		Secret:     "",
		MainBranch: "refs/heads/main",
		Store:      newFakeStore(),
		Judge:      judge.New(&fakeGen{}),
		Summarizer: summarizer.New(&fakeGen{}),
	})

	body := pushBody(t, "refs/heads/main", "add auth system")
	req := httptest.NewRequest(http.MethodPost, "/webhooks/github", bytes.NewReader(body))
	req.Header.Set("X-Hub-Signature-256", ComputeSignature(testSecret, body))

	resp, err := app.Test(req, fiber.TestConfig{Timeout: 0, FailOnTimeout: false})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestPushWrongBranchSkips(t *testing.T) {
	st := newFakeStore()
	gen := &fakeGen{}
	app := newTestApp(st, gen)

	resp, parsed := sendSigned(t, app, pushBody(t, "refs/heads/develop", "wip"))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, parsed["message"], "Skipped")
	assert.Equal(t, "refs/heads/develop", parsed["ref"])

	// Intentional skip: no store calls, no generation calls.
	assert.Zero(t, st.resolveCalls)
	assert.Zero(t, st.insertCalls)
	assert.Zero(t, gen.calls)
}

func TestPushPrivateRepositorySkipsWhenPolicyEnabled(t *testing.T) {
	st := newFakeStore()
	app := fiber.New()
	Routes(app, &Handler{
		Secret:      testSecret,
		MainBranch:  "refs/heads/main",
		SkipPrivate: true,
		Store:       st,
		Judge:       judge.New(&fakeGen{}),
		Summarizer:  summarizer.New(&fakeGen{}),
	})

	body := pushBody(t, "refs/heads/main", "secret work")
	body = bytes.Replace(body, []byte(`"private":false`), []byte(`"private":true`), 1)

	resp, parsed := sendSigned(t, app, body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, parsed["message"], "Skipped")
	assert.Zero(t, st.insertCalls)
}

func TestPushNoCommits(t *testing.T) {
	st := newFakeStore()
	app := newTestApp(st, &fakeGen{})

	resp, parsed := sendSigned(t, app, pushBody(t, "refs/heads/main"))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "No commits found in push event", parsed["message"])
	assert.Zero(t, st.insertCalls)
}

func TestPushMissingSenderLogin(t *testing.T) {
	st := newFakeStore()
	app := newTestApp(st, &fakeGen{})

	body := pushBody(t, "refs/heads/main", "add auth system")
	body = bytes.Replace(body, []byte(`"sender":{"login":"octocat"}`), []byte(`"sender":{"login":""}`), 1)

	resp, _ := sendSigned(t, app, body)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, st.insertCalls)
}

func TestPushUnknownSender(t *testing.T) {
	st := newFakeStore()
	app := newTestApp(st, &fakeGen{})

	body := pushBody(t, "refs/heads/main", "add auth system")
	body = bytes.Replace(body, []byte(`"sender":{"login":"octocat"}`), []byte(`"sender":{"login":"stranger"}`), 1)

	resp, parsed := sendSigned(t, app, body)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, parsed["message"], "stranger")

	// Terminal rejection: zero commits stored, zero posts created.
	assert.Empty(t, st.commits)
	assert.Empty(t, st.posts)
}

func TestPushStoredWithoutPost(t *testing.T) {
	st := newFakeStore()
	gen := &fakeGen{turns: []genTurn{
		{text: `{"should_post": false, "reasoning": "minor fix"}`},
	}}
	app := newTestApp(st, gen)

	resp, parsed := sendSigned(t, app, pushBody(t, "refs/heads/main", "fix typo"))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Commits stored but no post created", parsed["message"])
	assert.Equal(t, "minor fix", parsed["reasoning"])
	assert.Equal(t, float64(1), parsed["commits_stored"])

	require.Len(t, st.commits, 1)
	assert.Nil(t, st.commits[0].PostID)
	assert.Empty(t, st.posts)
}

func TestPushCreatesPost(t *testing.T) {
	st := newFakeStore()
	gen := &fakeGen{turns: []genTurn{
		{text: "```json\n{\"should_post\": true, \"reasoning\": \"significant feature work\"}\n```"},
		{text: "Shipped a full auth system today, tests and all."},
	}}
	app := newTestApp(st, gen)

	resp, parsed := sendSigned(t, app,
		pushBody(t, "refs/heads/main", "add auth system", "add tests", "fix auth bug"))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Post created successfully", parsed["message"])
	assert.Equal(t, "Shipped a full auth system today, tests and all.", parsed["content"])
	assert.Equal(t, "significant feature work", parsed["reasoning"])
	assert.Equal(t, float64(3), parsed["commits_processed"])
	assert.Equal(t, float64(3), parsed["commits_linked"])
	assert.NotEmpty(t, parsed["post_id"])

	require.Len(t, st.posts, 1)
	assert.Equal(t, st.posts[0].ID.Hex(), parsed["post_id"])
	assert.Equal(t, "user-1", st.posts[0].AuthorID)

	// Every pushed commit carries the new post's id.
	require.Len(t, st.commits, 3)
	for _, commit := range st.commits {
		require.NotNil(t, commit.PostID)
		assert.Equal(t, st.posts[0].ID, *commit.PostID)
	}
}

func TestPushStoreFailure(t *testing.T) {
	st := newFakeStore()
	st.insertErr = errors.New("connection reset")
	app := newTestApp(st, &fakeGen{})

	resp, _ := sendSigned(t, app, pushBody(t, "refs/heads/main", "add auth system"))

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Empty(t, st.posts)
}

func TestPushSummarizerFailure(t *testing.T) {
	st := newFakeStore()
	gen := &fakeGen{turns: []genTurn{
		{text: `{"should_post": true, "reasoning": "worth posting"}`},
		{err: errors.New("model overloaded")},
	}}
	app := newTestApp(st, gen)

	resp, parsed := sendSigned(t, app, pushBody(t, "refs/heads/main", "add auth system"))

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, parsed["message"], "failed to generate post summary")

	// Commits stay stored and unattributed; no post row exists.
	require.Len(t, st.commits, 1)
	assert.Nil(t, st.commits[0].PostID)
	assert.Empty(t, st.posts)
}

func TestPushJudgeFailureStoresOnly(t *testing.T) {
	st := newFakeStore()
	gen := &fakeGen{turns: []genTurn{
		{err: errors.New("model unavailable")},
	}}
	app := newTestApp(st, gen)

	resp, parsed := sendSigned(t, app, pushBody(t, "refs/heads/main", "add auth system"))

	// Judge failures fail closed: ingestion still succeeds.
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Commits stored but no post created", parsed["message"])
	assert.Contains(t, parsed["reasoning"], "model unavailable")
	require.Len(t, st.commits, 1)
	assert.Empty(t, st.posts)
}
