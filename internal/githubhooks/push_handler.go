package githubhooks

import (
	"context"
	"encoding/json"
	"strings"

	"crax/internal/errmsg"
	"crax/internal/events"
	"crax/internal/judge"
	"crax/internal/logger"
	"crax/internal/models"
	"crax/internal/store"
	"crax/internal/summarizer"
	"crax/internal/timestamp"
	"crax/internal/utils"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const signatureHeader = "X-Hub-Signature-256"

// judgeWindowSize caps how many unattributed commits are shown to the judge.
const judgeWindowSize = 10

// Handler runs the push-webhook state machine. All collaborators are
// injected; the handler never reaches into process-wide clients.
type Handler struct {
	Secret      string
	MainBranch  string
	SkipPrivate bool

	Store      store.Store
	Judge      *judge.Judge
	Summarizer *summarizer.Summarizer
}

// pushPayload models just the fields the pipeline relies on.
type pushPayload struct {
	Ref        string `json:"ref"`
	Repository struct {
		ID       int64 `json:"id"`
		Name     string `json:"name"`
		Private  bool   `json:"private"`
		PushedAt any    `json:"pushed_at"`
		Owner    struct {
			Name  string `json:"name"`
			Login string `json:"login"`
		} `json:"owner"`
	} `json:"repository"`
	Sender struct {
		Login string `json:"login"`
	} `json:"sender"`
	Commits []pushCommit `json:"commits"`
}

type pushCommit struct {
	ID        string   `json:"id"`
	Message   string   `json:"message"`
	Timestamp any      `json:"timestamp"`
	Added     []string `json:"added"`
	Removed   []string `json:"removed"`
	Modified  []string `json:"modified"`
}

// pushHandler walks one inbound event through authenticate, filter, extract,
// resolve, ingest, judge and publish. Strictly linear, early exits only.
func (h *Handler) pushHandler(c fiber.Ctx) error {
	ctx := context.Background()

	// Authenticate against the raw body bytes.
	if strings.TrimSpace(h.Secret) == "" {
		return utils.StatusError(c, errmsg.GitHubSecretNotConfigured)
	}

	payload := c.Body()

	signature := strings.TrimSpace(c.Get(signatureHeader))
	if signature == "" {
		return utils.StatusError(c, errmsg.GitHubSignatureMissing)
	}
	if !VerifySignature(h.Secret, signature, payload) {
		return utils.StatusError(c, errmsg.GitHubSignatureInvalid)
	}

	var push pushPayload
	if err := json.Unmarshal(payload, &push); err != nil {
		return utils.StatusError(c, errmsg.GitHubInvalidPayload)
	}

	// Filter. Skips are intentional no-ops, not errors.
	if push.Ref != h.MainBranch {
		logger.Info("skipping push to non-main ref", zap.String("ref", push.Ref))
		return c.JSON(fiber.Map{
			"message": "Skipped - not a push to the main branch",
			"ref":     push.Ref,
		})
	}

	if h.SkipPrivate && push.Repository.Private {
		logger.Info("skipping push to private repository",
			zap.String("repository", push.Repository.Name))
		return c.JSON(fiber.Map{
			"message": "Skipped - private repository",
			"ref":     push.Ref,
		})
	}

	// Extract.
	if len(push.Commits) == 0 {
		return c.JSON(fiber.Map{"message": "No commits found in push event"})
	}

	pushMessages := make([]string, 0, len(push.Commits))
	for _, commit := range push.Commits {
		if commit.Message != "" {
			pushMessages = append(pushMessages, commit.Message)
		}
	}
	if len(pushMessages) == 0 {
		return c.JSON(fiber.Map{"message": "No valid commit messages found"})
	}

	// Resolve identity. Unknown senders are terminal; nothing is stored.
	username := strings.TrimSpace(push.Sender.Login)
	if username == "" {
		return utils.StatusError(c, errmsg.GitHubSenderMissing)
	}

	userID, err := h.Store.ResolveIdentity(ctx, username)
	if err == store.ErrProfileNotFound {
		logger.Warn("unknown github sender", zap.String("username", username))
		return utils.StatusError(c, errmsg.GitHubUserNotFound(username))
	}
	if err != nil {
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	events.Em.PushReceived(userID, push.Ref, len(push.Commits))

	// Ingest. The store's insert is the atomic unit; no retries here.
	commits := h.buildCommits(userID, push)
	if _, err := h.Store.InsertCommits(ctx, commits); err != nil {
		logger.Error("failed to store commits", zap.Error(err))
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	events.Em.CommitsStored(userID, push.Repository.Name, len(commits))

	// Judge the unattributed window, which now includes this push.
	window, err := h.Store.UnattributedCommits(ctx, userID, push.Repository.ID, judgeWindowSize)
	if err != nil {
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	windowMessages := make([]string, 0, len(window))
	windowIDs := make([]primitive.ObjectID, 0, len(window))
	for _, commit := range window {
		windowMessages = append(windowMessages, commit.Message)
		windowIDs = append(windowIDs, commit.ID)
	}

	decision := h.Judge.Evaluate(ctx, windowMessages)
	if !decision.ShouldPost {
		return c.JSON(fiber.Map{
			"message":        "Commits stored but no post created",
			"commits_stored": len(commits),
			"reasoning":      decision.Reasoning,
		})
	}

	// Summarize the current push only, then publish.
	content, err := h.Summarizer.Summarize(ctx, pushMessages)
	if err != nil {
		logger.Error("failed to generate post summary", zap.Error(err))
		return utils.StatusError(c, errmsg.SummaryFailed(err))
	}

	post, err := h.Store.CreatePost(ctx, userID, content)
	if err != nil {
		logger.Error("failed to create post", zap.Error(err))
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	linked, err := h.Store.AttachCommitsToPost(ctx, windowIDs, post.ID)
	if err != nil || linked != int64(len(windowIDs)) {
		// Linking is best-effort; stored commits must not be lost because
		// attribution failed.
		logger.Warn("commit linking incomplete",
			zap.Error(err),
			zap.Int("requested", len(windowIDs)),
			zap.Int64("linked", linked))
	}

	events.Em.PostCreated(userID, post.ID.Hex(), decision.Reasoning, linked)

	logger.Info("post created from push",
		zap.String("post_id", post.ID.Hex()),
		zap.Int("commits_processed", len(pushMessages)))

	return c.JSON(fiber.Map{
		"message":           "Post created successfully",
		"post_id":           post.ID.Hex(),
		"content":           content,
		"commits_processed": len(pushMessages),
		"commits_stored":    len(commits),
		"commits_linked":    linked,
		"reasoning":         decision.Reasoning,
	})
}

// buildCommits converts payload commits into store records, normalizing
// both timestamp shapes GitHub sends.
func (h *Handler) buildCommits(userID string, push pushPayload) []models.Commit {
	pushedAt := timestamp.Normalize(push.Repository.PushedAt)

	owner := push.Repository.Owner.Login
	if owner == "" {
		owner = push.Repository.Owner.Name
	}

	commits := make([]models.Commit, 0, len(push.Commits))
	for _, commit := range push.Commits {
		commits = append(commits, models.Commit{
			UserID:          userID,
			RepositoryID:    push.Repository.ID,
			RepositoryName:  push.Repository.Name,
			RepositoryOwner: owner,
			CommitID:        commit.ID,
			Message:         commit.Message,
			CommittedAt:     timestamp.Normalize(commit.Timestamp),
			PushedAt:        pushedAt,
			AddedFiles:      commit.Added,
			RemovedFiles:    commit.Removed,
			ModifiedFiles:   commit.Modified,
		})
	}

	return commits
}
