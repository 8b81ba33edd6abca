package events

import "crax/internal/models"

// Target types recorded by the content pipeline.
const (
	targetCommit  = "commit"
	targetPost    = "post"
	targetProfile = "profile"
)

// PushReceived records a verified push event before ingestion starts.
func (e *Emitter) PushReceived(userID, ref string, commitCount int) {
	if e == nil {
		return
	}

	e.Emit(models.Event{
		Action: "github.push.received",

		ActorRole: ActorSystem,
		ActorID:   userID,

		TargetType: targetCommit,
		TargetID:   ref,

		Props: map[string]any{
			"ref":          ref,
			"commit_count": commitCount,
		},
	})
}

// CommitsStored records a successful all-or-nothing commit insert.
func (e *Emitter) CommitsStored(userID, repositoryName string, stored int) {
	if e == nil {
		return
	}

	e.Emit(models.Event{
		Action: "github.commits.stored",

		ActorRole: ActorSystem,
		ActorID:   userID,

		TargetType: targetCommit,
		TargetID:   repositoryName,

		Props: map[string]any{
			"repository_name": repositoryName,
			"stored":          stored,
		},
	})
}

// PostCreated records a post derived from an affirmative judgment.
func (e *Emitter) PostCreated(userID, postID, reasoning string, commitsLinked int64) {
	if e == nil {
		return
	}

	e.Emit(models.Event{
		Action: "post.created",

		ActorRole: ActorSystem,
		ActorID:   userID,

		TargetType: targetPost,
		TargetID:   postID,

		Props: map[string]any{
			"reasoning":      reasoning,
			"commits_linked": commitsLinked,
		},
	})
}

// LinkedInProfileUpdated records a processor write of scraped profile data.
func (e *Emitter) LinkedInProfileUpdated(userID string) {
	if e == nil {
		return
	}

	e.Emit(models.Event{
		Action: "profile.linkedin.updated",

		ActorRole: ActorProcessor,
		ActorID:   userID,

		TargetType: targetProfile,
		TargetID:   userID,

		Props: map[string]any{},
	})
}

// DevpostProjectsStored records a processor write of scraped projects.
func (e *Emitter) DevpostProjectsStored(userID string, count int) {
	if e == nil {
		return
	}

	e.Emit(models.Event{
		Action: "projects.devpost.stored",

		ActorRole: ActorProcessor,
		ActorID:   userID,

		TargetType: targetProfile,
		TargetID:   userID,

		Props: map[string]any{
			"projects": count,
		},
	})
}
