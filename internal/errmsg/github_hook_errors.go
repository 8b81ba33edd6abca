package errmsg

import (
	"fmt"
	"net/http"
)

// GitHub webhook specific StatusError helpers surfaced by the handler.
var (
	GitHubSecretNotConfigured = NewStatusError(http.StatusInternalServerError, "webhook secret not configured")
	GitHubSignatureMissing    = NewStatusError(http.StatusBadRequest, "missing X-Hub-Signature-256 header")
	GitHubSignatureInvalid    = NewStatusError(http.StatusBadRequest, "invalid webhook signature")
	GitHubInvalidPayload      = NewStatusError(http.StatusBadRequest, "invalid webhook payload")
	GitHubSenderMissing       = NewStatusError(http.StatusBadRequest, "no GitHub username found in webhook payload")
)

// GitHubUserNotFound reports an unresolvable sender identity. Unknown
// identities are never auto-provisioned.
func GitHubUserNotFound(username string) StatusError {
	return NewStatusError(
		http.StatusNotFound,
		fmt.Sprintf("user not found for GitHub username: %s", username),
	)
}

// SummaryFailed wraps a text-generation failure during post summarization.
func SummaryFailed(err error) StatusError {
	return NewStatusError(
		http.StatusInternalServerError,
		"failed to generate post summary: "+err.Error(),
	)
}
