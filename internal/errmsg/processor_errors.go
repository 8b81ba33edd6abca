package errmsg

import "net/http"

// Processor endpoint StatusError helpers shared by the scraper ingestion routes.
var (
	ProcessorUnauthorized   = NewStatusError(http.StatusUnauthorized, "unauthorized")
	ProcessorInvalidPayload = NewStatusError(http.StatusBadRequest, "invalid processor payload")
	ProcessorMissingUserID  = NewStatusError(http.StatusBadRequest, "user_id is required")
	LinkedInURLRequired     = NewStatusError(http.StatusBadRequest, "linkedin_url is required")
	LinkedInURLInvalid      = NewStatusError(http.StatusBadRequest, "invalid LinkedIn URL format")
	DevpostProjectsRequired = NewStatusError(http.StatusBadRequest, "projects are required")
)
