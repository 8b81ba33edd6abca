package models

// Profile is the stored identity row scrapers and webhooks resolve against.
// Rows are provisioned elsewhere; this service only reads and annotates them.
type Profile struct {
	ID              string         `json:"id" bson:"_id"`
	GitHubURL       string         `json:"github_url" bson:"github_url"`
	LinkedInURL     string         `json:"linkedin_url" bson:"linkedin_url"`
	LinkedInDataRaw map[string]any `json:"linkedin_data_raw" bson:"linkedin_data_raw"`
}
