package models

// Project is one hackathon showcase entry harvested by the Devpost scraper.
type Project struct {
	UserID       string `json:"user_id" bson:"user_id"`
	Name         string `json:"name" bson:"name"`
	Tagline      string `json:"tagline" bson:"tagline"`
	URL          string `json:"url" bson:"url"`
	ThumbnailURL string `json:"thumbnail_url" bson:"thumbnail_url"`
}
