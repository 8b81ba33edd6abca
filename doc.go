// Package crax is the webhook-driven content pipeline behind the Crax
// build-in-public feed: it ingests GitHub push webhooks, stores commit
// metadata, and publishes AI-summarized progress posts, alongside processor
// endpoints that ingest scraped Devpost and LinkedIn data.
package crax
