// Package timestamp normalizes the timestamp shapes GitHub webhooks carry.
// Push payloads mix RFC3339 strings (commit timestamps) with Unix epoch
// integers (repository pushed_at), and corrupt values must degrade to nil
// rather than abort ingestion.
package timestamp

import (
	"strconv"
	"strings"
	"time"
)

// maxEpoch is Jan 1 2100. Values above it are treated as corrupt or
// unit-mismatched (e.g. milliseconds instead of seconds).
const maxEpoch = 4102444800

// Normalize converts a raw JSON timestamp value into a canonical UTC time.
// Nil, empty and unparseable inputs all normalize to nil; callers treat a
// nil committed_at as "unknown" and keep the commit out of recency ordering.
func Normalize(value any) *time.Time {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return normalizeString(v)
	case int:
		return fromEpoch(int64(v))
	case int64:
		return fromEpoch(v)
	case float64:
		// encoding/json decodes numbers into float64.
		return fromEpoch(int64(v))
	default:
		return nil
	}
}

func normalizeString(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	// Textual timestamps contain 'T' or '-'; everything else is read as a
	// stringified epoch.
	if strings.ContainsAny(value, "T-") {
		parsed, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return nil
		}
		utc := parsed.UTC()
		return &utc
	}

	epoch, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil
	}

	return fromEpoch(epoch)
}

func fromEpoch(epoch int64) *time.Time {
	if epoch < 0 || epoch > maxEpoch {
		return nil
	}

	t := time.Unix(epoch, 0).UTC()
	return &t
}
