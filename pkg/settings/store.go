package settings

import (
	"context"
	"maps"
	"net/url"
)

// Blob is the persisted options map of a settings page, keyed by field name.
type Blob map[string]string

// Clone returns a detached copy; a nil blob clones to an empty one.
func (b Blob) Clone() Blob {
	out := make(Blob, len(b))
	maps.Copy(out, b)
	return out
}

// Store persists one Blob per settings key. Implementations wrap the host
// options table; Set replaces the whole blob.
type Store interface {
	Get(ctx context.Context, key string) (Blob, bool, error)
	Set(ctx context.Context, key string, blob Blob) error
}

// Submission carries submitted form values. A missing key and an empty value
// are distinct: missing keys keep the existing value for most kinds.
type Submission map[string]string

// SubmissionFromValues keeps the first value of every key.
func SubmissionFromValues(values url.Values) Submission {
	out := make(Submission, len(values))
	for key, list := range values {
		if len(list) == 0 {
			out[key] = ""
			continue
		}
		out[key] = list[0]
	}
	return out
}

// Has reports whether key was submitted.
func (s Submission) Has(key string) bool {
	_, ok := s[key]
	return ok
}
