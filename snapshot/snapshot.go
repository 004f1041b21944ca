// Package snapshot defines the job snapshot record and its encoded form:
// a JSON object with keys path, jobs and job_count, base64 encoded so it can
// be stored as a sorted-set member.
package snapshot

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/mmadhavan/canary"
)

// Snapshot is one persisted record of the jobs found under a path.
type Snapshot struct {
	// Path is the logical location the jobs were discovered under.
	Path string `json:"path"`

	// Jobs is the opaque job payload.
	Jobs json.RawMessage `json:"jobs"`

	// JobCount is the number of jobs the snapshot describes.
	JobCount int `json:"job_count"`
}

// New builds a Snapshot, serializing details to JSON. It fails with
// canary.ErrInvalidSnapshot when details cannot be serialized, when path or
// raw details are not valid UTF-8 (JSON would rewrite them), or when
// jobCount is negative.
func New(path string, jobCount int, details any) (*Snapshot, error) {
	if jobCount < 0 {
		return nil, fmt.Errorf("%w: negative job count %d", canary.ErrInvalidSnapshot, jobCount)
	}
	if !utf8.ValidString(path) {
		return nil, fmt.Errorf("%w: path %q is not valid UTF-8", canary.ErrInvalidSnapshot, path)
	}

	var raw json.RawMessage
	switch d := details.(type) {
	case json.RawMessage:
		if !json.Valid(d) {
			return nil, fmt.Errorf("%w: jobs is not valid JSON", canary.ErrInvalidSnapshot)
		}
		if !utf8.Valid(d) {
			return nil, fmt.Errorf("%w: jobs is not valid UTF-8", canary.ErrInvalidSnapshot)
		}
		raw = d
	default:
		b, err := json.Marshal(details)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", canary.ErrInvalidSnapshot, err)
		}
		raw = b
	}

	return &Snapshot{Path: path, Jobs: raw, JobCount: jobCount}, nil
}

// Encode returns the base64 form of the snapshot's JSON encoding.
func (s *Snapshot) Encode() (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("%w: %w", canary.ErrInvalidSnapshot, err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// Decode reverses Encode. Entries written by other producers decode as long
// as they carry the same JSON keys.
func Decode(entry string) (*Snapshot, error) {
	b, err := base64.StdEncoding.DecodeString(entry)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", canary.ErrInvalidEntry, err)
	}

	var s Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("%w: %w", canary.ErrInvalidEntry, err)
	}
	return &s, nil
}

// DecodeAll decodes entries in order, stopping at the first failure.
func DecodeAll(entries []string) ([]*Snapshot, error) {
	out := make([]*Snapshot, 0, len(entries))
	for i, e := range entries {
		s, err := Decode(e)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}
