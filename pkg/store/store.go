// Package store holds the flat-record collections of the application.
// Each resource is an ordered sequence of JSON records that is read and
// rewritten wholesale; callers own the read-modify-write cycle.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Resource names
const (
	Users       = "users"
	Papers      = "papers"
	Guides      = "guides"
	Leaderboard = "leaderboard"
	Performance = "performance"
)

// AllResources lists every resource the application initializes at startup
var AllResources = []string{Users, Papers, Guides, Leaderboard, Performance}

// ErrUnknownResource is returned for resource names containing path separators
// or other characters outside [a-z0-9_-]
var ErrUnknownResource = errors.New("invalid resource name")

// RecordStore loads and saves whole resources.
// There is no locking across a ReadAll/WriteAll pair: two writers racing on
// the same resource lose updates, the last write wins.
type RecordStore interface {
	// ReadAll returns every record of resource in stored order.
	// An absent resource reads as an empty sequence.
	ReadAll(ctx context.Context, resource string) ([]json.RawMessage, error)

	// WriteAll replaces the content of resource
	WriteAll(ctx context.Context, resource string, records []json.RawMessage) error

	// Init creates each absent resource as an empty sequence
	Init(ctx context.Context, resources ...string) error
}

// Load reads resource and decodes every record into T
func Load[T any](ctx context.Context, s RecordStore, resource string) ([]T, error) {
	raw, err := s.ReadAll(ctx, resource)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raw))
	for i, r := range raw {
		var v T
		if err := json.Unmarshal(r, &v); err != nil {
			return nil, fmt.Errorf("decode %s record %d: %w", resource, i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Save encodes records and replaces resource with them
func Save[T any](ctx context.Context, s RecordStore, resource string, records []T) error {
	raw := make([]json.RawMessage, 0, len(records))
	for i := range records {
		b, err := json.Marshal(records[i])
		if err != nil {
			return fmt.Errorf("encode %s record %d: %w", resource, i, err)
		}
		raw = append(raw, b)
	}
	return s.WriteAll(ctx, resource, raw)
}

func validResource(name string) error {
	if name == "" {
		return ErrUnknownResource
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return fmt.Errorf("%w: %q", ErrUnknownResource, name)
		}
	}
	return nil
}
