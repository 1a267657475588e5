package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// timestampLayout is the second-precision token inserted into a conflicting key (YYYYMMDD_HHMMSS).
const timestampLayout = "20060102_150405"

// UnknownPolicy decides what a failed existence probe means for the key.
type UnknownPolicy string

const (
	// UnknownAsAbsent keeps the desired key, possibly overwriting an existing object.
	UnknownAsAbsent UnknownPolicy = "absent"
	// UnknownAsExisting renames the key as if a conflict had been found.
	UnknownAsExisting UnknownPolicy = "rename"
	// UnknownFails fails the candidate without uploading.
	UnknownFails UnknownPolicy = "fail"
)

func parseUnknownPolicy(s string) (UnknownPolicy, error) {
	switch p := UnknownPolicy(strings.ToLower(s)); p {
	case "":
		return UnknownAsAbsent, nil
	case UnknownAsAbsent, UnknownAsExisting, UnknownFails:
		return p, nil
	default:
		return "", fmt.Errorf("unknown existence policy %q (want absent, rename or fail)", s)
	}
}

// conflictResolver picks the key a candidate is finally stored under.
type conflictResolver struct {
	store  ObjectStore
	bucket string
	policy UnknownPolicy
	now    func() time.Time
	log    zerolog.Logger
}

// resolve probes key once. It returns key unchanged when it is free and a
// timestamped variant when it is taken. The variant itself is not probed.
func (r *conflictResolver) resolve(ctx context.Context, key string) (string, bool, error) {
	state, err := r.store.Stat(ctx, r.bucket, key)
	if err != nil {
		state = ObjectUnknown
	}

	if state == ObjectUnknown {
		switch r.policy {
		case UnknownAsExisting:
			r.log.Warn().Err(err).Msgf("Existence check failed for %s, renaming", key)
			state = ObjectExists
		case UnknownFails:
			r.log.Error().Err(err).Msgf("Existence check failed for %s", key)
			if err == nil {
				return key, false, ErrExistenceUnknown
			}
			return key, false, fmt.Errorf("%w: %w", ErrExistenceUnknown, err)
		default:
			r.log.Warn().Err(err).Msgf("Existence check failed for %s, assuming it is free", key)
			state = ObjectAbsent
		}
	}

	if state == ObjectAbsent {
		return key, false, nil
	}

	renamed := timestampedKey(key, r.now())
	r.log.Info().Msgf("Conflict: %s -> %s", key, renamed)

	return renamed, true, nil
}

// timestampedKey inserts _YYYYMMDD_HHMMSS between the stem and the extension of key.
func timestampedKey(key string, at time.Time) string {
	stem, ext := splitExt(key)
	return stem + "_" + at.Format(timestampLayout) + ext
}

// splitExt splits name at its last dot. Leading dots belong to the stem, so
// ".env" has no extension.
func splitExt(name string) (string, string) {
	ext := filepath.Ext(name)
	stem := name[:len(name)-len(ext)]
	if strings.TrimLeft(stem, ".") == "" {
		return name, ""
	}
	return stem, ext
}
