package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func newTestResolver(store ObjectStore, policy UnknownPolicy) *conflictResolver {
	return &conflictResolver{
		store:  store,
		bucket: "test-bucket",
		policy: policy,
		now:    fixedClock,
		log:    zerolog.Nop(),
	}
}

func TestTimestampedKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"a.txt", "a_20240102_030405.txt"},
		{"report.final.pdf", "report.final_20240102_030405.pdf"},
		{"archive.tar.gz", "archive.tar_20240102_030405.gz"},
		{"README", "README_20240102_030405"},
		{".env", ".env_20240102_030405"},
		{"..hidden.cfg", "..hidden_20240102_030405.cfg"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, timestampedKey(tt.key, fixedNow))
		})
	}
}

func TestResolve_FreeKeyIsUnchanged(t *testing.T) {
	store := NewMockObjectStore("test-bucket")
	r := newTestResolver(store, UnknownAsAbsent)

	key, renamed, err := r.resolve(context.Background(), "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "a.txt", key)
	assert.False(t, renamed)
	assert.Equal(t, []string{"a.txt"}, store.Stats)
}

func TestResolve_TakenKeyGetsTimestamp(t *testing.T) {
	store := NewMockObjectStore("test-bucket", "a.txt")
	var buf bytes.Buffer
	log, err := newLogger("info", &buf)
	require.NoError(t, err)

	r := newTestResolver(store, UnknownAsAbsent)
	r.log = log

	key, renamed, err := r.resolve(context.Background(), "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "a_20240102_030405.txt", key)
	assert.True(t, renamed)
	assert.Contains(t, buf.String(), "Conflict: a.txt -> a_20240102_030405.txt")
}

func TestResolve_RunsOnce(t *testing.T) {
	// Even if the suffixed key is also taken, it is not probed again.
	store := NewMockObjectStore("test-bucket", "a.txt", "a_20240102_030405.txt")
	r := newTestResolver(store, UnknownAsAbsent)

	key, _, err := r.resolve(context.Background(), "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "a_20240102_030405.txt", key)
	assert.Len(t, store.Stats, 1)
}

func TestResolve_UnknownPolicies(t *testing.T) {
	probeErr := NewAccessDeniedError()

	tests := []struct {
		policy      UnknownPolicy
		wantKey     string
		wantRenamed bool
		wantErr     error
	}{
		{UnknownAsAbsent, "a.txt", false, nil},
		{UnknownAsExisting, "a_20240102_030405.txt", true, nil},
		{UnknownFails, "a.txt", false, ErrExistenceUnknown},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			store := NewMockObjectStore("test-bucket")
			store.StatFunc = StatFailing(probeErr)
			r := newTestResolver(store, tt.policy)

			key, renamed, err := r.resolve(context.Background(), "a.txt")
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantRenamed, renamed)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr))
			assert.True(t, errors.Is(err, probeErr))
		})
	}
}

func TestParseUnknownPolicy(t *testing.T) {
	p, err := parseUnknownPolicy("")
	require.NoError(t, err)
	assert.Equal(t, UnknownAsAbsent, p)

	p, err = parseUnknownPolicy("RENAME")
	require.NoError(t, err)
	assert.Equal(t, UnknownAsExisting, p)

	p, err = parseUnknownPolicy("fail")
	require.NoError(t, err)
	assert.Equal(t, UnknownFails, p)

	_, err = parseUnknownPolicy("retry")
	assert.Error(t, err)
}
