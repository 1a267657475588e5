package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	log, err := newLogger("warn", &buf)
	require.NoError(t, err)

	log.Info().Msg("hidden")
	log.Warn().Msg("File too large: 120.00 MB")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} WRN File too large: 120.00 MB\n$`, buf.String())
}

func TestNewLogger_BadLevel(t *testing.T) {
	_, err := newLogger("shouting", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestNewLogger_FansOut(t *testing.T) {
	var a, b bytes.Buffer
	log, err := newLogger("", &a, &b)
	require.NoError(t, err)

	log.Info().Msg("Connected to S3")
	assert.Contains(t, a.String(), "INF Connected to S3")
	assert.Equal(t, a.String(), b.String())
}

func TestOpenLogFile_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s3_upload.log")

	for _, msg := range []string{"first run", "second run"} {
		f, err := openLogFile(path)
		require.NoError(t, err)
		log, err := newLogger("info", f)
		require.NoError(t, err)
		log.Info().Msg(msg)
		require.NoError(t, f.Close())
	}

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "INF first run")
	assert.Contains(t, string(raw), "INF second run")
}

func TestCloseLogFile(t *testing.T) {
	f, err := openLogFile(filepath.Join(t.TempDir(), "s3_upload.log"))
	require.NoError(t, err)

	var closeErr error
	closeLogFile(f, &closeErr)
	require.NoError(t, closeErr)

	// A second close fails and the error is kept.
	closeLogFile(f, &closeErr)
	assert.ErrorIs(t, closeErr, os.ErrClosed)

	// An earlier error is not replaced.
	earlier := errors.New("upload aborted")
	closeErr = earlier
	closeLogFile(f, &closeErr)
	assert.Equal(t, earlier, closeErr)
}
