package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var banner = strings.Repeat("=", 50)

// FileResult is the outcome of one candidate.
type FileResult struct {
	Index   int
	Path    string
	Key     string
	Renamed bool
	Size    int64
	Err     error
}

// OK reports whether the candidate was uploaded.
func (r FileResult) OK() bool {
	return r.Err == nil
}

// BatchResult tallies a run. Succeeded+Failed always equals Total.
type BatchResult struct {
	Total     int
	Succeeded int
	Failed    int
	Files     []FileResult

	// Err is set when the batch was aborted before any candidate was attempted.
	Err error
}

// AllSucceeded is the batch verdict: true iff the batch ran and no candidate failed.
func (r BatchResult) AllSucceeded() bool {
	return r.Err == nil && r.Failed == 0
}

func (r *BatchResult) record(fr FileResult) {
	if fr.OK() {
		r.Succeeded++
	} else {
		r.Failed++
	}
	r.Files = append(r.Files, fr)
}

// abortedResult marks every candidate as failed with err, without attempting any of them.
func abortedResult(paths []string, err error) BatchResult {
	res := BatchResult{Total: len(paths), Files: make([]FileResult, 0, len(paths)), Err: err}
	for i, p := range paths {
		res.record(FileResult{Index: i, Path: p, Err: err})
	}
	return res
}

// Batch uploads candidates one at a time, in input order.
type Batch struct {
	Store     ObjectStore
	Bucket    string
	MaxSize   int64
	OnUnknown UnknownPolicy
	DryRun    bool
	Log       zerolog.Logger
	Now       func() time.Time
}

// Run processes every path and always runs to completion; per-file failures are
// logged and recorded but never stop the batch.
func (b *Batch) Run(ctx context.Context, paths []string) BatchResult {
	logBatchStart(b.Log, len(paths))
	res := b.run(ctx, paths)
	logBatchComplete(b.Log, res)
	return res
}

func logBatchStart(log zerolog.Logger, total int) {
	log.Info().Msg(banner)
	log.Info().Msgf("S3 UPLOAD STARTED - %d files", total)
	log.Info().Msg(banner)
}

func logBatchComplete(log zerolog.Logger, res BatchResult) {
	log.Info().Msg(banner)
	log.Info().Msgf("COMPLETE: %d/%d successful", res.Succeeded, res.Total)
	log.Info().Msg(banner)
}

func (b *Batch) run(ctx context.Context, paths []string) BatchResult {
	total := len(paths)
	res := BatchResult{Total: total, Files: make([]FileResult, 0, total)}

	resolver := &conflictResolver{
		store:  b.Store,
		bucket: b.Bucket,
		policy: b.OnUnknown,
		now:    b.now,
		log:    b.Log,
	}

	for i, path := range paths {
		b.Log.Info().Msgf("File %d/%d: %s", i+1, total, path)
		res.record(b.uploadOne(ctx, resolver, i, path))
	}

	return res
}

func (b *Batch) uploadOne(ctx context.Context, resolver *conflictResolver, index int, path string) FileResult {
	fr := FileResult{Index: index, Path: path}
	b.Log.Info().Msgf("Uploading: %s", path)

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		b.Log.Error().Msgf("File not found: %s", path)
		fr.Err = newFileError("stat", path, "", ErrFileNotFound)
		return fr
	case err != nil:
		b.Log.Error().Msgf("Size check failed: %v", err)
		fr.Err = newFileError("stat", path, "", fmt.Errorf("%w: %w", ErrSizeProbe, err))
		return fr
	case !info.Mode().IsRegular():
		b.Log.Error().Msgf("Not a regular file: %s", path)
		fr.Err = newFileError("stat", path, "", ErrNotRegularFile)
		return fr
	}

	fr.Size = info.Size()
	if err := checkSize(fr.Size, b.maxSize()); err != nil {
		b.Log.Warn().Msgf("File too large: %.2f MB", megabytes(fr.Size))
		fr.Err = newFileError("size", path, "", err)
		return fr
	}

	key, renamed, err := resolver.resolve(ctx, filepath.Base(path))
	fr.Key, fr.Renamed = key, renamed
	if err != nil {
		b.Log.Error().Msgf("FAILED: %s - %v", path, err)
		fr.Err = newFileError("resolve", path, key, err)
		return fr
	}

	if b.DryRun {
		b.Log.Info().Msgf("Pretending to upload %s -> %s", path, objectURL(b.Bucket, key))
		return fr
	}

	if err := b.transfer(ctx, path, key, fr.Size); err != nil {
		b.Log.Error().Msgf("FAILED: %s - %v", path, err)
		fr.Err = newFileError("upload", path, key, fmt.Errorf("%w: %w", ErrTransfer, err))
		return fr
	}

	b.Log.Info().Msgf("SUCCESS: %s -> %s", path, objectURL(b.Bucket, key))
	return fr
}

func (b *Batch) transfer(ctx context.Context, path, key string, size int64) (err error) {
	f, err := os.Open(path) // #nosec G304 - uploading user supplied paths is the point
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	contentType := detectContentType(path)
	_, err = b.Store.Upload(ctx, &UploadInput{
		Bucket:        b.Bucket,
		Key:           key,
		Body:          f,
		ContentLength: size,
		ContentType:   &contentType,
	})
	return err
}

func (b *Batch) maxSize() int64 {
	if b.MaxSize > 0 {
		return b.MaxSize
	}
	return MaxUploadSize
}

func (b *Batch) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

// storeFactory builds the store for a batch from validated options.
type storeFactory func(ctx context.Context, o *options) (ObjectStore, error)

// uploadFiles is the batch entry point: it checks the credential precondition,
// connects once and runs the batch. Precondition failures fail every candidate
// without touching the store, and fail the batch even when paths is empty.
func uploadFiles(ctx context.Context, o *options, paths []string, newStore storeFactory, log zerolog.Logger) BatchResult {
	logBatchStart(log, len(paths))

	if err := o.validateCredentials(); err != nil {
		log.Error().Msgf("%v, %d files not attempted", err, len(paths))
		return abortedResult(paths, err)
	}
	log.Info().Msg("AWS credentials loaded")

	store, err := newStore(ctx, o)
	if err != nil {
		log.Error().Msgf("Connection failed: %v", err)
		return abortedResult(paths, fmt.Errorf("%w: %w", ErrStoreConnection, err))
	}
	log.Info().Msg("Connected to S3")

	policy, err := parseUnknownPolicy(o.OnUnknown)
	if err != nil {
		policy = UnknownAsAbsent
	}

	b := &Batch{
		Store:     store,
		Bucket:    o.BucketName,
		MaxSize:   o.MaxSize,
		OnUnknown: policy,
		DryRun:    o.dryRun,
		Log:       log,
	}
	res := b.run(ctx, paths)
	logBatchComplete(log, res)
	return res
}
