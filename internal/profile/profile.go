// Package profile loads the persona's profile document once at startup.
package profile

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/karthiksamak-git/karthik-voice-bot/internal/shared/storage/object"
	localstore "github.com/karthiksamak-git/karthik-voice-bot/internal/shared/storage/object/local"
	s3store "github.com/karthiksamak-git/karthik-voice-bot/internal/shared/storage/object/s3"
	"github.com/karthiksamak-git/karthik-voice-bot/internal/shared/telemetry"
)

// Fallback replaces the profile whenever it cannot be read.
const Fallback = "Karthik Samak - AI and Full Stack Developer"

// maxProfileBytes caps how much of a profile document is read.
const maxProfileBytes = 4 << 20

// Options controls where the profile is read from.
type Options struct {
	// Source is a filesystem path or an s3://bucket/key URL.
	Source    string
	AWSRegion string
	// Fallback overrides the package Fallback when non-empty.
	Fallback string
}

// Source is a parsed profile location.
type Source struct {
	Scheme string
	Bucket string
	Dir    string
	Key    string
}

func (s Source) String() string {
	if s.Scheme == "s3" {
		return "s3://" + s.Bucket + "/" + s.Key
	}
	return filepath.Join(s.Dir, s.Key)
}

var newS3Store = func(ctx context.Context, region, bucket string) (object.ObjectStore, error) {
	return s3store.New(ctx, region, bucket, "")
}

// Load returns the profile text or the fallback. It never fails.
func Load(ctx context.Context, opts Options) string {
	fallback := opts.Fallback
	if fallback == "" {
		fallback = Fallback
	}

	text, src, err := load(ctx, opts)
	if err != nil {
		telemetry.Warn("profile.load.fallback", map[string]any{
			"source": opts.Source,
			"error":  err,
		})
		return fallback
	}
	telemetry.Info("profile.loaded", map[string]any{
		"source": src.String(),
		"chars":  len(text),
	})
	return text
}

func load(ctx context.Context, opts Options) (string, Source, error) {
	src, err := ParseSource(opts.Source)
	if err != nil {
		return "", src, err
	}

	var store object.ObjectStore
	switch src.Scheme {
	case "s3":
		store, err = newS3Store(ctx, opts.AWSRegion, src.Bucket)
		if err != nil {
			return "", src, err
		}
	default:
		store = localstore.New(src.Dir)
	}

	text, err := Read(ctx, store, src.Key)
	return text, src, err
}

// Read fetches key from store and extracts its text.
func Read(ctx context.Context, store object.ObjectStore, key string) (string, error) {
	rc, err := store.Open(ctx, key)
	if err != nil {
		return "", fmt.Errorf("open profile %s: %w", key, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxProfileBytes+1))
	if err != nil {
		return "", fmt.Errorf("read profile %s: %w", key, err)
	}
	if len(data) > maxProfileBytes {
		telemetry.Warn("profile.truncated", map[string]any{
			"key":       key,
			"max_bytes": maxProfileBytes,
		})
		data = data[:maxProfileBytes]
	}
	text, err := ExtractText(data, key)
	if err != nil {
		return "", fmt.Errorf("extract profile %s: %w", key, err)
	}
	return text, nil
}

// ParseSource splits a PROFILE_SOURCE value into a store location and key.
func ParseSource(raw string) (Source, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Source{}, fmt.Errorf("profile source is empty")
	}
	if rest, ok := strings.CutPrefix(raw, "s3://"); ok {
		bucket, key, _ := strings.Cut(rest, "/")
		if bucket == "" || key == "" {
			return Source{}, fmt.Errorf("invalid s3 profile source %q", raw)
		}
		return Source{Scheme: "s3", Bucket: bucket, Key: key}, nil
	}

	abs, err := filepath.Abs(raw)
	if err != nil {
		return Source{}, fmt.Errorf("resolve profile path: %w", err)
	}
	return Source{Scheme: "file", Dir: filepath.Dir(abs), Key: filepath.Base(abs)}, nil
}
