// Package cachestore implements a content-addressed cache for exact-once
// reuse of expensive external results across runs, keyed by content rather
// than by path. Three namespaces back the three expensive calls in the
// pipeline: digitization, page_artifact, and chapter_artifact.
package cachestore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Namespace identifies one of the cache's subdirectories.
type Namespace string

const (
	NamespaceDigitization    Namespace = "digitization"
	NamespacePageArtifact    Namespace = "page_artifact"
	NamespaceChapterArtifact Namespace = "chapter_artifact"
)

var allNamespaces = []Namespace{NamespaceDigitization, NamespacePageArtifact, NamespaceChapterArtifact}

// Meta is the sidecar metadata embedded in a stored artifact and stripped
// on read, so downstream code sees exactly the artifact shape the producer
// emitted.
type Meta struct {
	OriginalPath string    `json:"original_path,omitempty"`
	SizeBytes    int64     `json:"size_bytes,omitempty"`
	ModTime      time.Time `json:"mtime,omitempty"`
	CachedAt     time.Time `json:"cached_at"`
	Category     string    `json:"category,omitempty"`
}

// envelope is what actually lands on disk: the artifact plus its _cache_meta
// sidecar, keyed so a reader can strip it without touching the artifact
// fields.
type envelope struct {
	Meta     Meta            `json:"_cache_meta"`
	Artifact json.RawMessage `json:"artifact"`
}

// Store is the content-addressed cache over the local filesystem.
type Store struct {
	root   string
	logger *slog.Logger
}

// New creates a Store rooted at dir, ensuring each namespace subdirectory
// exists.
func New(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{root: dir, logger: logger}
	for _, ns := range allNamespaces {
		if err := os.MkdirAll(s.dirFor(ns), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create cache namespace %s: %w", ns, err)
		}
	}
	return s, nil
}

func (s *Store) dirFor(ns Namespace) string {
	return filepath.Join(s.root, string(ns))
}

func (s *Store) pathFor(ns Namespace, key string) string {
	return filepath.Join(s.dirFor(ns), key+".json")
}

// Lookup returns the artifact for (namespace, key), unmarshaled into out.
// Returns (false, nil) on a clean miss OR a corrupt/malformed cached entry:
// a torn write must never be observable, so a malformed JSON payload is
// treated as absent rather than surfaced as an error.
func (s *Store) Lookup(namespace Namespace, key string, out any) (bool, error) {
	path := s.pathFor(namespace, key)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, nil //nolint:nilerr // read failure treated as miss, not fatal
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		s.logger.Debug("cache entry corrupt, treating as miss", "namespace", namespace, "key", key, "error", err)
		return false, nil
	}
	if len(env.Artifact) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(env.Artifact, out); err != nil {
		s.logger.Debug("cache entry artifact corrupt, treating as miss", "namespace", namespace, "key", key, "error", err)
		return false, nil
	}
	return true, nil
}

// StoreArtifact atomically publishes artifact under (namespace, key). Write failure
// is logged and swallowed: the pipeline must complete even with a
// read-only cache directory.
func (s *Store) StoreArtifact(namespace Namespace, key string, artifact any, meta Meta) {
	if meta.CachedAt.IsZero() {
		meta.CachedAt = time.Now()
	}

	artifactBytes, err := json.Marshal(artifact)
	if err != nil {
		s.logger.Warn("failed to marshal cache artifact, not caching", "namespace", namespace, "key", key, "error", err)
		return
	}

	env := envelope{Meta: meta, Artifact: artifactBytes}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		s.logger.Warn("failed to marshal cache envelope, not caching", "namespace", namespace, "key", key, "error", err)
		return
	}

	dir := s.dirFor(namespace)
	target := s.pathFor(namespace, key)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		s.logger.Warn("failed to create temp file for cache publish, not caching", "namespace", namespace, "key", key, "error", err)
		return
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		s.logger.Warn("failed to write cache artifact, not caching", "namespace", namespace, "key", key, "error", err)
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		s.logger.Warn("failed to close cache temp file, not caching", "namespace", namespace, "key", key, "error", err)
		return
	}

	// Atomic publish: rename over the target. A torn write is never
	// observable because readers only ever see the pre- or post-rename
	// file, never a partial one.
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		s.logger.Warn("failed to publish cache artifact, not caching", "namespace", namespace, "key", key, "error", err)
	}
}
