// Package home resolves the bookforge home directory layout: cache root,
// reports root, and the dynamic config override store
// "Persisted state layout".
package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the bookforge home directory.
	DefaultDirName = ".bookforge"

	// CacheDirName is the subdirectory holding the content-addressed cache
	// (digitization, page_artifact, chapter_artifact namespaces).
	CacheDirName = "cache"

	// ReportsDirName is the subdirectory holding {book_title}.json reports.
	ReportsDirName = "reports"

	// SourcesDirName holds ingested source PDFs, one subdirectory per book.
	SourcesDirName = "sources"

	// BooksDirName holds per-book metadata and extraction artifacts, one
	// subdirectory per book (see internal/bookstore).
	BooksDirName = "books"

	// ConfigFileName is the default static config file name.
	ConfigFileName = "config.yaml"

	// OverridesFileName is the dynamic config override store's file.
	OverridesFileName = "overrides.json"
)

// Dir represents the bookforge home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path. If path is empty, uses the
// default (~/.bookforge).
func New(path string) (*Dir, error) {
	if path == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(h, DefaultDirName)
	}
	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string { return d.path }

// CacheRoot returns the path to the content-addressed cache root.
func (d *Dir) CacheRoot() string { return filepath.Join(d.path, CacheDirName) }

// ReportsRoot returns the path to the reports directory.
func (d *Dir) ReportsRoot() string { return filepath.Join(d.path, ReportsDirName) }

// SourcesDir returns the path where a book's ingested PDF(s) live.
func (d *Dir) SourcesDir(bookID string) string {
	return filepath.Join(d.path, SourcesDirName, bookID)
}

// BooksDir returns the path where a book's metadata and artifacts live.
func (d *Dir) BooksDir(bookID string) string {
	return filepath.Join(d.path, BooksDirName, bookID)
}

// ConfigPath returns the path to the default static config file.
func (d *Dir) ConfigPath() string { return filepath.Join(d.path, ConfigFileName) }

// OverridesPath returns the path to the dynamic config override store.
func (d *Dir) OverridesPath() string { return filepath.Join(d.path, OverridesFileName) }

// EnsureExists creates the home directory and its subdirectories.
func (d *Dir) EnsureExists() error {
	for _, sub := range []string{CacheDirName, ReportsDirName, SourcesDirName, BooksDirName} {
		if err := os.MkdirAll(filepath.Join(d.path, sub), 0o755); err != nil {
			return fmt.Errorf("failed to create %s directory: %w", sub, err)
		}
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the static config file exists.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}
