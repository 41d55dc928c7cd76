// Package orchestrator drives the three LLM-backed extraction stages over
// a book: page entity extraction, chapter synthesis, and book report
// aggregation. Every stage is status-gated, cached by content hash, and
// safely resumable after a partial run.
package orchestrator

import (
	"log/slog"

	"github.com/bluecalif/bookforge/internal/bookstore"
	"github.com/bluecalif/bookforge/internal/cachestore"
	"github.com/bluecalif/bookforge/internal/home"
	"github.com/bluecalif/bookforge/internal/providers"
	"github.com/bluecalif/bookforge/internal/splitparse"
)

// Options configures stage behavior; each field corresponds to one of
// enumerated pipeline configuration items.
type Options struct {
	WorkerPoolSize       int
	CommitCadencePages   int
	PageTruncationLength int
	ChapterSkipMinPages  int
}

// DefaultOptions mirrors internal/config.DefaultConfig's Pipeline section.
func DefaultOptions() Options {
	return Options{
		WorkerPoolSize:       3,
		CommitCadencePages:   10,
		PageTruncationLength: 4000,
		ChapterSkipMinPages:  3,
	}
}

// Orchestrator bundles every dependency the three stages share.
type Orchestrator struct {
	Books  bookstore.Store
	Cache  *cachestore.Store
	Parse  *splitparse.Controller
	LLM    providers.LLMClient
	Home   *home.Dir
	Logger *slog.Logger
	Opts   Options
}

// New constructs an Orchestrator. logger may be nil.
func New(books bookstore.Store, cache *cachestore.Store, parse *splitparse.Controller, llm providers.LLMClient, homeDir *home.Dir, logger *slog.Logger, opts Options) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{Books: books, Cache: cache, Parse: parse, LLM: llm, Home: homeDir, Logger: logger, Opts: opts}
}
