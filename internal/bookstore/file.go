package bookstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bluecalif/bookforge/internal/home"
	"github.com/bluecalif/bookforge/internal/model"
)

// FileStore is a Store backed by one directory per book under the
// bookforge home's books root, using the same atomic temp-file-then-rename
// publish internal/cachestore uses so a crash mid-write never leaves a
// reader looking at a torn book.json or artifact file.
type FileStore struct {
	mu   sync.Mutex
	home *home.Dir
}

// NewFileStore returns a FileStore rooted at h.BooksDir(...).
func NewFileStore(h *home.Dir) *FileStore {
	return &FileStore{home: h}
}

var _ Store = (*FileStore)(nil)

func (s *FileStore) bookPath(id string) string {
	return filepath.Join(s.home.BooksDir(id), "book.json")
}

func (s *FileStore) pagesDir(id string) string {
	return filepath.Join(s.home.BooksDir(id), "pages")
}

func (s *FileStore) chaptersDir(id string) string {
	return filepath.Join(s.home.BooksDir(id), "chapters")
}

func writeJSONAtomic(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file for %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to publish %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func (s *FileStore) CreateBook(ctx context.Context, book *model.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeJSONAtomic(s.bookPath(book.ID), book)
}

func (s *FileStore) GetBook(ctx context.Context, id string) (*model.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getBookLocked(id)
}

func (s *FileStore) getBookLocked(id string) (*model.Book, error) {
	var b model.Book
	if err := readJSON(s.bookPath(id), &b); err != nil {
		if os.IsNotExist(err) {
			return nil, &model.ErrNotFound{BookID: id}
		}
		return nil, fmt.Errorf("failed to read book %s: %w", id, err)
	}
	return &b, nil
}

func (s *FileStore) Transition(ctx context.Context, id string, next model.Status, mutate func(*model.Book)) (*model.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.getBookLocked(id)
	if err != nil {
		return nil, err
	}

	cp := b.Clone()
	if mutate != nil {
		mutate(cp)
	}
	if !model.CanTransition(b.Status, next) {
		return nil, &model.ErrPreconditionViolated{Operation: string(next), Have: b.Status, Want: string(next)}
	}
	cp.Status = next
	cp.UpdatedAt = time.Now()
	if err := writeJSONAtomic(s.bookPath(id), cp); err != nil {
		return nil, err
	}
	return cp.Clone(), nil
}

func (s *FileStore) SavePageArtifact(ctx context.Context, artifact *model.PageArtifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	path := filepath.Join(s.pagesDir(artifact.BookID), strconv.Itoa(artifact.PageNumber)+".json")
	return writeJSONAtomic(path, artifact)
}

func (s *FileStore) ListPageArtifacts(ctx context.Context, bookID string) ([]*model.PageArtifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.pagesDir(bookID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list page artifacts for %s: %w", bookID, err)
	}

	out := make([]*model.PageArtifact, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		var a model.PageArtifact
		if err := readJSON(filepath.Join(s.pagesDir(bookID), e.Name()), &a); err != nil {
			continue
		}
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PageNumber < out[j].PageNumber })
	return out, nil
}

func (s *FileStore) SaveChapterArtifact(ctx context.Context, artifact *model.ChapterArtifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	path := filepath.Join(s.chaptersDir(artifact.BookID), strconv.Itoa(artifact.OrderIndex)+".json")
	return writeJSONAtomic(path, artifact)
}

func (s *FileStore) ListChapterArtifacts(ctx context.Context, bookID string) ([]*model.ChapterArtifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.chaptersDir(bookID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list chapter artifacts for %s: %w", bookID, err)
	}

	out := make([]*model.ChapterArtifact, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		var a model.ChapterArtifact
		if err := readJSON(filepath.Join(s.chaptersDir(bookID), e.Name()), &a); err != nil {
			continue
		}
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}
