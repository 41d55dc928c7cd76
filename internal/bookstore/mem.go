package bookstore

import (
	"context"
	"sort"
	"sync"

	"github.com/bluecalif/bookforge/internal/model"
)

// MemStore is an in-process Store backed by maps, guarded by a single
// mutex. Intended for tests and for short-lived CLI invocations that run
// a single operation end to end against a FileStore-seeded snapshot.
type MemStore struct {
	mu       sync.Mutex
	books    map[string]*model.Book
	pages    map[string]map[int]*model.PageArtifact
	chapters map[string]map[int]*model.ChapterArtifact
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		books:    make(map[string]*model.Book),
		pages:    make(map[string]map[int]*model.PageArtifact),
		chapters: make(map[string]map[int]*model.ChapterArtifact),
	}
}

var _ Store = (*MemStore)(nil)

func (s *MemStore) CreateBook(ctx context.Context, book *model.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books[book.ID] = book.Clone()
	return nil
}

func (s *MemStore) GetBook(ctx context.Context, id string) (*model.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[id]
	if !ok {
		return nil, &model.ErrNotFound{BookID: id}
	}
	return b.Clone(), nil
}

func (s *MemStore) Transition(ctx context.Context, id string, next model.Status, mutate func(*model.Book)) (*model.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.books[id]
	if !ok {
		return nil, &model.ErrNotFound{BookID: id}
	}

	cp := b.Clone()
	if mutate != nil {
		mutate(cp)
	}
	if !model.CanTransition(b.Status, next) {
		return nil, &model.ErrPreconditionViolated{Operation: string(next), Have: b.Status, Want: string(next)}
	}
	cp.Status = next
	s.books[id] = cp
	return cp.Clone(), nil
}

func (s *MemStore) SavePageArtifact(ctx context.Context, artifact *model.PageArtifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byPage, ok := s.pages[artifact.BookID]
	if !ok {
		byPage = make(map[int]*model.PageArtifact)
		s.pages[artifact.BookID] = byPage
	}
	cp := *artifact
	byPage[artifact.PageNumber] = &cp
	return nil
}

func (s *MemStore) ListPageArtifacts(ctx context.Context, bookID string) ([]*model.PageArtifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byPage := s.pages[bookID]
	out := make([]*model.PageArtifact, 0, len(byPage))
	for _, a := range byPage {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PageNumber < out[j].PageNumber })
	return out, nil
}

func (s *MemStore) SaveChapterArtifact(ctx context.Context, artifact *model.ChapterArtifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byChapter, ok := s.chapters[artifact.BookID]
	if !ok {
		byChapter = make(map[int]*model.ChapterArtifact)
		s.chapters[artifact.BookID] = byChapter
	}
	cp := *artifact
	byChapter[artifact.OrderIndex] = &cp
	return nil
}

func (s *MemStore) ListChapterArtifacts(ctx context.Context, bookID string) ([]*model.ChapterArtifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byChapter := s.chapters[bookID]
	out := make([]*model.ChapterArtifact, 0, len(byChapter))
	for _, a := range byChapter {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}
