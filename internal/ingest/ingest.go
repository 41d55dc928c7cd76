// Package ingest implements the ingest(path, title?, author?, category?)
// operation of: registers a source PDF as a new Book at
// model.StatusUploaded, ready for the parse stage.
package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/bluecalif/bookforge/internal/bookstore"
	"github.com/bluecalif/bookforge/internal/home"
	"github.com/bluecalif/bookforge/internal/model"
)

// Request contains the parameters for ingesting a single book PDF.
type Request struct {
	PDFPath  string
	Title    string // derived from the filename when empty
	Author   string
	Category model.Category // defaults to model.CategoryMisc when empty
	Logger   *slog.Logger
}

// Ingest copies the source PDF into the home directory's sources tree and
// creates a Book record at model.StatusUploaded. Page count is taken from
// a local pdfcpu probe of the PDF; the parse stage replaces it with the
// normalized page count.
func Ingest(ctx context.Context, store bookstore.Store, homeDir *home.Dir, req Request) (*model.Book, error) {
	log := req.Logger
	if log == nil {
		log = slog.Default()
	}

	if req.PDFPath == "" {
		return nil, fmt.Errorf("no PDF path provided")
	}
	if _, err := os.Stat(req.PDFPath); err != nil {
		return nil, fmt.Errorf("PDF not found: %s", req.PDFPath)
	}

	category := req.Category
	if category == "" {
		category = model.CategoryMisc
	}
	if !model.ValidCategory(category) {
		return nil, fmt.Errorf("invalid category: %s", category)
	}

	title := req.Title
	if title == "" {
		title = deriveTitle(req.PDFPath)
	}

	f, err := os.Open(req.PDFPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	pageCount, err := api.PageCount(f, nil)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF page count: %w", err)
	}

	bookID := uuid.New().String()
	destPath := filepath.Join(homeDir.SourcesDir(bookID), filepath.Base(req.PDFPath))
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create sources directory: %w", err)
	}
	if err := copyFile(req.PDFPath, destPath); err != nil {
		return nil, fmt.Errorf("failed to copy source PDF: %w", err)
	}

	now := time.Now()
	book := &model.Book{
		ID:         bookID,
		Title:      title,
		Author:     req.Author,
		Category:   category,
		SourcePath: destPath,
		PageCount:  pageCount,
		Status:     model.StatusUploaded,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := store.CreateBook(ctx, book); err != nil {
		os.RemoveAll(homeDir.SourcesDir(bookID))
		return nil, fmt.Errorf("failed to create book record: %w", err)
	}

	log.Info("ingest complete", "book_id", bookID, "title", title, "pages", pageCount)
	return book, nil
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	_, err = io.Copy(dstFile, srcFile)
	return err
}

var trailingNumberSuffix = regexp.MustCompile(`-\d+$`)

// deriveTitle extracts a title from a PDF filename, e.g.
// "crusade-europe.pdf" -> "crusade-europe", "my-book-1.pdf" -> "my-book".
func deriveTitle(pdfPath string) string {
	base := filepath.Base(pdfPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return trailingNumberSuffix.ReplaceAllString(name, "")
}
