// Package knowledge loads the reference documents that accompany every question and picks the
// ones relevant to it.
package knowledge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/models"
)

// DefaultExtensions is used when a Loader is created without extensions.
var DefaultExtensions = []string{".md"}

// Corpus yields the current set of knowledge documents.
type Corpus interface {
	Documents(ctx context.Context) ([]models.KnowledgeDocument, error)
}

// Loader reads the top level of one directory. Files are returned in file-name order and
// subdirectories are ignored. A missing directory is an empty corpus, not an error.
type Loader struct {
	dir        string
	extensions []string
	logger     *zap.Logger
}

// NewLoader creates a loader for dir. Extensions are matched case-insensitively.
func NewLoader(dir string, extensions []string, logger *zap.Logger) *Loader {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	norm := make([]string, 0, len(extensions))
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		norm = append(norm, e)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{dir: dir, extensions: norm, logger: logger}
}

// Dir returns the directory the loader reads.
func (l *Loader) Dir() string {
	return l.dir
}

// Extensions returns the normalized extensions the loader accepts.
func (l *Loader) Extensions() []string {
	return append([]string(nil), l.extensions...)
}

// Documents implements Corpus by reading the directory on every call.
func (l *Loader) Documents(ctx context.Context) ([]models.KnowledgeDocument, error) {
	return l.Load(ctx)
}

// Load reads every matching file. Files whose binary format cannot be decoded are skipped
// with a warning; read errors are returned.
func (l *Loader) Load(ctx context.Context) ([]models.KnowledgeDocument, error) {
	// ReadDir returns entries sorted by name.
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.KnowledgeDocument{}, nil
		}
		return nil, fmt.Errorf("read knowledge directory: %w", err)
	}

	docs := make([]models.KnowledgeDocument, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !l.accepts(ext) {
			continue
		}
		path := filepath.Join(l.dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read knowledge file %s: %w", entry.Name(), err)
		}
		text, err := readerFor(ext)(raw)
		if err != nil {
			l.logger.Warn("skipping knowledge file", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		docs = append(docs, models.KnowledgeDocument{Content: text, Source: entry.Name()})
	}
	l.logger.Debug("knowledge loaded", zap.String("dir", l.dir), zap.Int("documents", len(docs)))
	return docs, nil
}

func (l *Loader) accepts(ext string) bool {
	for _, e := range l.extensions {
		if e == ext {
			return true
		}
	}
	return false
}
