package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sandevgo/tuskmem/pkg/conv"
	"github.com/sandevgo/tuskmem/pkg/log"
)

// ExpandSources resolves a glob pattern, or a directory, into a sorted list
// of regular files.
func ExpandSources(pattern string) ([]string, error) {
	if st, err := os.Stat(pattern); err == nil && st.IsDir() {
		pattern = filepath.Join(pattern, "*")
	}

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}

	var files []string
	for _, m := range matches {
		st, err := os.Stat(m)
		if err != nil || !st.Mode().IsRegular() {
			continue
		}
		files = append(files, m)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSources, pattern)
	}
	sort.Strings(files)
	return files, nil
}

// ReadText returns the plain text of a source file. Markdown and HTML are
// rendered and flattened; anything else is read as is.
func ReadText(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return conv.MarkdownToText(raw)
	case ".html", ".htm":
		return conv.HTMLToText(raw)
	default:
		return string(raw), nil
	}
}

// LoadFiles reads every file matched by pattern and chunks it. Files that
// cannot be read are skipped with a warning; finding nothing at all is an
// error.
func LoadFiles(ctx context.Context, pattern string, chunker *Chunker) ([]string, error) {
	logger := log.FromCtx(ctx)

	files, err := ExpandSources(pattern)
	if err != nil {
		return nil, err
	}

	var chunks []string
	for _, f := range files {
		text, err := ReadText(f)
		if err != nil {
			logger.Warn().Err(err).Str("file", f).Msg("skipping archival source")
			continue
		}
		c := chunker.Texts(text)
		logger.Debug().Str("file", f).Int("chunks", len(c)).Msg("archival source chunked")
		chunks = append(chunks, c...)
	}

	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptySource, pattern)
	}
	logger.Info().Int("files", len(files)).Int("chunks", len(chunks)).Msg("archival files loaded")
	return chunks, nil
}
