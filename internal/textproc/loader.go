package textproc

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LoadFile reads one document with lossy decoding: byte sequences that
// are not valid UTF-8 are dropped rather than failing the read.
func LoadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return decode(path, data), nil
}

// LoadFolder reads every document in dir whose name ends with ext
// (case-insensitive), in sorted name order. HTML documents are reduced
// to their visible text. Unreadable files are logged and skipped;
// a missing or non-directory path is an error.
func LoadFolder(dir, ext string, log *slog.Logger) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat folder: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read folder: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(e.Name()), strings.ToLower(ext)) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var texts []string
	for _, name := range names {
		path := filepath.Join(dir, name)
		text, err := LoadFile(path)
		if err != nil {
			log.Error("failed reading file; skipping", "path", path, "error", err)
			continue
		}
		texts = append(texts, text)
	}

	log.Info("loaded text files", "count", len(texts), "folder", dir)
	return texts, nil
}

// decode drops invalid UTF-8 and, for HTML documents, strips markup
func decode(path string, data []byte) string {
	text := strings.ToValidUTF8(string(data), "")
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		if stripped, err := ExtractHTMLText(strings.NewReader(text)); err == nil {
			return stripped
		}
	}
	return text
}
