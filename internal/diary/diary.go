package diary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/terminator2-agent/sitekit/internal/model"
)

// FileName is the name of the exported document on the site.
const FileName = "diary_entries.json"

// headerPattern matches an entry heading and captures its timestamp.
var headerPattern = regexp.MustCompile(`(?m)^## (\d{4}-\d{2}-\d{2} \d{2}:\d{2} UTC)\s*$`)

// document is the on-disk shape of diary_entries.json.
type document struct {
	Entries []model.DiaryEntry `json:"entries"`
}

// Parse splits diary text into entries. Content is trimmed, and headings
// without content are dropped without consuming an entry number.
func Parse(text string) []model.DiaryEntry {
	locs := headerPattern.FindAllStringSubmatchIndex(text, -1)

	entries := make([]model.DiaryEntry, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		content := strings.TrimSpace(text[loc[1]:end])
		if content == "" {
			continue
		}
		entries = append(entries, model.DiaryEntry{
			EntryNum:  len(entries) + 1,
			Timestamp: strings.TrimSpace(text[loc[2]:loc[3]]),
			Content:   content,
		})
	}
	return entries
}

// ParseFile reads and parses a Markdown diary. It returns ErrNoEntries
// when the file holds no entry.
func ParseFile(path string) ([]model.DiaryEntry, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is chosen by the user
	if err != nil {
		return nil, fmt.Errorf("failed to read diary: %w", err)
	}
	entries := Parse(string(data))
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoEntries, path)
	}
	return entries, nil
}

// Export writes entries as {"entries": [...]}. Markup in entry content is
// written verbatim rather than as < escapes.
func Export(w io.Writer, entries []model.DiaryEntry) error {
	if entries == nil {
		entries = []model.DiaryEntry{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(document{Entries: entries}); err != nil {
		return fmt.Errorf("failed to encode diary entries: %w", err)
	}
	return nil
}

// ExportFile writes entries to path. The file is replaced atomically, so a
// reader never sees a partial document.
func ExportFile(path string, entries []model.DiaryEntry) error {
	var buf bytes.Buffer
	if err := Export(&buf, entries); err != nil {
		return err
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Decode parses a diary_entries.json document. Both the exported object
// form and a bare array are accepted. Entries without a number are
// numbered by their position.
func Decode(data []byte) ([]model.DiaryEntry, error) {
	data = bytes.TrimSpace(data)

	var entries []model.DiaryEntry
	switch {
	case bytes.HasPrefix(data, []byte("[")):
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
	case bytes.HasPrefix(data, []byte("{")):
		var doc document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
		entries = doc.Entries
	default:
		return nil, ErrInvalidDocument
	}

	for i := range entries {
		if entries[i].EntryNum == 0 {
			entries[i].EntryNum = i + 1
		}
	}
	return entries, nil
}

// ReadFile reads a diary_entries.json document from path.
func ReadFile(path string) ([]model.DiaryEntry, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is chosen by the user
	if err != nil {
		return nil, fmt.Errorf("failed to read diary entries: %w", err)
	}
	entries, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}
