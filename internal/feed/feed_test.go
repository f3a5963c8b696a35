package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/terminator2-agent/sitekit/internal/model"
)

var buildTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return buildTime }

func entries(n int) []model.DiaryEntry {
	out := make([]model.DiaryEntry, n)
	for i := range out {
		out[i] = model.DiaryEntry{
			EntryNum:  i + 1,
			Timestamp: fmt.Sprintf("2026-02-%02d 09:00 UTC", i%28+1),
			Content:   fmt.Sprintf("Entry number %d.\nMore text.", i+1),
		}
	}
	return out
}

func TestBuild(t *testing.T) {
	t.Parallel()

	t.Run("latest entries newest first", func(t *testing.T) {
		t.Parallel()

		rss := Build(entries(25), WithClock(fixedClock))
		items := rss.Channel.Items
		if len(items) != DefaultLimit {
			t.Fatalf("len(items) = %d, want %d", len(items), DefaultLimit)
		}
		if items[0].Title != "Cycle 25: Entry number 25." {
			t.Errorf("first title = %q", items[0].Title)
		}
		if items[len(items)-1].Title != "Cycle 6: Entry number 6." {
			t.Errorf("last title = %q", items[len(items)-1].Title)
		}
	})

	t.Run("channel metadata", func(t *testing.T) {
		t.Parallel()

		rss := Build(nil, WithSiteURL("https://example.org/"), WithTitle("T"), WithDescription("D"), WithClock(fixedClock))
		want := Channel{
			Title:         "T",
			Link:          "https://example.org",
			Description:   "D",
			Language:      "en",
			LastBuildDate: "Sun, 01 Mar 2026 12:00:00 +0000",
			AtomLink: AtomLink{
				Href: "https://example.org/feed.xml",
				Rel:  "self",
				Type: "application/rss+xml",
			},
			Items: []Item{},
		}
		if diff := cmp.Diff(want, rss.Channel); diff != "" {
			t.Errorf("Channel mismatch (-want +got):\n%s", diff)
		}
		if rss.Version != "2.0" || rss.AtomNS != "http://www.w3.org/2005/Atom" {
			t.Errorf("Version = %q, AtomNS = %q", rss.Version, rss.AtomNS)
		}
	})

	t.Run("item fields", func(t *testing.T) {
		t.Parallel()

		rss := Build([]model.DiaryEntry{{
			EntryNum:  7,
			Timestamp: "2026-02-14 18:30 UTC",
			Content:   "Short opener\nbody",
		}}, WithClock(fixedClock))
		want := Item{
			Title:       "Cycle 7: Short opener",
			Link:        "https://terminator2-agent.github.io/?entry=7",
			GUID:        GUID{IsPermaLink: true, Value: "https://terminator2-agent.github.io/?entry=7"},
			Description: "Short opener\nbody",
			PubDate:     "Sat, 14 Feb 2026 18:30:00 +0000",
		}
		if diff := cmp.Diff(want, rss.Channel.Items[0]); diff != "" {
			t.Errorf("Item mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("limit option", func(t *testing.T) {
		t.Parallel()

		rss := Build(entries(5), WithLimit(2), WithClock(fixedClock))
		if len(rss.Channel.Items) != 2 {
			t.Errorf("len(items) = %d, want 2", len(rss.Channel.Items))
		}
		rss = Build(entries(5), WithLimit(0), WithClock(fixedClock))
		if len(rss.Channel.Items) != 5 {
			t.Errorf("WithLimit(0) should be ignored, got %d items", len(rss.Channel.Items))
		}
	})
}

func TestItemTitle(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 100)
	tests := []struct {
		name  string
		entry model.DiaryEntry
		want  string
	}{
		{name: "short first line", entry: model.DiaryEntry{EntryNum: 3, Content: "  Hello  \nworld"}, want: "Cycle 3: Hello"},
		{name: "long first line", entry: model.DiaryEntry{EntryNum: 3, Content: long}, want: "Cycle 3"},
		{name: "99 characters fits", entry: model.DiaryEntry{EntryNum: 3, Content: long[:99]}, want: "Cycle 3: " + long[:99]},
		{name: "blank first line", entry: model.DiaryEntry{EntryNum: 3, Content: "\nsecond"}, want: "Cycle 3"},
		{name: "unnumbered", entry: model.DiaryEntry{Content: "Hi"}, want: "Entry: Hi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := itemTitle(tt.entry); got != tt.want {
				t.Errorf("itemTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestItemWithoutTimestamp(t *testing.T) {
	t.Parallel()

	rss := Build([]model.DiaryEntry{{Content: "x", Timestamp: "yesterday"}}, WithClock(fixedClock))
	item := rss.Channel.Items[0]
	if item.PubDate != "" {
		t.Errorf("PubDate = %q, want empty", item.PubDate)
	}
	if item.Link != "https://terminator2-agent.github.io/" {
		t.Errorf("Link = %q", item.Link)
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		n    int
		want string
	}{
		{name: "short", text: "hello world", n: 20, want: "hello world"},
		{name: "exact", text: "hello", n: 5, want: "hello"},
		{name: "word boundary", text: "hello brave new world", n: 13, want: "hello brave..."},
		{name: "no space", text: "abcdefghij", n: 4, want: "abcd..."},
		{name: "counts characters", text: "ééééé ééééé", n: 8, want: "ééééé..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Truncate(tt.text, tt.n); got != tt.want {
				t.Errorf("Truncate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteTo(t *testing.T) {
	t.Parallel()

	rss := Build([]model.DiaryEntry{{
		EntryNum:  1,
		Timestamp: "2026-02-11 09:00 UTC",
		Content:   `Bought <NO> & "hedged"`,
	}}, WithClock(fixedClock))

	var buf bytes.Buffer
	if _, err := rss.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	out := buf.String()

	wantPrefix := xml.Header + `<?xml-stylesheet type="text/xsl" href="feed.xsl"?>` + "\n" +
		`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`
	if !strings.HasPrefix(out, wantPrefix) {
		t.Errorf("unexpected document start:\n%s", out)
	}
	if !strings.Contains(out, `<atom:link href="https://terminator2-agent.github.io/feed.xml" rel="self" type="application/rss+xml">`) {
		t.Error("missing atom self link")
	}
	if !strings.Contains(out, `<guid isPermaLink="true">`) {
		t.Error("missing permalink guid")
	}
	if strings.Contains(out, "<NO>") {
		t.Error("description markup was not escaped")
	}

	var decoded RSS
	if err := xml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not well-formed: %v", err)
	}
	if got := decoded.Channel.Items[0].Description; got != `Bought <NO> & "hedged"` {
		t.Errorf("decoded description = %q", got)
	}
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), FileName)
	if err := WriteFile(path, Build(entries(3), WithClock(fixedClock))); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(string(data), "<item>"); got != 3 {
		t.Errorf("items in file = %d, want 3", got)
	}
}
