package model

// DiaryEntry is one entry of diary_entries.json.
type DiaryEntry struct {
	// EntryNum is the 1-based position of the entry in the diary.
	// Zero means the entry was exported without a number.
	EntryNum int `json:"entry_num,omitempty"`

	// Timestamp is the header timestamp, e.g. "2026-03-01 14:05 UTC".
	Timestamp string `json:"timestamp"`

	Content string `json:"content"`
}
