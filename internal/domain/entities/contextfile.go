package entities

import "time"

// ContextFile is one file captured into the model's working context via the
// /add command. Path is the normalized absolute path used for deduplication.
type ContextFile struct {
	Path    string    `json:"path"`
	Display string    `json:"display"`
	Content string    `json:"content"`
	Size    int64     `json:"size"`
	AddedAt time.Time `json:"added_at"`
}

func NewContextFile(path, display, content string) *ContextFile {
	return &ContextFile{
		Path:    path,
		Display: display,
		Content: content,
		Size:    int64(len(content)),
		AddedAt: time.Now(),
	}
}
