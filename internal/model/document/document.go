package document

import "time"

// Document is a managed file in the workspace. Content is stored alongside
// metadata; the list operation returns metadata only.
type Document struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	MimeType   string    `json:"mimeType"`
	Size       int64     `json:"size"`
	Content    string    `json:"content,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// UploadRequest is the documents.upload payload.
type UploadRequest struct {
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Content  string `json:"content"`
}
