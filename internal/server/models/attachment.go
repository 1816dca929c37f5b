package models

import "time"

// Upload states for an attachment.
const (
	UploadPending = "pending"
	UploadDone    = "uploaded"
)

// Attachment describes server-side metadata for a binary payload associated
// with a task. The payload itself is stored in object storage; the server
// only hands out presigned URLs.
type Attachment struct {
	// ID is a server-assigned UUID.
	ID string
	// TaskID links the attachment to its parent task.
	TaskID int64
	// UserID is the owner of the attachment.
	UserID int64
	// FileName is the client-supplied display name.
	FileName string
	// StorageKey is the object-storage key (path) of the blob.
	StorageKey string
	// UploadStatus tracks server-side upload state ("pending", "uploaded").
	UploadStatus string

	CreatedAt time.Time
}
