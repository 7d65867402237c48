package domain

import "time"

// UploadedFile describes one stored upload. It is never mutated after creation.
type UploadedFile struct {
	Filename     string    `json:"filename" dynamodbav:"filename"`
	OriginalName string    `json:"originalName" dynamodbav:"original_name"`
	MimeType     string    `json:"mimetype" dynamodbav:"mime_type"`
	Size         int64     `json:"size" dynamodbav:"size"`
	StoragePath  string    `json:"-" dynamodbav:"storage_path"`
	URL          string    `json:"url" dynamodbav:"url"`
	Hash         string    `json:"-" dynamodbav:"hash"`
	UploaderID   string    `json:"-" dynamodbav:"uploader_id,omitempty"`
	CreatedAt    time.Time `json:"-" dynamodbav:"created_at"`
}
