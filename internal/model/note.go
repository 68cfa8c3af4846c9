package model

import "time"

const DefaultNoteCategory = "work"

type Note struct {
	UUID                  string    `db:"uuid" json:"id"`
	OwnerUUID             string    `db:"owner_uuid" json:"-"`
	Title                 string    `db:"title" json:"title"`
	Content               string    `db:"content" json:"content"`
	Category              string    `db:"category" json:"category"`
	AttachmentFilename    *string   `db:"attachment_filename" json:"attachment_filename,omitempty"`
	AttachmentMimeType    *string   `db:"attachment_mime_type" json:"attachment_mime_type,omitempty"`
	AttachmentStoragePath *string   `db:"attachment_storage_path" json:"-"`
	CreatedAt             time.Time `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time `db:"updated_at" json:"updated_at"`
}

func (n *Note) HasAttachment() bool {
	return n.AttachmentStoragePath != nil && *n.AttachmentStoragePath != ""
}
