package domain

import "time"

// Document es un PDF ingerido con su texto extraído.
type Document struct {
	ID         int64     `json:"id"`
	Filename   string    `json:"filename"`
	Content    string    `json:"content"`
	UploadDate time.Time `json:"upload_date"`
}
