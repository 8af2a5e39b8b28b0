package models

import "gorm.io/gorm"

// Note is an uploaded study material: either a hosted PDF or markdown stored
// inline. Markdown may originate from an HTML upload converted on ingest.
type Note struct {
	gorm.Model
	Title           string `gorm:"not null"`
	Description     string
	Subject         string
	Price           float64
	IsFree          bool   `gorm:"default:false"`
	FileType        string // pdf, markdown
	FileURL         string
	MarkdownContent string
	PageCount       int
	AuthorID        uint
}

type NotePurchase struct {
	gorm.Model
	UserID  uint `gorm:"index"`
	NoteID  uint `gorm:"index"`
	OrderID uint
}
