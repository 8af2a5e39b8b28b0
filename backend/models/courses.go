package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Course struct {
	gorm.Model
	Title         string `gorm:"not null"`
	Subtitle      string
	Description   string
	Category      string
	Level         string // beginner, intermediate, advanced
	Price         float64
	DiscountPrice float64
	ThumbnailURL  string
	AuthorID      uint
	IsPublished   bool `gorm:"default:false"`
	// Content holds the serialized curriculum tree (coursetree sections).
	Content datatypes.JSON
	Reviews []CourseReview
}

// EffectivePrice is what the course actually costs at checkout.
func (c *Course) EffectivePrice() float64 {
	if c.DiscountPrice > 0 && c.DiscountPrice < c.Price {
		return c.DiscountPrice
	}
	return c.Price
}

type Enrollment struct {
	gorm.Model
	UserID   uint `gorm:"index"`
	CourseID uint `gorm:"index"`
	OrderID  uint
}

type CourseReview struct {
	gorm.Model
	CourseID uint `gorm:"index"`
	UserID   uint
	UserName string
	Text     string
	Rating   int `gorm:"check:rating>=0 AND rating<=5"`
}
