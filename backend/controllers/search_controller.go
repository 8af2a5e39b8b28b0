package controllers

import (
	"learnhub/backend/config"
	"learnhub/backend/models"
	"learnhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SearchController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewSearchController(db *gorm.DB, cfg *config.Config) *SearchController {
	return &SearchController{DB: db, Cfg: cfg}
}

// Search ищет одновременно по курсам и заметкам
func (sc *SearchController) Search(c *fiber.Ctx) error {
	q := c.Query("q")
	if q == "" {
		return utils.BadRequest(c, "Missing search query")
	}
	pattern := "%" + q + "%"

	var courses []models.Course
	if err := sc.DB.Where("is_published = ?", true).
		Where("LOWER(title) LIKE LOWER(?) OR LOWER(subtitle) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)",
			pattern, pattern, pattern).
		Limit(20).
		Find(&courses).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	var notes []models.Note
	if err := sc.DB.Where("LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern).
		Limit(20).
		Find(&notes).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	courseResults := make([]fiber.Map, 0, len(courses))
	for _, course := range courses {
		courseResults = append(courseResults, fiber.Map{
			"id":       course.ID,
			"title":    course.Title,
			"subtitle": course.Subtitle,
			"category": course.Category,
			"level":    course.Level,
			"price":    course.Price,
		})
	}

	noteResults := make([]fiber.Map, 0, len(notes))
	for _, note := range notes {
		noteResults = append(noteResults, fiber.Map{
			"id":      note.ID,
			"title":   note.Title,
			"subject": note.Subject,
			"price":   note.Price,
			"is_free": note.IsFree,
		})
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"courses": courseResults,
		"notes":   noteResults,
	})
}
