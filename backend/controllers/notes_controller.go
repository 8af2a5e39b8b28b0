package controllers

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"learnhub/backend/config"
	"learnhub/backend/middleware"
	"learnhub/backend/models"
	"learnhub/backend/utils"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type NotesController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewNotesController(db *gorm.DB, cfg *config.Config) *NotesController {
	return &NotesController{DB: db, Cfg: cfg}
}

// ViewerProtection is the deterrent policy the document viewer applies on
// the client: context-menu suppression, save/print/devtools shortcut
// interception and blurring when the tab loses visibility.
//
// These measures are advisory only. They raise the effort of casual copying
// and are trivially bypassed with browser devtools; they are not DRM. Real
// access control happens server-side, before the payload is returned.
type ViewerProtection struct {
	Watermark          string   `json:"watermark"`
	DisableContextMenu bool     `json:"disableContextMenu"`
	BlockedShortcuts   []string `json:"blockedShortcuts"`
	BlurOnTabHidden    bool     `json:"blurOnTabHidden"`
}

var blockedShortcuts = []string{
	"ctrl+s", "ctrl+p", "ctrl+shift+s", "ctrl+shift+i", "ctrl+u", "f12",
}

// GetNotes godoc
// @Summary Browse the notes library
// @Tags notes
// @Produce json
// @Param subject query string false "Subject filter"
// @Param search query string false "Search in title and description"
// @Success 200 {object} utils.PaginatedResponse
// @Router /notes [get]
func (nc *NotesController) GetNotes(c *fiber.Ctx) error {
	subject := c.Query("subject")
	search := c.Query("search")
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("pageSize", 20)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := nc.DB.Model(&models.Note{})
	if subject != "" {
		query = query.Where("subject = ?", subject)
	}
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern)
	}

	var total int64
	query.Count(&total)

	var notes []models.Note
	if err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&notes).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	result := make([]fiber.Map, 0, len(notes))
	for _, note := range notes {
		result = append(result, fiber.Map{
			"id":          note.ID,
			"title":       note.Title,
			"description": note.Description,
			"subject":     note.Subject,
			"price":       note.Price,
			"is_free":     note.IsFree,
			"file_type":   note.FileType,
			"page_count":  note.PageCount,
		})
	}

	return utils.Paginate(c, result, total, page, pageSize)
}

// GetNoteDetails returns note metadata without the document payload.
func (nc *NotesController) GetNoteDetails(c *fiber.Ctx) error {
	noteID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid note ID")
	}

	var note models.Note
	if err := nc.DB.First(&note, noteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Note not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":          note.ID,
		"title":       note.Title,
		"description": note.Description,
		"subject":     note.Subject,
		"price":       note.Price,
		"is_free":     note.IsFree,
		"file_type":   note.FileType,
		"page_count":  note.PageCount,
	})
}

// ViewNote godoc
// @Summary Open a note in the protected viewer
// @Description Returns the document payload and the viewer's deterrent
// policy. Only free, purchased or admin-viewed notes are served.
// @Tags notes
// @Produce json
// @Param id path int true "Note ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /notes/{id}/view [get]
func (nc *NotesController) ViewNote(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	noteID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid note ID")
	}

	var note models.Note
	if err := nc.DB.First(&note, noteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Note not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var user models.User
	if err := nc.DB.First(&user, userID).Error; err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	if !note.IsFree && !user.IsAdmin() && !nc.owns(userID, note.ID) {
		return utils.Forbidden(c, "Purchase required to view this note")
	}

	protection := ViewerProtection{
		Watermark:          fmt.Sprintf("%s • %s", user.Email, time.Now().UTC().Format("2006-01-02 15:04")),
		DisableContextMenu: true,
		BlockedShortcuts:   blockedShortcuts,
		BlurOnTabHidden:    true,
	}

	document := fiber.Map{
		"file_type":  note.FileType,
		"page_count": note.PageCount,
	}
	switch note.FileType {
	case "markdown":
		document["markdown_content"] = note.MarkdownContent
	default: // pdf
		document["file_url"] = note.FileURL
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":         note.ID,
		"title":      note.Title,
		"document":   document,
		"protection": protection,
	})
}

func (nc *NotesController) owns(userID, noteID uint) bool {
	var count int64
	nc.DB.Model(&models.NotePurchase{}).
		Where("user_id = ? AND note_id = ?", userID, noteID).
		Count(&count)
	return count > 0
}

type NoteRequest struct {
	Title           string  `json:"title" validate:"required,min=1"`
	Description     string  `json:"description"`
	Subject         string  `json:"subject"`
	Price           float64 `json:"price" validate:"gte=0"`
	IsFree          bool    `json:"is_free"`
	FileType        string  `json:"file_type" validate:"omitempty,oneof=pdf markdown html"`
	FileURL         string  `json:"file_url"`
	MarkdownContent string  `json:"markdown_content"`
	HTMLContent     string  `json:"html_content"`
	PageCount       int     `json:"page_count" validate:"gte=0"`
}

// CreateNote godoc
// @Summary Upload a note
// @Description HTML bodies are converted to markdown on ingest; PDFs are
// referenced by URL.
// @Tags admin
// @Accept json
// @Produce json
// @Param input body NoteRequest true "Note data"
// @Success 201 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /admin/notes [post]
func (nc *NotesController) CreateNote(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	var input NoteRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := utils.ValidateStruct(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	note := models.Note{
		Title:           input.Title,
		Description:     input.Description,
		Subject:         input.Subject,
		Price:           input.Price,
		IsFree:          input.IsFree,
		FileType:        input.FileType,
		FileURL:         input.FileURL,
		MarkdownContent: input.MarkdownContent,
		PageCount:       input.PageCount,
		AuthorID:        userID,
	}

	if input.HTMLContent != "" || input.FileType == "html" {
		converter := md.NewConverter("", true, nil)
		markdown, err := converter.ConvertString(input.HTMLContent)
		if err != nil {
			return utils.BadRequest(c, "Could not convert HTML content")
		}
		note.FileType = "markdown"
		note.MarkdownContent = markdown
	}
	if note.FileType == "" {
		note.FileType = "pdf"
	}

	if err := nc.DB.Create(&note).Error; err != nil {
		return utils.InternalServerError(c, "Could not create note")
	}

	return utils.Created(c, note)
}

// UpdateNote updates note metadata and content.
func (nc *NotesController) UpdateNote(c *fiber.Ctx) error {
	noteID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid note ID")
	}

	var note models.Note
	if err := nc.DB.First(&note, noteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Note not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var input NoteRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Title != "" {
		note.Title = input.Title
	}
	if input.Description != "" {
		note.Description = input.Description
	}
	if input.Subject != "" {
		note.Subject = input.Subject
	}
	if input.Price > 0 {
		note.Price = input.Price
	}
	if input.FileURL != "" {
		note.FileURL = input.FileURL
	}
	if input.MarkdownContent != "" {
		note.MarkdownContent = input.MarkdownContent
	}
	if input.PageCount > 0 {
		note.PageCount = input.PageCount
	}
	note.IsFree = input.IsFree

	if err := nc.DB.Save(&note).Error; err != nil {
		return utils.InternalServerError(c, "Could not update note")
	}

	return utils.Success(c, fiber.StatusOK, note)
}

// DeleteNote removes a note from the library.
func (nc *NotesController) DeleteNote(c *fiber.Ctx) error {
	noteID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid note ID")
	}

	var note models.Note
	if err := nc.DB.First(&note, noteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Note not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if err := nc.DB.Delete(&note).Error; err != nil {
		return utils.InternalServerError(c, "Could not delete note")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"deleted": note.ID})
}
