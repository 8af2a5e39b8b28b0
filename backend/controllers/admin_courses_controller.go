package controllers

import (
	"encoding/json"
	"errors"
	"strconv"

	"learnhub/backend/config"
	"learnhub/backend/coursetree"
	"learnhub/backend/middleware"
	"learnhub/backend/models"
	"learnhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AdminCoursesController owns course CRUD and the curriculum editing
// endpoints. Each content operation loads the stored tree, applies the
// corresponding coursetree operation and persists the result, so the
// order-equals-index invariant holds after every request.
type AdminCoursesController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAdminCoursesController(db *gorm.DB, cfg *config.Config) *AdminCoursesController {
	return &AdminCoursesController{DB: db, Cfg: cfg}
}

func decodeTree(content datatypes.JSON) ([]coursetree.Section, error) {
	if len(content) == 0 {
		return []coursetree.Section{}, nil
	}
	var sections []coursetree.Section
	if err := json.Unmarshal(content, &sections); err != nil {
		return nil, err
	}
	if sections == nil {
		sections = []coursetree.Section{}
	}
	return sections, nil
}

func encodeTree(sections []coursetree.Section) (datatypes.JSON, error) {
	raw, err := json.Marshal(sections)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

type CourseRequest struct {
	Title         string  `json:"title" validate:"required,min=1"`
	Subtitle      string  `json:"subtitle"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	Level         string  `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Price         float64 `json:"price" validate:"gte=0"`
	DiscountPrice float64 `json:"discount_price" validate:"gte=0"`
	ThumbnailURL  string  `json:"thumbnail_url"`
}

// CreateCourse godoc
// @Summary Create a course
// @Tags admin
// @Accept json
// @Produce json
// @Param input body CourseRequest true "Course data"
// @Success 201 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /admin/courses [post]
func (ac *AdminCoursesController) CreateCourse(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	var input CourseRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := utils.ValidateStruct(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	content, _ := encodeTree([]coursetree.Section{})
	course := models.Course{
		Title:         input.Title,
		Subtitle:      input.Subtitle,
		Description:   input.Description,
		Category:      input.Category,
		Level:         input.Level,
		Price:         input.Price,
		DiscountPrice: input.DiscountPrice,
		ThumbnailURL:  input.ThumbnailURL,
		AuthorID:      userID,
		Content:       content,
	}

	if err := ac.DB.Create(&course).Error; err != nil {
		return utils.InternalServerError(c, "Could not create course")
	}

	return utils.Created(c, course)
}

// UpdateCourse updates course metadata; curriculum goes through the content
// endpoints below.
func (ac *AdminCoursesController) UpdateCourse(c *fiber.Ctx) error {
	course, err := ac.loadCourse(c)
	if course == nil {
		return err
	}

	var input CourseRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Title != "" {
		course.Title = input.Title
	}
	if input.Subtitle != "" {
		course.Subtitle = input.Subtitle
	}
	if input.Description != "" {
		course.Description = input.Description
	}
	if input.Category != "" {
		course.Category = input.Category
	}
	if input.Level != "" {
		course.Level = input.Level
	}
	if input.Price > 0 {
		course.Price = input.Price
	}
	if input.DiscountPrice > 0 {
		course.DiscountPrice = input.DiscountPrice
	}
	if input.ThumbnailURL != "" {
		course.ThumbnailURL = input.ThumbnailURL
	}

	if err := ac.DB.Save(course).Error; err != nil {
		return utils.InternalServerError(c, "Could not update course")
	}

	return utils.Success(c, fiber.StatusOK, course)
}

// PublishCourse toggles the published flag.
func (ac *AdminCoursesController) PublishCourse(c *fiber.Ctx) error {
	course, err := ac.loadCourse(c)
	if course == nil {
		return err
	}

	var input struct {
		Published bool `json:"published"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	course.IsPublished = input.Published
	if err := ac.DB.Save(course).Error; err != nil {
		return utils.InternalServerError(c, "Could not update course")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":           course.ID,
		"is_published": course.IsPublished,
	})
}

// DeleteCourse removes the course and everything hanging off it.
func (ac *AdminCoursesController) DeleteCourse(c *fiber.Ctx) error {
	course, err := ac.loadCourse(c)
	if course == nil {
		return err
	}

	tx := ac.DB.Begin()
	if err := tx.Where("course_id = ?", course.ID).Delete(&models.Enrollment{}).Error; err != nil {
		tx.Rollback()
		return utils.InternalServerError(c, "Could not delete course")
	}
	if err := tx.Where("course_id = ?", course.ID).Delete(&models.CourseReview{}).Error; err != nil {
		tx.Rollback()
		return utils.InternalServerError(c, "Could not delete course")
	}
	if err := tx.Delete(course).Error; err != nil {
		tx.Rollback()
		return utils.InternalServerError(c, "Could not delete course")
	}
	tx.Commit()

	return utils.Success(c, fiber.StatusOK, fiber.Map{"deleted": course.ID})
}

// GetContent returns the stored curriculum tree.
func (ac *AdminCoursesController) GetContent(c *fiber.Ctx) error {
	course, err := ac.loadCourse(c)
	if course == nil {
		return err
	}

	tree, derr := decodeTree(course.Content)
	if derr != nil {
		return utils.InternalServerError(c, "Corrupt course content")
	}

	return utils.Success(c, fiber.StatusOK, tree)
}

// ReplaceContent swaps in a whole tree sent by the editor. The tree is
// normalized so stored order values always equal positions.
func (ac *AdminCoursesController) ReplaceContent(c *fiber.Ctx) error {
	course, err := ac.loadCourse(c)
	if course == nil {
		return err
	}

	var sections []coursetree.Section
	if err := json.Unmarshal(c.Body(), &sections); err != nil {
		return utils.BadRequest(c, "Cannot parse content tree")
	}

	return ac.saveTree(c, course, coursetree.Normalize(sections))
}

// AddSection appends a placeholder section.
func (ac *AdminCoursesController) AddSection(c *fiber.Ctx) error {
	return ac.withTree(c, func(sections []coursetree.Section) ([]coursetree.Section, error) {
		return coursetree.AddSection(sections), nil
	})
}

// AddSubsection appends a placeholder subsection to the section at :si.
func (ac *AdminCoursesController) AddSubsection(c *fiber.Ctx) error {
	si, err := pathIndex(c, "si")
	if err != nil {
		return utils.BadRequest(c, "Invalid section index")
	}
	return ac.withTree(c, func(sections []coursetree.Section) ([]coursetree.Section, error) {
		return coursetree.AddSubsection(sections, si)
	})
}

// AddContentItem appends a placeholder lecture to the subsection at :si/:ssi.
func (ac *AdminCoursesController) AddContentItem(c *fiber.Ctx) error {
	si, err := pathIndex(c, "si")
	if err != nil {
		return utils.BadRequest(c, "Invalid section index")
	}
	ssi, err := pathIndex(c, "ssi")
	if err != nil {
		return utils.BadRequest(c, "Invalid subsection index")
	}
	return ac.withTree(c, func(sections []coursetree.Section) ([]coursetree.Section, error) {
		return coursetree.AddContentItem(sections, si, ssi)
	})
}

type fieldUpdateRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// UpdateSectionField sets one field on a section.
func (ac *AdminCoursesController) UpdateSectionField(c *fiber.Ctx) error {
	si, err := pathIndex(c, "si")
	if err != nil {
		return utils.BadRequest(c, "Invalid section index")
	}
	var input fieldUpdateRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	return ac.withTree(c, func(sections []coursetree.Section) ([]coursetree.Section, error) {
		return coursetree.UpdateSection(sections, si, coursetree.Field(input.Field), input.Value)
	})
}

// UpdateSubsectionField sets one field on a subsection.
func (ac *AdminCoursesController) UpdateSubsectionField(c *fiber.Ctx) error {
	si, err := pathIndex(c, "si")
	if err != nil {
		return utils.BadRequest(c, "Invalid section index")
	}
	ssi, err := pathIndex(c, "ssi")
	if err != nil {
		return utils.BadRequest(c, "Invalid subsection index")
	}
	var input fieldUpdateRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	return ac.withTree(c, func(sections []coursetree.Section) ([]coursetree.Section, error) {
		return coursetree.UpdateSubsection(sections, si, ssi, coursetree.Field(input.Field), input.Value)
	})
}

type contentUpdateRequest struct {
	Field  string `json:"field"`
	Value  string `json:"value"`
	Type   string `json:"type"`
	IsFree *bool  `json:"isFree"`
}

// UpdateContentItem sets one attribute on a content item. String fields go
// through field/value; type switches and the free-preview flag have their
// own keys because they are not plain strings.
func (ac *AdminCoursesController) UpdateContentItem(c *fiber.Ctx) error {
	si, err := pathIndex(c, "si")
	if err != nil {
		return utils.BadRequest(c, "Invalid section index")
	}
	ssi, err := pathIndex(c, "ssi")
	if err != nil {
		return utils.BadRequest(c, "Invalid subsection index")
	}
	ci, err := pathIndex(c, "ci")
	if err != nil {
		return utils.BadRequest(c, "Invalid content index")
	}

	var input contentUpdateRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	return ac.withTree(c, func(sections []coursetree.Section) ([]coursetree.Section, error) {
		var opErr error
		if input.Type != "" {
			sections, opErr = coursetree.SetContentType(sections, si, ssi, ci, coursetree.ContentType(input.Type))
			if opErr != nil {
				return nil, opErr
			}
		}
		if input.IsFree != nil {
			sections, opErr = coursetree.SetContentFree(sections, si, ssi, ci, *input.IsFree)
			if opErr != nil {
				return nil, opErr
			}
		}
		if input.Field != "" {
			sections, opErr = coursetree.UpdateContent(sections, si, ssi, ci, coursetree.Field(input.Field), input.Value)
			if opErr != nil {
				return nil, opErr
			}
		}
		return sections, nil
	})
}

// DeleteSection removes a section and cascades to its descendants.
func (ac *AdminCoursesController) DeleteSection(c *fiber.Ctx) error {
	si, err := pathIndex(c, "si")
	if err != nil {
		return utils.BadRequest(c, "Invalid section index")
	}
	return ac.withTree(c, func(sections []coursetree.Section) ([]coursetree.Section, error) {
		return coursetree.DeleteSection(sections, si)
	})
}

// DeleteSubsection removes a subsection and its content items.
func (ac *AdminCoursesController) DeleteSubsection(c *fiber.Ctx) error {
	si, err := pathIndex(c, "si")
	if err != nil {
		return utils.BadRequest(c, "Invalid section index")
	}
	ssi, err := pathIndex(c, "ssi")
	if err != nil {
		return utils.BadRequest(c, "Invalid subsection index")
	}
	return ac.withTree(c, func(sections []coursetree.Section) ([]coursetree.Section, error) {
		return coursetree.DeleteSubsection(sections, si, ssi)
	})
}

// DeleteContentItem removes a single lecture or article.
func (ac *AdminCoursesController) DeleteContentItem(c *fiber.Ctx) error {
	si, err := pathIndex(c, "si")
	if err != nil {
		return utils.BadRequest(c, "Invalid section index")
	}
	ssi, err := pathIndex(c, "ssi")
	if err != nil {
		return utils.BadRequest(c, "Invalid subsection index")
	}
	ci, err := pathIndex(c, "ci")
	if err != nil {
		return utils.BadRequest(c, "Invalid content index")
	}
	return ac.withTree(c, func(sections []coursetree.Section) ([]coursetree.Section, error) {
		return coursetree.DeleteContentItem(sections, si, ssi, ci)
	})
}

func pathIndex(c *fiber.Ctx, name string) (int, error) {
	return strconv.Atoi(c.Params(name))
}

func (ac *AdminCoursesController) loadCourse(c *fiber.Ctx) (*models.Course, error) {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return nil, utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := ac.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound(c, "Course not found")
		}
		return nil, utils.InternalServerError(c, "Could not query database")
	}
	return &course, nil
}

// withTree loads the course, applies a tree operation and saves the result.
// Tree errors (bad index, unknown field, bad type) come back as 400s.
func (ac *AdminCoursesController) withTree(c *fiber.Ctx, op func([]coursetree.Section) ([]coursetree.Section, error)) error {
	course, err := ac.loadCourse(c)
	if course == nil {
		return err
	}

	tree, derr := decodeTree(course.Content)
	if derr != nil {
		return utils.InternalServerError(c, "Corrupt course content")
	}

	next, oerr := op(tree)
	if oerr != nil {
		if errors.Is(oerr, coursetree.ErrIndexOutOfRange) ||
			errors.Is(oerr, coursetree.ErrUnknownField) ||
			errors.Is(oerr, coursetree.ErrBadContentType) {
			return utils.BadRequest(c, oerr.Error())
		}
		return utils.InternalServerError(c, "Content operation failed")
	}

	return ac.saveTree(c, course, next)
}

func (ac *AdminCoursesController) saveTree(c *fiber.Ctx, course *models.Course, sections []coursetree.Section) error {
	content, err := encodeTree(sections)
	if err != nil {
		return utils.InternalServerError(c, "Could not encode content")
	}

	course.Content = content
	if err := ac.DB.Save(course).Error; err != nil {
		return utils.InternalServerError(c, "Could not save content")
	}

	return utils.Success(c, fiber.StatusOK, sections)
}
