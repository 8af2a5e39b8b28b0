package controllers

import (
	"errors"
	"strconv"

	"learnhub/backend/config"
	"learnhub/backend/coursetree"
	"learnhub/backend/middleware"
	"learnhub/backend/models"
	"learnhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CoursesController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewCoursesController(db *gorm.DB, cfg *config.Config) *CoursesController {
	return &CoursesController{DB: db, Cfg: cfg}
}

// GetCourses godoc
// @Summary Browse the course catalog
// @Description Lists published courses with optional filters
// @Tags courses
// @Produce json
// @Param category query string false "Category filter"
// @Param level query string false "Level filter"
// @Param search query string false "Search in title and subtitle"
// @Param sort query string false "newest, price, popularity"
// @Success 200 {object} utils.PaginatedResponse
// @Router /courses [get]
func (cc *CoursesController) GetCourses(c *fiber.Ctx) error {
	category := c.Query("category")
	level := c.Query("level")
	search := c.Query("search")
	sort := c.Query("sort", "newest")
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("pageSize", 20)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := cc.DB.Model(&models.Course{}).Where("is_published = ?", true)

	if category != "" {
		query = query.Where("category = ?", category)
	}
	if level != "" {
		query = query.Where("level = ?", level)
	}
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("LOWER(title) LIKE LOWER(?) OR LOWER(subtitle) LIKE LOWER(?)", pattern, pattern)
	}

	switch sort {
	case "price":
		query = query.Order("price ASC")
	case "popularity":
		query = query.Order("(SELECT COUNT(*) FROM enrollments WHERE enrollments.course_id = courses.id) DESC")
	default: // newest
		query = query.Order("created_at DESC")
	}

	var total int64
	query.Count(&total)

	var courses []models.Course
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).Find(&courses).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	result := make([]fiber.Map, 0, len(courses))
	for _, course := range courses {
		tree, err := decodeTree(course.Content)
		if err != nil {
			tree = []coursetree.Section{}
		}

		var avgRating float64
		cc.DB.Model(&models.CourseReview{}).
			Select("COALESCE(AVG(rating), 0)").
			Where("course_id = ?", course.ID).
			Scan(&avgRating)

		result = append(result, fiber.Map{
			"id":             course.ID,
			"title":          course.Title,
			"subtitle":       course.Subtitle,
			"category":       course.Category,
			"level":          course.Level,
			"price":          course.Price,
			"discount_price": course.DiscountPrice,
			"thumbnail_url":  course.ThumbnailURL,
			"rating":         avgRating,
			"stats":          coursetree.Stats(tree),
		})
	}

	return utils.Paginate(c, result, total, page, pageSize)
}

// GetCourseDetails godoc
// @Summary Course details with curriculum outline
// @Description Enrolled users and admins receive the full content tree;
// everyone else gets the outline with non-free lecture payloads stripped.
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /courses/{id} [get]
func (cc *CoursesController) GetCourseDetails(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := cc.DB.Preload("Reviews").First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	userID, authed := middleware.UserID(c)
	entitled := false
	enrolled := false
	if authed {
		enrolled = cc.isEnrolled(userID, course.ID)
		entitled = enrolled || cc.isAdmin(userID)
	}

	if !course.IsPublished && !entitled {
		return utils.NotFound(c, "Course not found")
	}

	tree, err := decodeTree(course.Content)
	if err != nil {
		return utils.InternalServerError(c, "Corrupt course content")
	}
	if !entitled {
		tree = coursetree.Preview(tree)
	}

	var avgRating float64
	cc.DB.Model(&models.CourseReview{}).
		Select("COALESCE(AVG(rating), 0)").
		Where("course_id = ?", course.ID).
		Scan(&avgRating)

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":             course.ID,
		"title":          course.Title,
		"subtitle":       course.Subtitle,
		"description":    course.Description,
		"category":       course.Category,
		"level":          course.Level,
		"price":          course.Price,
		"discount_price": course.DiscountPrice,
		"thumbnail_url":  course.ThumbnailURL,
		"is_published":   course.IsPublished,
		"rating":         avgRating,
		"reviews":        course.Reviews,
		"stats":          coursetree.Stats(tree),
		"content":        tree,
		"enrolled":       enrolled,
	})
}

// EnrollFree godoc
// @Summary Enroll in a free course
// @Description Paid courses go through the cart; this endpoint only accepts
// courses whose effective price is zero.
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 201 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id}/enroll [post]
func (cc *CoursesController) EnrollFree(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if !course.IsPublished {
		return utils.NotFound(c, "Course not found")
	}
	if course.EffectivePrice() > 0 {
		return utils.BadRequest(c, "Course is not free")
	}
	if cc.isEnrolled(userID, course.ID) {
		return utils.BadRequest(c, "Already enrolled")
	}

	enrollment := models.Enrollment{UserID: userID, CourseID: course.ID}
	if err := cc.DB.Create(&enrollment).Error; err != nil {
		return utils.InternalServerError(c, "Could not enroll")
	}

	return utils.Created(c, enrollment)
}

func (cc *CoursesController) isEnrolled(userID, courseID uint) bool {
	var count int64
	cc.DB.Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count)
	return count > 0
}

func (cc *CoursesController) isAdmin(userID uint) bool {
	var user models.User
	if err := cc.DB.First(&user, userID).Error; err != nil {
		return false
	}
	return user.IsAdmin()
}
