package controllers

import (
	"errors"
	"strconv"

	"learnhub/backend/config"
	"learnhub/backend/middleware"
	"learnhub/backend/models"
	"learnhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ReviewsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewReviewsController(db *gorm.DB, cfg *config.Config) *ReviewsController {
	return &ReviewsController{DB: db, Cfg: cfg}
}

type AddReviewRequest struct {
	Text   string `json:"text"`
	Rating int    `json:"rating" validate:"gte=0,lte=5"`
}

// AddCourseReview godoc
// @Summary Add a review to a course
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param input body AddReviewRequest true "Review data"
// @Success 200 {object} models.CourseReview
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id}/reviews [post]
func (rc *ReviewsController) AddCourseReview(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var input AddReviewRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := utils.ValidateStruct(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	var course models.Course
	if err := rc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var user models.User
	if err := rc.DB.First(&user, userID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	review := models.CourseReview{
		CourseID: course.ID,
		UserID:   userID,
		UserName: user.Username,
		Text:     input.Text,
		Rating:   input.Rating,
	}

	if err := rc.DB.Create(&review).Error; err != nil {
		return utils.InternalServerError(c, "Could not create review")
	}

	return c.JSON(review)
}

// GetCourseReviews lists reviews for a course.
func (rc *ReviewsController) GetCourseReviews(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var reviews []models.CourseReview
	if err := rc.DB.Where("course_id = ?", courseID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return c.JSON(reviews)
}
