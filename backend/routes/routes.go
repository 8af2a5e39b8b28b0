package routes

import (
	"log"

	"learnhub/backend/config"
	"learnhub/backend/controllers"
	"learnhub/backend/middleware"
	"learnhub/backend/services/email"
	"learnhub/backend/services/payment"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, logger *log.Logger) {
	payments := payment.NewClient(cfg.PaymentGatewayURL, cfg.PaymentAPIKey)

	var mailer email.Mailer
	if cfg.SendgridAPIKey != "" {
		mailer = email.NewSendgridMailer(cfg.SendgridAPIKey, cfg.EmailFrom)
	} else {
		mailer = &email.ConsoleMailer{Logger: logger}
	}

	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	optionalAuth := middleware.OptionalAuthMiddleware(cfg)
	adminMiddleware := middleware.AdminMiddleware(db)

	// User routes
	userController := controllers.NewUserController(db, cfg)
	app.Get("/api/user/profile", authMiddleware, userController.GetProfile)
	app.Put("/api/user/profile", authMiddleware, userController.UpdateProfile)
	app.Get("/api/user/purchases", authMiddleware, userController.GetPurchases)

	// Search
	searchController := controllers.NewSearchController(db, cfg)
	app.Get("/api/search", searchController.Search)

	// Courses routes (public catalog)
	coursesController := controllers.NewCoursesController(db, cfg)
	reviewsController := controllers.NewReviewsController(db, cfg)
	courses := app.Group("/api/courses")
	courses.Get("/", coursesController.GetCourses)
	courses.Get("/:id", optionalAuth, coursesController.GetCourseDetails)
	courses.Post("/:id/enroll", authMiddleware, coursesController.EnrollFree)
	courses.Get("/:id/reviews", reviewsController.GetCourseReviews)
	courses.Post("/:id/reviews", authMiddleware, reviewsController.AddCourseReview)

	// Notes routes
	notesController := controllers.NewNotesController(db, cfg)
	notes := app.Group("/api/notes")
	notes.Get("/", notesController.GetNotes)
	notes.Get("/:id", notesController.GetNoteDetails)
	notes.Get("/:id/view", authMiddleware, notesController.ViewNote)

	// Cart routes
	cartController := controllers.NewCartController(db, cfg, payments, mailer, logger)
	cart := app.Group("/api/cart", authMiddleware)
	cart.Get("/", cartController.GetCart)
	cart.Post("/", cartController.AddToCart)
	cart.Delete("/:itemId", cartController.RemoveFromCart)
	cart.Post("/checkout", cartController.Checkout)

	// Admin routes for courses and curriculum content
	adminCoursesController := controllers.NewAdminCoursesController(db, cfg)
	adminCourses := app.Group("/api/admin/courses", authMiddleware, adminMiddleware)
	adminCourses.Post("/", adminCoursesController.CreateCourse)
	adminCourses.Put("/:id", adminCoursesController.UpdateCourse)
	adminCourses.Put("/:id/publish", adminCoursesController.PublishCourse)
	adminCourses.Delete("/:id", adminCoursesController.DeleteCourse)

	adminCourses.Get("/:id/content", adminCoursesController.GetContent)
	adminCourses.Put("/:id/content", adminCoursesController.ReplaceContent)
	adminCourses.Post("/:id/content/sections", adminCoursesController.AddSection)
	adminCourses.Put("/:id/content/sections/:si", adminCoursesController.UpdateSectionField)
	adminCourses.Delete("/:id/content/sections/:si", adminCoursesController.DeleteSection)
	adminCourses.Post("/:id/content/sections/:si/subsections", adminCoursesController.AddSubsection)
	adminCourses.Put("/:id/content/sections/:si/subsections/:ssi", adminCoursesController.UpdateSubsectionField)
	adminCourses.Delete("/:id/content/sections/:si/subsections/:ssi", adminCoursesController.DeleteSubsection)
	adminCourses.Post("/:id/content/sections/:si/subsections/:ssi/items", adminCoursesController.AddContentItem)
	adminCourses.Put("/:id/content/sections/:si/subsections/:ssi/items/:ci", adminCoursesController.UpdateContentItem)
	adminCourses.Delete("/:id/content/sections/:si/subsections/:ssi/items/:ci", adminCoursesController.DeleteContentItem)

	// Admin routes for notes
	adminNotes := app.Group("/api/admin/notes", authMiddleware, adminMiddleware)
	adminNotes.Post("/", notesController.CreateNote)
	adminNotes.Put("/:id", notesController.UpdateNote)
	adminNotes.Delete("/:id", notesController.DeleteNote)
}
