package api

import (
	"docportal/docs"
	"docportal/internal/api/handlers"
	"docportal/internal/models"
	"docportal/pkg/auth"
	"docportal/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth          *handlers.AuthHandler
	Documents     *handlers.DocumentHandler
	Employees     *handlers.EmployeeHandler
	Notifications *handlers.NotificationHandler
	Files         *handlers.FileHandler
}

// multipartOverhead leaves room for form fields around the file itself.
const multipartOverhead = 1 << 20

func SetupRouter(h Handlers, jwtManager *auth.JWTManager, maxUploadBytes int64, appLogger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: int(maxUploadBytes) + multipartOverhead,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			if code >= fiber.StatusInternalServerError {
				appLogger.Error("Unhandled request error", zap.Error(err), zap.String("path", c.Path()))
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	// importing docs registers the swagger spec through init()
	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Signed links authenticate through their token, not a bearer header.
	app.Get("/files/:ref", h.Files.ServeFile)

	authRoutes := app.Group("/user/auth")
	authRoutes.Post("/login", h.Auth.Login)
	authRoutes.Post("/refresh", h.Auth.RefreshToken)

	protected := app.Group("/api/v1", middleware.AuthMiddleware(jwtManager, appLogger))
	adminOnly := middleware.RequireRole(string(models.RoleAdmin))

	documents := protected.Group("/documents")
	documents.Post("/upload", adminOnly, h.Documents.UploadDocument)
	documents.Get("/pending", adminOnly, h.Documents.ListPending)
	documents.Get("/assigned", h.Documents.ListAssigned)
	documents.Get("/:id", h.Documents.GetDocument)
	documents.Get("/:id/url", h.Documents.FileURL)
	documents.Get("/:id/assignments", adminOnly, h.Documents.ListAssignments)
	documents.Post("/:id/review", adminOnly, h.Documents.StartReview)
	documents.Post("/:id/approve", adminOnly, h.Documents.Approve)
	documents.Post("/:id/reject", adminOnly, h.Documents.Reject)
	documents.Post("/:id/enrich", adminOnly, h.Documents.RetryEnrichment)

	protected.Get("/employees", adminOnly, h.Employees.ListEmployees)

	notifications := protected.Group("/notifications")
	notifications.Get("", h.Notifications.ListNotifications)
	notifications.Post("/:id/read", h.Notifications.MarkRead)

	return app
}
