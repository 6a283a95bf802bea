package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"schemeagent/internal/service"
)

// RegisterRoutes attaches the API routes to app.
func RegisterRoutes(
	app *fiber.App,
	db *sql.DB,
	profiles service.ProfileService,
	documents service.DocumentService,
	schemes service.SchemeService,
) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Get("/schemes", ListSchemes(schemes))
	app.Post("/schemes/discover", DiscoverSchemes(schemes))

	user := app.Group("/users/:userID")

	user.Get("/profile", GetProfile(profiles))
	user.Put("/profile", UpsertProfile(profiles))

	user.Get("/documents", ListDocuments(documents))
	user.Post("/documents", UploadDocument(documents))
	user.Get("/documents/:id", GetDocument(documents))
	user.Put("/documents/:id", UpdateDocument(documents))
	user.Delete("/documents/:id", DeleteDocument(documents))
	user.Post("/documents/:id/reprocess", ReprocessDocument(documents))

	user.Get("/schemes", ListUserSchemes(schemes))
	user.Get("/schemes/:schemeID/eligibility", EvaluateScheme(schemes))
	user.Get("/schemes/:schemeID/kit", ApplicationKit(schemes))
}
