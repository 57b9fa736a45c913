package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/facturia/facturia-api/internal/application/billing"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	DocumentUC *billing.DocumentUseCase
	PartyUC    *billing.PartyUseCase
	IssuerUC   *billing.IssuerUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Issuer profile (protegido)
	issuerHandler := NewIssuerHandler(deps.IssuerUC)
	protected.Get("/issuer", issuerHandler.Get)
	protected.Put("/issuer", issuerHandler.Upsert)

	// Parties (protegido)
	parties := protected.Group("/parties")
	partyHandler := NewPartyHandler(deps.PartyUC)
	parties.Post("/", partyHandler.Create)
	parties.Get("/", partyHandler.List)
	parties.Get("/:id", partyHandler.GetByID)
	parties.Put("/:id", partyHandler.Update)

	// Documents (protegido)
	documents := protected.Group("/documents")
	documentHandler := NewDocumentHandler(deps.DocumentUC)
	documents.Post("/", documentHandler.Create)
	documents.Get("/", documentHandler.List)
	documents.Post("/totals", documentHandler.Totals)
	documents.Post("/sweep-overdue", documentHandler.SweepOverdue)
	documents.Get("/:id", documentHandler.GetByID)
	documents.Put("/:id", documentHandler.Update)
	documents.Delete("/:id", documentHandler.Delete)
	documents.Post("/:id/send", documentHandler.Send)
	documents.Post("/:id/pay", documentHandler.MarkPaid)
	documents.Get("/:id/status", documentHandler.Status)
}
