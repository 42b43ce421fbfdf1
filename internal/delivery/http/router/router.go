// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"deckbox/internal/delivery/http/middleware"
	"deckbox/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler     *handler.UserHandler
	BoxHandler      *handler.BoxHandler
	CardHandler     *handler.CardHandler
	TemplateHandler *handler.TemplateHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler     *handler.UserHandler
	boxHandler      *handler.BoxHandler
	cardHandler     *handler.CardHandler
	templateHandler *handler.TemplateHandler
	authMiddleware  *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:     params.UserHandler,
		boxHandler:      params.BoxHandler,
		cardHandler:     params.CardHandler,
		templateHandler: params.TemplateHandler,
		authMiddleware:  params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
// Design routes run behind Identify: guests work anonymously and a Bearer
// token scopes the same routes to the signed-in user. Authenticate guards
// only the routes that are meaningless without an account.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.userHandler.Register)
		authGroup.POST("/login", r.userHandler.Login)
		authGroup.GET("/profile", r.userHandler.GetProfile, r.authMiddleware.Authenticate)
	}

	// Public share link, no identity at all
	e.GET("/public/boxes/:boxId", r.boxHandler.GetPublicBox)

	// Box routes
	boxGroup := e.Group("/boxes", r.authMiddleware.Identify)
	{
		boxGroup.POST("", r.boxHandler.CreateBox)
		boxGroup.POST("/generate", r.boxHandler.GenerateDeck)
		boxGroup.GET("", r.boxHandler.ListBoxes, r.authMiddleware.Authenticate)
		boxGroup.GET("/:boxId", r.boxHandler.GetBox)
		boxGroup.PATCH("/:boxId", r.boxHandler.UpdateBox)
		boxGroup.DELETE("/:boxId", r.boxHandler.DeleteBox)
		boxGroup.POST("/:boxId/toggle-public", r.boxHandler.TogglePublic)
		boxGroup.POST("/:boxId/claim", r.boxHandler.Claim, r.authMiddleware.Authenticate)

		// Packaging faces
		boxGroup.POST("/:boxId/faces/:face/elements", r.boxHandler.AddBoxElement)
		boxGroup.PATCH("/:boxId/elements/:elementId", r.boxHandler.UpdateBoxElement)
		boxGroup.DELETE("/:boxId/elements/:elementId", r.boxHandler.DeleteBoxElement)

		// Cards live under their box only for creation and template lookup
		boxGroup.POST("/:boxId/cards", r.cardHandler.CreateCard)
		boxGroup.GET("/:boxId/template", r.templateHandler.GetTemplateForBox)
	}

	// Card routes
	cardGroup := e.Group("/cards", r.authMiddleware.Identify)
	{
		cardGroup.GET("/:cardId", r.cardHandler.GetCard)
		cardGroup.PATCH("/:cardId", r.cardHandler.UpdateCard)
		cardGroup.DELETE("/:cardId", r.cardHandler.DeleteCard)
		cardGroup.POST("/:cardId/detach", r.cardHandler.Detach)
		cardGroup.POST("/:cardId/promote", r.cardHandler.Promote)

		cardGroup.POST("/:cardId/elements", r.cardHandler.AddCardElement)
		cardGroup.PATCH("/:cardId/elements/:elementId", r.cardHandler.UpdateCardElement)
		cardGroup.DELETE("/:cardId/elements/:elementId", r.cardHandler.DeleteCardElement)
	}

	// Template routes
	templateGroup := e.Group("/templates", r.authMiddleware.Identify)
	{
		templateGroup.GET("/:templateId", r.templateHandler.GetTemplate)
		templateGroup.POST("/:templateId/elements", r.templateHandler.AddTemplateElement)
		templateGroup.PATCH("/:templateId/elements/:elementId", r.templateHandler.UpdateTemplateElement)
		templateGroup.DELETE("/:templateId/elements/:elementId", r.templateHandler.DeleteTemplateElement)
	}
}
