package handler

import (
	"github.com/dafibh/huddle/huddle-backend/internal/middleware"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Handlers groups every HTTP handler the API serves
type Handlers struct {
	Health       *HealthHandler
	Docs         *DocsHandler
	User         *UserHandler
	Workspace    *WorkspaceHandler
	Member       *MemberHandler
	Channel      *ChannelHandler
	Conversation *ConversationHandler
	Message      *MessageHandler
	Upload       *UploadHandler
}

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, h Handlers) {
	e.GET("/health", h.Health.Health)

	// API docs
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/openapi.json", h.Docs.ServeOpenAPI3Spec)

	// API version 1. Every route accepts anonymous callers; services decide
	// what an anonymous caller gets.
	api := e.Group("/api/v1")
	api.Use(authMiddleware.Identify())
	api.Use(middleware.RateLimitMiddleware(rateLimiter))

	api.GET("/users/me", h.User.GetCurrentUser)

	// Workspace routes
	workspaces := api.Group("/workspaces")
	workspaces.GET("", h.Workspace.GetWorkspaces)
	workspaces.POST("", h.Workspace.CreateWorkspace)
	workspaces.GET("/:id", h.Workspace.GetWorkspace)
	workspaces.GET("/:id/info", h.Workspace.GetWorkspaceInfo)
	workspaces.PATCH("/:id", h.Workspace.RenameWorkspace)
	workspaces.DELETE("/:id", h.Workspace.DeleteWorkspace)
	workspaces.POST("/:id/join", h.Workspace.JoinWorkspace)
	workspaces.POST("/:id/join-code", h.Workspace.RegenerateJoinCode)
	workspaces.GET("/:id/members", h.Member.GetMembers)
	workspaces.GET("/:id/members/current", h.Member.GetCurrentMember)
	workspaces.GET("/:id/channels", h.Channel.GetChannels)
	workspaces.POST("/:id/channels", h.Channel.CreateChannel)
	workspaces.POST("/:id/conversations", h.Conversation.CreateOrGetConversation)

	// Member routes
	members := api.Group("/members")
	members.GET("/:id", h.Member.GetMember)
	members.PATCH("/:id", h.Member.UpdateMemberRole)
	members.DELETE("/:id", h.Member.DeleteMember)

	// Channel routes
	channels := api.Group("/channels")
	channels.GET("/:id", h.Channel.GetChannel)
	channels.PATCH("/:id", h.Channel.UpdateChannel)
	channels.DELETE("/:id", h.Channel.DeleteChannel)

	api.GET("/conversations/:id", h.Conversation.GetConversation)

	// Message routes
	messages := api.Group("/messages")
	messages.GET("", h.Message.GetMessages)
	messages.POST("", h.Message.CreateMessage)
	messages.GET("/:id", h.Message.GetMessage)
	messages.PATCH("/:id", h.Message.UpdateMessage)
	messages.DELETE("/:id", h.Message.DeleteMessage)
	messages.POST("/:id/reactions", h.Message.ToggleReaction)

	// Upload routes (caller required)
	api.POST("/uploads", h.Upload.CreateUpload, middleware.RequireCaller())
}
