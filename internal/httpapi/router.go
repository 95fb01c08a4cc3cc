// Package httpapi exposes the boards repository as a JSON API.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"contactboard/internal/domain"
)

// Boards is the subset of the repository the API needs.
type Boards interface {
	Load(ctx context.Context) (domain.AppData, error)
	ListBoards(ctx context.Context) ([]domain.Board, error)
	GetBoard(ctx context.Context, id string) (domain.Board, bool, error)
	CreateBoard(ctx context.Context, name string) (domain.Board, error)
	DeleteBoard(ctx context.Context, id string) error
	AddContact(ctx context.Context, boardID string, fields domain.ContactFields) (domain.Contact, error)
	UpdateContact(ctx context.Context, boardID, contactID string, patch domain.ContactPatch) (domain.Contact, error)
	DeleteContact(ctx context.Context, boardID, contactID string) error
}

// Handler serves the boards API.
type Handler struct {
	boards Boards
	log    logrus.FieldLogger
}

// NewHandler creates the API handler.
func NewHandler(boards Boards, logger logrus.FieldLogger) *Handler {
	return &Handler{
		boards: boards,
		log:    logger.WithField("component", "http_api"),
	}
}

// Register attaches the board routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/boards", h.listBoards)
	rg.POST("/boards", h.createBoard)
	rg.GET("/boards/:id", h.getBoard)
	rg.DELETE("/boards/:id", h.deleteBoard)
	rg.POST("/boards/:id/contacts", h.addContact)
	rg.PATCH("/boards/:id/contacts/:contactId", h.updateContact)
	rg.DELETE("/boards/:id/contacts/:contactId", h.deleteContact)
	rg.GET("/export", h.export)
}

// NewRouter builds the engine with logging, recovery, CORS and all routes.
func NewRouter(h *Handler, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(h.log))

	if len(allowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: allowedOrigins,
			AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
			MaxAge:       12 * time.Hour,
		}))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	h.Register(r.Group("/api"))
	return r
}

func requestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Debug("Request served")
	}
}
