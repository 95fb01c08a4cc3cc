package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"contactboard/internal/domain"
)

type createBoardReq struct {
	Name string `json:"name"`
}

func (h *Handler) listBoards(c *gin.Context) {
	boards, err := h.boards.ListBoards(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	stats := domain.AppData{Boards: boards}.Stats()
	if boards == nil {
		boards = []domain.Board{}
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "boards": boards, "stats": stats})
}

func (h *Handler) createBoard(c *gin.Context) {
	var req createBoardReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	if err := domain.ValidateBoardName(req.Name); err != nil {
		h.fail(c, err)
		return
	}

	board, err := h.boards.CreateBoard(c.Request.Context(), strings.TrimSpace(req.Name))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "board": board})
}

func (h *Handler) getBoard(c *gin.Context) {
	id := c.Param("id")
	board, ok, err := h.boards.GetBoard(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !ok {
		h.fail(c, domain.BoardNotFound(id))
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "board": board})
}

func (h *Handler) deleteBoard(c *gin.Context) {
	if err := h.boards.DeleteBoard(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) addContact(c *gin.Context) {
	var fields domain.ContactFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	fields = fields.Normalize()
	if err := fields.Validate(); err != nil {
		h.fail(c, err)
		return
	}

	contact, err := h.boards.AddContact(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "contact": contact})
}

func (h *Handler) updateContact(c *gin.Context) {
	var patch domain.ContactPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	patch = patch.Normalize()
	if err := patch.Validate(); err != nil {
		h.fail(c, err)
		return
	}

	contact, err := h.boards.UpdateContact(c.Request.Context(), c.Param("id"), c.Param("contactId"), patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "contact": contact})
}

func (h *Handler) deleteContact(c *gin.Context) {
	if err := h.boards.DeleteContact(c.Request.Context(), c.Param("id"), c.Param("contactId")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) export(c *gin.Context) {
	data, err := h.boards.Load(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// fail maps an error onto a status code and the JSON error envelope.
func (h *Handler) fail(c *gin.Context, err error) {
	var invalid *domain.ValidationError
	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid input", "fields": invalid.Fields})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": err.Error()})
	default:
		h.log.WithError(err).WithField("path", c.FullPath()).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
	}
}
