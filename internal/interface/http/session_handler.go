package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CurrentSession(c *gin.Context) {
	h.withSession(c, func(id string) (any, error) { return h.sessionSvc.Current(c.Request.Context(), id) })
}

func (h *Handler) SetEditing(c *gin.Context) {
	h.withSession(c, func(id string) (any, error) {
		return h.sessionSvc.SetEditing(c.Request.Context(), id, c.Param("id"))
	})
}

func (h *Handler) ClearEditing(c *gin.Context) {
	h.withSession(c, func(id string) (any, error) { return h.sessionSvc.ClearEditing(c.Request.Context(), id) })
}

func (h *Handler) SuggestForEditing(c *gin.Context) {
	h.withSession(c, func(id string) (any, error) { return h.sessionSvc.Suggest(c.Request.Context(), id) })
}

func (h *Handler) ApplySuggestion(c *gin.Context) {
	h.withSession(c, func(id string) (any, error) {
		view, err := h.sessionSvc.Apply(c.Request.Context(), id)
		if err == nil && view.Editing != nil {
			h.logger.Info("suggestion applied via api", "id", view.Editing.ID, "actor", actor(c))
		}
		return view, err
	})
}

func (h *Handler) DiscardSuggestion(c *gin.Context) {
	h.withSession(c, func(id string) (any, error) { return h.sessionSvc.Discard(c.Request.Context(), id) })
}

func (h *Handler) withSession(c *gin.Context, call func(id string) (any, error)) {
	id, err := h.cookies.id(c)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "session_error", "failed to establish session", err))
		return
	}
	out, err := call(id)
	if err != nil {
		abortWithError(c, domainError(err, "session_error"))
		return
	}
	c.JSON(http.StatusOK, out)
}

