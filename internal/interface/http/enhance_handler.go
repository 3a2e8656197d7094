package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/faq-admin/internal/domain/enhancer"
)

// EnhanceStatus reports whether a model is configured. ?live=true also makes a test call.
func (h *Handler) EnhanceStatus(c *gin.Context) {
	live, _ := strconv.ParseBool(c.Query("live"))
	c.JSON(http.StatusOK, h.enhancerSvc.Status(c.Request.Context(), live))
}

func (h *Handler) ImproveQuestion(c *gin.Context) {
	var req enhancer.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, bindError(err))
		return
	}
	respond(c, func() (any, error) { return h.enhancerSvc.ImproveQuestion(c.Request.Context(), req) })
}

func (h *Handler) ImproveAnswer(c *gin.Context) {
	var req enhancer.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, bindError(err))
		return
	}
	respond(c, func() (any, error) { return h.enhancerSvc.ImproveAnswer(c.Request.Context(), req) })
}

func (h *Handler) GenerateAnswer(c *gin.Context) {
	var req enhancer.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, bindError(err))
		return
	}
	respond(c, func() (any, error) { return h.enhancerSvc.GenerateAnswer(c.Request.Context(), req) })
}

func (h *Handler) GenerateFAQs(c *gin.Context) {
	var req enhancer.TopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, bindError(err))
		return
	}
	respond(c, func() (any, error) { return h.enhancerSvc.GenerateFAQs(c.Request.Context(), req) })
}

func (h *Handler) Categorize(c *gin.Context) {
	var req enhancer.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, bindError(err))
		return
	}
	respond(c, func() (any, error) { return h.enhancerSvc.Categorize(c.Request.Context(), req) })
}

func (h *Handler) Structure(c *gin.Context) {
	var req enhancer.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, bindError(err))
		return
	}
	respond(c, func() (any, error) { return h.enhancerSvc.Suggest(c.Request.Context(), req) })
}

func (h *Handler) Related(c *gin.Context) {
	var req enhancer.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, bindError(err))
		return
	}
	respond(c, func() (any, error) { return h.enhancerSvc.Related(c.Request.Context(), req) })
}

func (h *Handler) Similar(c *gin.Context) {
	var req enhancer.SimilarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, bindError(err))
		return
	}
	respond(c, func() (any, error) { return h.enhancerSvc.Similar(c.Request.Context(), req) })
}

func respond(c *gin.Context, call func() (any, error)) {
	out, err := call()
	if err != nil {
		abortWithError(c, domainError(err, "enhance_failed"))
		return
	}
	c.JSON(http.StatusOK, out)
}
