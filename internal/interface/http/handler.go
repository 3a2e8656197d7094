package http

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/faq-admin/internal/domain/auth"
	"github.com/yanqian/faq-admin/internal/domain/enhancer"
	"github.com/yanqian/faq-admin/internal/domain/faq"
	"github.com/yanqian/faq-admin/internal/domain/session"
	"github.com/yanqian/faq-admin/internal/infra/config"
)

const migrateBodyLimit = 8 << 20

// Handler wires the HTTP transport to domain services.
type Handler struct {
	faqSvc      faq.Service
	enhancerSvc enhancer.Service
	sessionSvc  session.Service
	authSvc     auth.Service
	cookies     *sessionCookies
	logger      *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(cfg *config.Config, faqSvc faq.Service, enhancerSvc enhancer.Service, sessionSvc session.Service, authSvc auth.Service, logger *slog.Logger) *Handler {
	logger = logger.With("component", "http.handler")
	return &Handler{
		faqSvc:      faqSvc,
		enhancerSvc: enhancerSvc,
		sessionSvc:  sessionSvc,
		authSvc:     authSvc,
		cookies:     newSessionCookies(cfg.Session, logger),
		logger:      logger,
	}
}

// Login exchanges admin credentials for a bearer token.
func (h *Handler) Login(c *gin.Context) {
	if !h.authSvc.Enabled() {
		abortWithError(c, NewHTTPError(http.StatusNotFound, "auth_disabled", "admin auth is not enabled", nil))
		return
	}
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, bindError(err))
		return
	}
	resp, err := h.authSvc.Login(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err, "auth_failed"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListFAQs filters the collection by query, category and tag.
func (h *Handler) ListFAQs(c *gin.Context) {
	var req faq.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		abortWithError(c, bindError(err))
		return
	}
	records, err := h.faqSvc.List(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err, "faq_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"faqs": records, "total": len(records)})
}

// GetFAQ returns one record.
func (h *Handler) GetFAQ(c *gin.Context) {
	record, err := h.faqSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, domainError(err, "faq_failed"))
		return
	}
	c.JSON(http.StatusOK, record)
}

// CreateFAQ adds a record through the duplicate guard.
func (h *Handler) CreateFAQ(c *gin.Context) {
	var req faq.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, bindError(err))
		return
	}
	if err := req.CheckLengths(); err != nil {
		abortWithError(c, domainError(err, "faq_failed"))
		return
	}
	record, err := h.faqSvc.Create(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err, "faq_failed"))
		return
	}
	h.logger.Info("faq created via api", "id", record.ID, "actor", actor(c))
	c.JSON(http.StatusCreated, record)
}

// UpdateFAQ replaces a record, keeping its id.
func (h *Handler) UpdateFAQ(c *gin.Context) {
	var req faq.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, bindError(err))
		return
	}
	if err := req.CheckLengths(); err != nil {
		abortWithError(c, domainError(err, "faq_failed"))
		return
	}
	record, err := h.faqSvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		abortWithError(c, domainError(err, "faq_failed"))
		return
	}
	h.logger.Info("faq updated via api", "id", record.ID, "actor", actor(c))
	c.JSON(http.StatusOK, record)
}

// DeleteFAQ removes a record. Unknown ids succeed.
func (h *Handler) DeleteFAQ(c *gin.Context) {
	if err := h.faqSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, domainError(err, "faq_failed"))
		return
	}
	h.logger.Info("faq deleted via api", "id", c.Param("id"), "actor", actor(c))
	c.Status(http.StatusNoContent)
}

// ExportFAQs downloads the collection, or a category or tag slice of it, as JSON or CSV.
func (h *Handler) ExportFAQs(c *gin.Context) {
	var req faq.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		abortWithError(c, bindError(err))
		return
	}
	out, err := h.faqSvc.Export(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err, "export_failed"))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.FileName))
	c.Header("X-FAQ-Count", fmt.Sprint(out.Count))
	c.Data(http.StatusOK, out.ContentType, out.Data)
}

// StatsFAQs returns collection analytics.
func (h *Handler) StatsFAQs(c *gin.Context) {
	stats, err := h.faqSvc.Stats(c.Request.Context())
	if err != nil {
		abortWithError(c, domainError(err, "faq_failed"))
		return
	}
	c.JSON(http.StatusOK, stats)
}

// TrendingSearches returns the most common dashboard searches.
func (h *Handler) TrendingSearches(c *gin.Context) {
	items, err := h.faqSvc.Trending(c.Request.Context())
	if err != nil {
		abortWithError(c, domainError(err, "faq_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"searches": items})
}

// BulkCategory moves records to a new category.
func (h *Handler) BulkCategory(c *gin.Context) {
	var req faq.RecategorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, bindError(err))
		return
	}
	out, err := h.faqSvc.Recategorize(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err, "bulk_failed"))
		return
	}
	c.JSON(http.StatusOK, out)
}

// BulkAddTags appends tags to every record.
func (h *Handler) BulkAddTags(c *gin.Context) {
	var req faq.TagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, bindError(err))
		return
	}
	out, err := h.faqSvc.AddTags(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err, "bulk_failed"))
		return
	}
	c.JSON(http.StatusOK, out)
}

// BulkRemoveTag strips a tag from every record.
func (h *Handler) BulkRemoveTag(c *gin.Context) {
	out, err := h.faqSvc.RemoveTag(c.Request.Context(), c.Param("tag"))
	if err != nil {
		abortWithError(c, domainError(err, "bulk_failed"))
		return
	}
	c.JSON(http.StatusOK, out)
}

// MigrateLegacy imports a legacy {question, answer} JSON array.
func (h *Handler) MigrateLegacy(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, migrateBodyLimit))
	if err != nil {
		abortWithError(c, bindError(err))
		return
	}
	items, err := faq.DecodeLegacy(body)
	if err != nil {
		abortWithError(c, bindError(err))
		return
	}
	report, err := h.faqSvc.Migrate(c.Request.Context(), items)
	if err != nil {
		abortWithError(c, domainError(err, "migrate_failed"))
		return
	}
	h.logger.Info("legacy migration via api", "imported", report.Imported, "actor", actor(c))
	c.JSON(http.StatusOK, report)
}

// Reload rereads the backing file.
func (h *Handler) Reload(c *gin.Context) {
	if err := h.faqSvc.Reload(c.Request.Context()); err != nil {
		abortWithError(c, domainError(err, "reload_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"reloaded": true})
}
