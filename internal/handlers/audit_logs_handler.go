package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/mood-journal/internal/httperr"
	"github.com/BruksfildServices01/mood-journal/internal/httpresp"
	"github.com/BruksfildServices01/mood-journal/internal/middleware"
	"github.com/BruksfildServices01/mood-journal/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	db        *gorm.DB
	ownerOnly bool
}

func NewAuditLogsHandler(db *gorm.DB, ownerOnly bool) *AuditLogsHandler {
	return &AuditLogsHandler{db: db, ownerOnly: ownerOnly}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	action := c.Query("action")
	entityID := c.Query("entity_id")
	fromStr := c.Query("from")
	toStr := c.Query("to")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	offset := (page - 1) * limit

	q := h.db.WithContext(c.Request.Context()).Model(&models.AuditLog{})

	if h.ownerOnly {
		actor := middleware.Actor(c)
		if !actor.Authenticated() {
			httperr.Unauthorized(c, "not_authenticated", "Authentication credentials were not provided.")
			return
		}
		q = q.Where("user_id = ?", *actor.UserID)
	}

	// --------------------------------------------------
	// Optional filters
	// --------------------------------------------------

	if action != "" {
		q = q.Where("action = ?", action)
	}

	if entityID != "" {
		if id, err := strconv.ParseUint(entityID, 10, 32); err == nil {
			q = q.Where("entity_id = ?", id)
		}
	}

	if fromStr != "" {
		if from, err := time.Parse("2006-01-02", fromStr); err == nil {
			q = q.Where("created_at >= ?", from)
		}
	}

	if toStr != "" {
		if to, err := time.Parse("2006-01-02", toStr); err == nil {
			q = q.Where("created_at < ?", to.Add(24*time.Hour))
		}
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	logs := []models.AuditLog{}
	if err := q.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error; err != nil {

		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"logs":  logs,
	})
}
