package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/mood-journal/internal/domain/journal"
	"github.com/BruksfildServices01/mood-journal/internal/dto"
	"github.com/BruksfildServices01/mood-journal/internal/httperr"
	"github.com/BruksfildServices01/mood-journal/internal/httpresp"
	"github.com/BruksfildServices01/mood-journal/internal/middleware"
	ucJournal "github.com/BruksfildServices01/mood-journal/internal/usecase/journal"
)

// ======================================================
// HANDLER
// ======================================================

type LogHandler struct {
	create *ucJournal.CreateLog
	list   *ucJournal.ListLogs
	get    *ucJournal.GetLog
	update *ucJournal.UpdateLog
	delete *ucJournal.DeleteLog

	loc *time.Location
}

func NewLogHandler(
	create *ucJournal.CreateLog,
	list *ucJournal.ListLogs,
	get *ucJournal.GetLog,
	update *ucJournal.UpdateLog,
	delete *ucJournal.DeleteLog,
	loc *time.Location,
) *LogHandler {
	return &LogHandler{
		create: create,
		list:   list,
		get:    get,
		update: update,
		delete: delete,
		loc:    loc,
	}
}

// ======================================================
// HELPERS
// ======================================================

// logID parses the :id path parameter. Anything that is not a positive
// integer cannot name a Log, so it is answered with 404.
func logID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		httperr.NotFound(c, "log_not_found", "Not found.")
		return 0, false
	}
	return uint(id), true
}

func readInput(c *gin.Context, partial bool) (domain.Input, bool) {
	body, err := c.GetRawData()
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Could not read request body.")
		return domain.Input{}, false
	}

	in, err := domain.ParseInput(body, partial)
	if err != nil {
		httperr.FromError(c, err)
		return domain.Input{}, false
	}
	return in, true
}

// ======================================================
// COLLECTION
// ======================================================

func (h *LogHandler) List(c *gin.Context) {
	logs, err := h.list.Execute(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, dto.NewLogDTOs(logs, h.loc))
}

func (h *LogHandler) Create(c *gin.Context) {
	in, ok := readInput(c, false)
	if !ok {
		return
	}

	l, err := h.create.Execute(c.Request.Context(), middleware.Actor(c), in)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.Created(c, dto.NewLogDTO(l, h.loc))
}

// ======================================================
// ITEM
// ======================================================

func (h *LogHandler) Retrieve(c *gin.Context) {
	id, ok := logID(c)
	if !ok {
		return
	}

	l, err := h.get.Execute(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, dto.NewLogDTO(l, h.loc))
}

// Update serves PUT (all fields required) and PATCH (any subset). An absent
// or inaccessible Log is reported before the body is looked at.
func (h *LogHandler) Update(c *gin.Context) {
	id, ok := logID(c)
	if !ok {
		return
	}

	if _, err := h.get.Execute(c.Request.Context(), middleware.Actor(c), id); err != nil {
		httperr.FromError(c, err)
		return
	}

	in, ok := readInput(c, c.Request.Method == http.MethodPatch)
	if !ok {
		return
	}

	l, err := h.update.Execute(c.Request.Context(), middleware.Actor(c), id, in)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, dto.NewLogDTO(l, h.loc))
}

func (h *LogHandler) Delete(c *gin.Context) {
	id, ok := logID(c)
	if !ok {
		return
	}

	if err := h.delete.Execute(c.Request.Context(), middleware.Actor(c), id); err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.NoContent(c)
}
