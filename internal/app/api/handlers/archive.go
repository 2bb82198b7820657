package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dasgroupllc/archivebase/internal/app/service/archivelog"
	"github.com/dasgroupllc/archivebase/internal/app/service/matcher"
	subsvc "github.com/dasgroupllc/archivebase/internal/app/service/subscription"
	"github.com/dasgroupllc/archivebase/internal/models"
	"github.com/dasgroupllc/archivebase/pkg/logctx"
	"github.com/dasgroupllc/archivebase/pkg/response"
)

// baseIDFrom reads the tenant id from the X-Base-Id header or the baseId
// query parameter, header first.
func baseIDFrom(c *gin.Context) string {
	if baseID := c.GetHeader("X-Base-Id"); baseID != "" {
		return baseID
	}
	return c.Query("baseId")
}

type archiveRequest struct {
	BaseID      string `json:"baseId" binding:"required"`
	TableID     string `json:"tableId"`
	RecordCount int    `json:"recordCount" binding:"required,gt=0"`
	RuleID      string `json:"ruleId"`
	RuleName    string `json:"ruleName"`
}

type archiveCreatedResp struct {
	ArchiveID string `json:"archiveId"`
}

type quotaDetail struct {
	RemainingRecords int `json:"remainingRecords"`
}

// @Summary      Record an archive run
// @Description  Checks the monthly quota, then logs the archive and counts its records against usage.
// @Tags         Archive
// @Accept       json
// @Produce      json
// @Param        request body handlers.archiveRequest true "Archive run"
// @Success      200  {object}  response.APIResponse[archiveCreatedResp]
// @Failure      403  {object}  response.APIResponse[quotaDetail]
// @Router       /api/archive [post]
func ApiCreateArchive(sub *subsvc.Service, log *archivelog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req archiveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.Err("Missing baseId or recordCount"))
			return
		}

		decision, err := sub.Authorize(c.Request.Context(), req.BaseID, req.RecordCount)
		if err != nil {
			internalError(c, err)
			return
		}
		if !decision.Allowed {
			msg := fmt.Sprintf("Free plan limit: %d records remaining this month. Upgrade to Pro for unlimited.", decision.Remaining)
			c.JSON(http.StatusForbidden, response.ErrT(msg, quotaDetail{RemainingRecords: decision.Remaining}))
			return
		}

		// Log first, then count. The pair is not atomic: a crash in
		// between leaves the run in history but uncounted.
		archiveID, err := log.Append(c.Request.Context(), req.BaseID, req.TableID, req.RecordCount, req.RuleID, req.RuleName)
		if err != nil {
			internalError(c, err)
			return
		}
		if _, err := sub.RecordUsage(c.Request.Context(), req.BaseID, req.RecordCount); err != nil {
			internalError(c, err)
			return
		}

		c.JSON(http.StatusOK, response.OKT(archiveCreatedResp{ArchiveID: archiveID}))
	}
}

type archiveHistoryResp struct {
	Archives []*models.ArchiveEvent `json:"archives"`
}

// @Summary      Archive history
// @Description  Returns all archive runs for a base in append order.
// @Tags         Archive
// @Produce      json
// @Param        baseId query string true "Base id"
// @Success      200  {object}  response.APIResponse[archiveHistoryResp]
// @Router       /api/archive [get]
func ApiArchiveHistory(log *archivelog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		baseID := baseIDFrom(c)
		if baseID == "" {
			c.JSON(http.StatusBadRequest, response.Err("Missing baseId"))
			return
		}
		events, err := log.History(c.Request.Context(), baseID)
		if err != nil {
			internalError(c, err)
			return
		}
		if events == nil {
			events = []*models.ArchiveEvent{}
		}
		c.JSON(http.StatusOK, response.OKT(archiveHistoryResp{Archives: events}))
	}
}

// @Summary      Archive stats
// @Description  Aggregate archive counters for the dashboard.
// @Tags         Archive
// @Produce      json
// @Param        baseId query string true "Base id"
// @Success      200  {object}  response.APIResponse[archivelog.Stats]
// @Router       /api/archive/stats [get]
func ApiArchiveStats(log *archivelog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		baseID := baseIDFrom(c)
		if baseID == "" {
			c.JSON(http.StatusBadRequest, response.Err("Missing baseId"))
			return
		}
		stats, err := log.Stats(c.Request.Context(), baseID)
		if err != nil {
			internalError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(stats))
	}
}

type previewRequest struct {
	TableName string           `json:"tableName"`
	Rule      matcher.Rule     `json:"rule" binding:"required"`
	Records   []matcher.Record `json:"records"`
	// Fields selects and orders the CSV columns; empty skips the export.
	Fields []string `json:"fields"`
}

type previewResp struct {
	MatchedIDs   []string `json:"matchedIds"`
	MatchedCount int      `json:"matchedCount"`
	CSV          string   `json:"csv,omitempty"`
	Filename     string   `json:"filename,omitempty"`
}

// @Summary      Preview an archive rule
// @Description  Evaluates a rule against a batch of records and optionally renders the CSV export.
// @Tags         Archive
// @Accept       json
// @Produce      json
// @Param        request body handlers.previewRequest true "Rule and records"
// @Success      200  {object}  response.APIResponse[previewResp]
// @Router       /api/archive/preview [post]
func ApiArchivePreview() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req previewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.Err(err.Error()))
			return
		}

		now := time.Now()
		matched := matcher.Match(req.Records, req.Rule, now)

		resp := previewResp{MatchedCount: len(matched), MatchedIDs: make([]string, len(matched))}
		for i, rec := range matched {
			resp.MatchedIDs[i] = rec.ID
		}
		if len(req.Fields) > 0 && len(matched) > 0 {
			csv, err := matcher.ExportCSV(matched, req.Fields)
			if err != nil {
				internalError(c, err)
				return
			}
			resp.CSV = csv
			resp.Filename = matcher.ArchiveFilename(req.TableName, now)
		}
		c.JSON(http.StatusOK, response.OKT(resp))
	}
}

// internalError hides the cause from the client and logs it server-side.
func internalError(c *gin.Context, err error) {
	logctx.FromGin(c, zap.S()).Errorw("internal_error", "error", err.Error())
	c.JSON(http.StatusInternalServerError, response.Err("Internal server error"))
}
