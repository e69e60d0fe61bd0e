package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/facefit-backend/internal/domain"
	"github.com/yungbote/facefit-backend/internal/http/response"
	"github.com/yungbote/facefit-backend/internal/pkg/logger"
	"github.com/yungbote/facefit-backend/internal/services"
)

const DefaultMaxUploadBytes = 15 << 20

var errImageTooLarge = errors.New("image too large")

type ScanHandler struct {
	log      *logger.Logger
	scans    services.ScanService
	maxBytes int64
}

func NewScanHandler(log *logger.Logger, scans services.ScanService, maxBytes int64) *ScanHandler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &ScanHandler{log: log.With("handler", "ScanHandler"), scans: scans, maxBytes: maxBytes}
}

// POST /api/scans
func (h *ScanHandler) CreateScan(c *gin.Context) {
	userID := requestUserID(c)
	if userID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+(1<<20))
	fh, err := c.FormFile("image")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "missing_image", err)
		return
	}
	if fh.Size > h.maxBytes {
		response.RespondError(c, http.StatusRequestEntityTooLarge, "image_too_large", errImageTooLarge)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_image", err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, h.maxBytes+1))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_image", err)
		return
	}
	if int64(len(data)) > h.maxBytes {
		response.RespondError(c, http.StatusRequestEntityTooLarge, "image_too_large", errImageTooLarge)
		return
	}

	res, err := h.scans.ProcessScan(c.Request.Context(), userID, data)
	if err != nil {
		response.RespondServiceError(c, fmt.Errorf("process scan: %w", err))
		return
	}
	if res.Status == types.ScanStatusFailed {
		response.RespondRejected(c, string(res.Reason), res.Message, res.Scan)
		return
	}
	response.RespondOK(c, gin.H{
		"scan":    res.Scan,
		"metrics": res.Metrics,
		"targets": res.Targets,
		"plan_id": res.PlanID,
	})
}

// GET /api/scans
func (h *ScanHandler) ListScans(c *gin.Context) {
	scans, err := h.scans.ListScans(c.Request.Context(), requestUserID(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"scans": scans})
}

// GET /api/scans/:id
func (h *ScanHandler) GetScan(c *gin.Context) {
	scanID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_scan_id", err)
		return
	}
	scan, err := h.scans.GetScan(c.Request.Context(), requestUserID(c), scanID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"scan": scan})
}
