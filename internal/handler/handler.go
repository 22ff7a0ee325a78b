package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"strconv"

	"github.com/JosephChoi/investment-report-sub001/internal/config"
	"github.com/JosephChoi/investment-report-sub001/internal/repository"
	"github.com/JosephChoi/investment-report-sub001/internal/service"
	"github.com/JosephChoi/investment-report-sub001/pkg/dateutil"
	"github.com/JosephChoi/investment-report-sub001/pkg/response"
	"github.com/JosephChoi/investment-report-sub001/pkg/spreadsheet"

	"github.com/gin-gonic/gin"
)

// Handler wires the upload and report services into HTTP endpoints.
type Handler struct {
	cfg     *config.Config
	ingest  *service.IngestService
	overdue *service.OverdueService
	report  *service.ReportService
}

func NewHandler(cfg *config.Config, ingest *service.IngestService, overdue *service.OverdueService, report *service.ReportService) *Handler {
	return &Handler{
		cfg:     cfg,
		ingest:  ingest,
		overdue: overdue,
		report:  report,
	}
}

// UploadPortfolio ingests a portfolio balance spreadsheet.
// The file name must carry the record date; the optional portfolioType form
// field supplies a default portfolio name for rows that omit one.
func (h *Handler) UploadPortfolio(c *gin.Context) {
	fileName, data, ok := h.readUpload(c)
	if !ok {
		return
	}

	result, err := h.ingest.ProcessPortfolioUpload(c.Request.Context(), fileName, data, c.PostForm("portfolioType"))
	if err != nil {
		h.writeUploadError(c, err)
		return
	}

	response.Success(c, result)
}

// UploadOverdue replaces the overdue payment batch with the uploaded sheet.
func (h *Handler) UploadOverdue(c *gin.Context) {
	fileName, data, ok := h.readUpload(c)
	if !ok {
		return
	}

	result, err := h.overdue.ReplaceBatch(c.Request.Context(), fileName, data)
	if err != nil {
		h.writeUploadError(c, err)
		return
	}

	response.Success(c, result)
}

// CurrentBalance returns the most recent balance record for an account.
func (h *Handler) CurrentBalance(c *gin.Context) {
	accountNumber := c.Query("accountNumber")
	if accountNumber == "" {
		response.ParamError(c, "accountNumber is required")
		return
	}

	report, err := h.report.CurrentBalance(c.Request.Context(), accountNumber)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			response.Error(c, 404, "account not found")
			return
		}
		response.ServerError(c, "failed to load balance")
		return
	}

	response.Success(c, report)
}

// BalanceHistory returns balance records for an account, newest first.
func (h *Handler) BalanceHistory(c *gin.Context) {
	accountNumber := c.Query("accountNumber")
	if accountNumber == "" {
		response.ParamError(c, "accountNumber is required")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))

	records, err := h.report.BalanceHistory(c.Request.Context(), accountNumber, limit)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			response.Error(c, 404, "account not found")
			return
		}
		response.ServerError(c, "failed to load balance history")
		return
	}

	response.Success(c, records)
}

// CurrentOverdueBatch returns the records of the latest overdue batch.
func (h *Handler) CurrentOverdueBatch(c *gin.Context) {
	batchID, records, err := h.report.CurrentOverdueBatch(c.Request.Context())
	if err != nil {
		response.ServerError(c, "failed to load overdue batch")
		return
	}

	response.Success(c, gin.H{
		"batchId": batchID,
		"records": records,
	})
}

func (h *Handler) Health(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok"})
}

// readUpload pulls the "file" form part and reads it under the configured
// size limit. It writes the error response itself when the upload is
// unusable.
func (h *Handler) readUpload(c *gin.Context) (string, []byte, bool) {
	header, err := c.FormFile("file")
	if err != nil {
		response.ParamError(c, "file is required")
		return "", nil, false
	}

	maxBytes := int64(10 << 20)
	if h.cfg != nil && h.cfg.Business.MaxUploadBytes > 0 {
		maxBytes = h.cfg.Business.MaxUploadBytes
	}
	if header.Size > maxBytes {
		response.ParamError(c, "file exceeds the maximum upload size")
		return "", nil, false
	}

	data, err := readAll(header)
	if err != nil {
		response.ParamError(c, "failed to read uploaded file")
		return "", nil, false
	}

	return header.Filename, data, true
}

func readAll(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// writeUploadError maps the upload error taxonomy onto HTTP responses.
// Input problems come back as 400 with a reason the operator can act on;
// persistence failures come back as 500 with retry guidance.
func (h *Handler) writeUploadError(c *gin.Context, err error) {
	var perr *service.PersistenceError
	switch {
	case errors.Is(err, dateutil.ErrMissingDate):
		response.ParamError(c, "file name does not contain a date (expected YYYY-MM-DD)")
	case errors.Is(err, spreadsheet.ErrEmptyInput):
		response.ParamError(c, "spreadsheet contains no data rows")
	case errors.Is(err, spreadsheet.ErrMalformedInput):
		response.ParamError(c, "file is not a readable spreadsheet")
	case errors.Is(err, service.ErrUploadBusy):
		response.Error(c, 409, "another upload for this resource is in progress, retry shortly")
	case errors.As(err, &perr):
		response.ServerErrorDetail(c, "upload failed, no data was saved, retry the upload", perr.Error())
	default:
		response.ServerError(c, "upload failed")
	}
}
