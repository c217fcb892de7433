package scheduler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"go-payday/internal/payment"
	"go-payday/internal/shared/apperror"
	"go-payday/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
	loop    *Loop
}

func NewHandler(service Service, loop *Loop) *Handler {
	return &Handler{service: service, loop: loop}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Status(c *gin.Context) {
	status := h.loop.Status()

	message := "Payment scheduler is stopped"
	if status.Running {
		message = "Payment scheduler is running"
	}

	response.Success(c, http.StatusOK, gin.H{
		"scheduler": status,
		"message":   message,
	}, nil)
}

func (h *Handler) Start(c *gin.Context) {
	h.loop.Start()
	response.Success(c, http.StatusOK, gin.H{"message": "Payment scheduler started"}, nil)
}

func (h *Handler) Stop(c *gin.Context) {
	h.loop.Stop()
	response.Success(c, http.StatusOK, gin.H{"message": "Payment scheduler stopped"}, nil)
}

func (h *Handler) Restart(c *gin.Context) {
	h.loop.Stop()
	h.loop.Start()
	response.Success(c, http.StatusOK, gin.H{"message": "Payment scheduler restarted"}, nil)
}

type manualCheckRequest struct {
	Date string `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

// Check triggers a manual reconciliation pass, optionally against an
// explicit reference date.
func (h *Handler) Check(c *gin.Context) {
	// An empty body binds to io.EOF and means "use today"; anything
	// else that fails to bind is a malformed request.
	var req manualCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "invalid date, expected YYYY-MM-DD", nil)
		return
	}

	refDate, ok := h.parseRefDate(c, req.Date)
	if !ok {
		return
	}

	result, err := h.service.ProcessPending(c.Request.Context(), refDate)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Manual payment check completed",
		"result":  result,
	}, nil)
}

func (h *Handler) Pending(c *gin.Context) {
	refDate, ok := h.parseRefDate(c, c.Query("date"))
	if !ok {
		return
	}

	due, err := h.service.DuePending(c.Request.Context(), refDate)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, due, nil)
}

func (h *Handler) Overdue(c *gin.Context) {
	companyID := c.GetString("company_id")

	overdue, err := h.service.Overdue(c.Request.Context(), companyID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, overdue, nil)
}

func (h *Handler) Upcoming(c *gin.Context) {
	companyID := c.GetString("company_id")

	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	if days < 1 || days > 365 {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "days must be between 1 and 365", nil)
		return
	}

	upcoming, err := h.service.Upcoming(c.Request.Context(), companyID, days)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, upcoming, nil)
}

func (h *Handler) Statistics(c *gin.Context) {
	companyID := c.GetString("company_id")

	stats, err := h.service.Statistics(c.Request.Context(), companyID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, stats, nil)
}

func (h *Handler) parseRefDate(c *gin.Context, raw string) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}

	t, err := time.Parse(payment.DateLayout, raw)
	if err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "invalid date, expected YYYY-MM-DD", nil)
		return nil, false
	}
	return &t, true
}
