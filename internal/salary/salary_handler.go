package salary

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/shared/apperror"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/shared/response"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/tenant"
)

type Handler struct {
	service    Service
	validation ValidationService
}

func NewHandler(service Service, validation ValidationService) *Handler {
	return &Handler{service: service, validation: validation}
}

// tenantFrom resolves the organization from the X-Organization-ID header
// the upstream gateway sets after authentication.
func tenantFrom(c *gin.Context) (tenant.Context, bool) {
	t, err := tenant.Parse(c.GetHeader("X-Organization-ID"))
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return tenant.Context{}, false
	}
	return t, true
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Run(c *gin.Context) {
	t, ok := tenantFrom(c)
	if !ok {
		return
	}

	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	results, err := h.service.Run(c.Request.Context(), t, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, results, nil)
}

func (h *Handler) Validate(c *gin.Context) {
	t, ok := tenantFrom(c)
	if !ok {
		return
	}

	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	results, err := h.validation.Validate(c.Request.Context(), t, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, results, nil)
}

func (h *Handler) GetById(c *gin.Context) {
	t, ok := tenantFrom(c)
	if !ok {
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), t, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ListByPeriod(c *gin.Context) {
	t, ok := tenantFrom(c)
	if !ok {
		return
	}

	year, _ := strconv.Atoi(c.Query("year"))
	month, _ := strconv.Atoi(c.Query("month"))

	resp, err := h.service.ListByPeriod(c.Request.Context(), t, year, month)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	if pageSize < 1 {
		pageSize = 50
	}

	total := int64(len(resp))
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(resp) {
		start = len(resp)
	}
	if end > len(resp) {
		end = len(resp)
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, resp[start:end], &meta)
}
