package salary_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/salary"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/tenant"
)

type apiMeta struct {
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  *apiMeta        `json:"meta"`
	Error *apiError       `json:"error"`
}

func mustDecodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	require.NoError(t, json.Unmarshal(body, &env))
	return env
}

type fakeSalaryService struct {
	runFn          func(ctx context.Context, t tenant.Context, req salary.RunRequest) ([]salary.RunResult, error)
	getByIDFn      func(ctx context.Context, t tenant.Context, id string) (salary.SalaryResponse, error)
	listByPeriodFn func(ctx context.Context, t tenant.Context, year, month int) ([]salary.SalaryResponse, error)
}

func (f *fakeSalaryService) Run(ctx context.Context, t tenant.Context, req salary.RunRequest) ([]salary.RunResult, error) {
	return f.runFn(ctx, t, req)
}

func (f *fakeSalaryService) GetByID(ctx context.Context, t tenant.Context, id string) (salary.SalaryResponse, error) {
	return f.getByIDFn(ctx, t, id)
}

func (f *fakeSalaryService) ListByPeriod(ctx context.Context, t tenant.Context, year, month int) ([]salary.SalaryResponse, error) {
	return f.listByPeriodFn(ctx, t, year, month)
}

type fakeValidationService struct {
	validateFn func(ctx context.Context, t tenant.Context, req salary.ValidateRequest) ([]salary.BatchResult, error)
}

func (f *fakeValidationService) Validate(ctx context.Context, t tenant.Context, req salary.ValidateRequest) ([]salary.BatchResult, error) {
	return f.validateFn(ctx, t, req)
}

func TestSalaryHandler_ListByPeriod_Paginates(t *testing.T) {
	orgID := uuid.New().String()

	svc := &fakeSalaryService{
		listByPeriodFn: func(ctx context.Context, tn tenant.Context, year, month int) ([]salary.SalaryResponse, error) {
			assert.Equal(t, orgID, tn.OrganizationID.String())
			assert.Equal(t, 2026, year)
			assert.Equal(t, 1, month)
			return []salary.SalaryResponse{
				{ID: uuid.NewString()},
				{ID: uuid.NewString()},
				{ID: uuid.NewString()},
			}, nil
		},
	}

	h := salary.NewHandler(svc, &fakeValidationService{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(
		http.MethodGet,
		"/salaries?year=2026&month=1&page=2&page_size=2",
		nil,
	)
	c.Request.Header.Set("X-Organization-ID", orgID)

	h.ListByPeriod(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)

	// Three rows at two per page: the second page holds the last one.
	var rows []salary.SalaryResponse
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	assert.Len(t, rows, 1)

	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(3), env.Meta.Total)
	assert.Equal(t, 2, env.Meta.TotalPages)
	assert.Equal(t, 2, env.Meta.Page)
	assert.Equal(t, 2, env.Meta.PageSize)
}

func TestSalaryHandler_MissingOrganizationHeader(t *testing.T) {
	h := salary.NewHandler(&fakeSalaryService{}, &fakeValidationService{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(http.MethodGet, "/salaries?year=2026&month=1", nil)

	h.ListByPeriod(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.False(t, env.Ok)
	require.NotNil(t, env.Error)
	assert.Equal(t, "invalid organization id", env.Error.Message)
}

func TestSalaryHandler_Run(t *testing.T) {
	orgID := uuid.New().String()

	svc := &fakeSalaryService{
		runFn: func(ctx context.Context, tn tenant.Context, req salary.RunRequest) ([]salary.RunResult, error) {
			assert.Equal(t, salary.StatusGenerated, req.Mode)
			return []salary.RunResult{{
				ContractID: uuid.NewString(),
				Outcome:    salary.OutcomeOK,
				NetSalary:  "1080",
			}}, nil
		},
	}

	h := salary.NewHandler(svc, &fakeValidationService{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := fmt.Sprintf(`{"mode":%q,"year":2026,"month":1}`, salary.StatusGenerated)
	c.Request = httptest.NewRequest(http.MethodPost, "/salaries/runs", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.Header.Set("X-Organization-ID", orgID)

	h.Run(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)
}
