package controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zirdl/bunubon/controllers"
	"github.com/zirdl/bunubon/models"
	"github.com/zirdl/bunubon/services"
)

func setupSyncRouter(svc services.SyncService) *gin.Engine {
	r := gin.New()
	sc := controllers.NewSyncController(svc)
	g := r.Group("/sync", asUser(models.RoleEncoder))
	g.POST("/preview", sc.Preview)
	g.POST("/confirm", sc.Confirm)
	g.GET("/jobs/:id", sc.GetJob)
	g.GET("/runs", sc.ListRuns)
	return r
}

func TestSyncController_Preview(t *testing.T) {
	svc := &mockSyncService{
		previewFn: func(_ context.Context, req *models.SyncPreviewRequest) (*models.SyncPreviewResponse, *services.ServiceError) {
			assert.Equal(t, "sheet-1", req.SheetID)
			assert.Equal(t, "Sheet1!A1:J", req.Range)
			assert.Equal(t, "serial_number", req.Mapping["Serial No."])
			return &models.SyncPreviewResponse{
				Titles: []models.CandidateTitle{{"serial_number": "SN001"}},
				Count:  1,
			}, nil
		},
	}
	r := setupSyncRouter(svc)

	w := serve(r, http.MethodPost, "/sync/preview", `{"sheetId":"sheet-1","range":"Sheet1!A1:J","mapping":{"Serial No.":"serial_number"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"titles":[{"serial_number":"SN001"}],"count":1}`, w.Body.String())

	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodPost, "/sync/preview", `{"sheetId":"sheet-1","range":"A:J","mapping":{}}`).Code)
}

func TestSyncController_PreviewSourceFailure(t *testing.T) {
	svc := &mockSyncService{
		previewFn: func(context.Context, *models.SyncPreviewRequest) (*models.SyncPreviewResponse, *services.ServiceError) {
			return nil, &services.ServiceError{StatusCode: http.StatusBadGateway, Message: "Failed to read spreadsheet: quota exceeded"}
		},
	}
	w := serve(setupSyncRouter(svc), http.MethodPost, "/sync/preview", `{"sheetId":"s","range":"A:J","mapping":{"A":"notes"}}`)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "quota exceeded")
}

func TestSyncController_ConfirmRowErrorsStill200(t *testing.T) {
	var actor string
	svc := &mockSyncService{
		confirmFn: func(_ context.Context, a string, req *models.SyncConfirmRequest) (*models.SyncResult, *services.ServiceError) {
			actor = a
			assert.Len(t, req.Titles, 2)
			return &models.SyncResult{Inserted: 1, Errors: []string{"Serial SN002: Municipality 'Atlantis' not found"}}, nil
		},
	}
	body := `{"titles":[{"serial_number":"SN001","municipality_name":"Agoo"},{"serial_number":"SN002","municipality_name":"Atlantis"}]}`
	w := serve(setupSyncRouter(svc), http.MethodPost, "/sync/confirm", body)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "encoder1", actor)
	var res models.SyncResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, []string{"Serial SN002: Municipality 'Atlantis' not found"}, res.Errors)
}

func TestSyncController_ConfirmAcceptsNumericCells(t *testing.T) {
	svc := &mockSyncService{
		confirmFn: func(_ context.Context, _ string, req *models.SyncConfirmRequest) (*models.SyncResult, *services.ServiceError) {
			require.Len(t, req.Titles, 1)
			assert.Equal(t, "12.5", req.Titles[0]["area"])
			assert.Equal(t, "7", req.Titles[0]["lotNumber"])
			return &models.SyncResult{Inserted: 1, Errors: []string{}}, nil
		},
	}
	body := `{"titles":[{"serialNumber":"SN001","municipalityName":"Agoo","area":12.5,"lotNumber":7}]}`
	w := serve(setupSyncRouter(svc), http.MethodPost, "/sync/confirm", body)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSyncController_ConfirmLoadFailure(t *testing.T) {
	svc := &mockSyncService{
		confirmFn: func(context.Context, string, *models.SyncConfirmRequest) (*models.SyncResult, *services.ServiceError) {
			return nil, &services.ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to load municipalities"}
		},
	}
	w := serve(setupSyncRouter(svc), http.MethodPost, "/sync/confirm", `{"titles":[]}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to load municipalities"}`, w.Body.String())
}

func TestSyncController_ConfirmAsync(t *testing.T) {
	svc := &mockSyncService{
		enqueueFn: func(_ context.Context, actor string, _ *models.SyncConfirmRequest) (*models.SyncJob, *services.ServiceError) {
			assert.Equal(t, "encoder1", actor)
			return &models.SyncJob{ID: "job-1", Status: models.SyncJobPending}, nil
		},
		confirmFn: func(context.Context, string, *models.SyncConfirmRequest) (*models.SyncResult, *services.ServiceError) {
			t.Fatal("synchronous confirm must not run")
			return nil, nil
		},
	}
	w := serve(setupSyncRouter(svc), http.MethodPost, "/sync/confirm?async=true", `{"titles":[{"serial_number":"SN001"}]}`)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"job_id":"job-1","status":"pending"}`, w.Body.String())
}

func TestSyncController_GetJob(t *testing.T) {
	svc := &mockSyncService{
		getJobFn: func(_ context.Context, id string) (*models.SyncJob, *services.ServiceError) {
			if id != "job-1" {
				return nil, &services.ServiceError{StatusCode: http.StatusNotFound, Message: "Sync job not found"}
			}
			return &models.SyncJob{ID: id, Status: models.SyncJobDone, Result: &models.SyncResult{Inserted: 4, Errors: []string{}}}, nil
		},
	}
	r := setupSyncRouter(svc)

	w := serve(r, http.MethodGet, "/sync/jobs/job-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var job models.SyncJob
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &job))
	assert.Equal(t, models.SyncJobDone, job.Status)
	assert.Equal(t, 4, job.Result.Inserted)

	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/sync/jobs/missing", "").Code)
}

func TestSyncController_ListRuns(t *testing.T) {
	svc := &mockSyncService{
		runsFn: func(_ context.Context, page, limit int) ([]models.SyncRun, int64, *services.ServiceError) {
			assert.Equal(t, 2, page)
			assert.Equal(t, 10, limit)
			return []models.SyncRun{{StartedBy: "encoder1", Inserted: 3}}, 11, nil
		},
	}
	w := serve(setupSyncRouter(svc), http.MethodGet, "/sync/runs?page=2&limit=10", "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Runs []models.SyncRun       `json:"runs"`
		Meta map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Runs, 1)
	assert.EqualValues(t, 2, resp.Meta["pages"])
}
