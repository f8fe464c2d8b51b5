package controllers_test

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/zirdl/bunubon/middleware"
	"github.com/zirdl/bunubon/models"
	"github.com/zirdl/bunubon/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testUserID = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001")

// asUser stands in for AuthMiddleware.
func asUser(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := &services.SessionClaims{UserID: testUserID, Username: "encoder1", Role: role, TokenID: "jti-1"}
		c.Set(middleware.ContextClaims, claims)
		c.Set(middleware.ContextUserID, testUserID.String())
		c.Set(middleware.ContextUsername, claims.Username)
		c.Set(middleware.ContextRole, role)
		c.Next()
	}
}

// --- Mock AuthService ---

type mockAuthService struct {
	loginFn    func(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, *services.ServiceError)
	logoutFn   func(ctx context.Context, claims *services.SessionClaims) *services.ServiceError
	meFn       func(ctx context.Context, id uuid.UUID) (*models.User, *services.ServiceError)
	passwordFn func(ctx context.Context, id uuid.UUID, req *models.ChangePasswordRequest) *services.ServiceError
}

func (m *mockAuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, *services.ServiceError) {
	return m.loginFn(ctx, req)
}
func (m *mockAuthService) Logout(ctx context.Context, claims *services.SessionClaims) *services.ServiceError {
	return m.logoutFn(ctx, claims)
}
func (m *mockAuthService) Authenticate(context.Context, string) (*services.SessionClaims, *services.ServiceError) {
	return nil, &services.ServiceError{StatusCode: 401, Message: "unused"}
}
func (m *mockAuthService) Me(ctx context.Context, id uuid.UUID) (*models.User, *services.ServiceError) {
	return m.meFn(ctx, id)
}
func (m *mockAuthService) ChangePassword(ctx context.Context, id uuid.UUID, req *models.ChangePasswordRequest) *services.ServiceError {
	return m.passwordFn(ctx, id, req)
}

// --- Mock UserService ---

type mockUserService struct {
	listFn   func(ctx context.Context) ([]models.User, *services.ServiceError)
	createFn func(ctx context.Context, req *models.CreateUserRequest) (*models.User, *services.ServiceError)
	updateFn func(ctx context.Context, id uuid.UUID, req *models.UpdateUserRequest) (*models.User, *services.ServiceError)
	deleteFn func(ctx context.Context, actorID, id uuid.UUID) *services.ServiceError
}

func (m *mockUserService) List(ctx context.Context) ([]models.User, *services.ServiceError) {
	return m.listFn(ctx)
}
func (m *mockUserService) Create(ctx context.Context, req *models.CreateUserRequest) (*models.User, *services.ServiceError) {
	return m.createFn(ctx, req)
}
func (m *mockUserService) Update(ctx context.Context, id uuid.UUID, req *models.UpdateUserRequest) (*models.User, *services.ServiceError) {
	return m.updateFn(ctx, id, req)
}
func (m *mockUserService) Delete(ctx context.Context, actorID, id uuid.UUID) *services.ServiceError {
	return m.deleteFn(ctx, actorID, id)
}

// --- Mock MunicipalityService ---

type mockMunicipalityService struct {
	listFn   func(ctx context.Context) ([]models.MunicipalityWithCount, *services.ServiceError)
	getFn    func(ctx context.Context, id uuid.UUID) (*models.Municipality, *services.ServiceError)
	createFn func(ctx context.Context, req *models.MunicipalityRequest) (*models.Municipality, *services.ServiceError)
	updateFn func(ctx context.Context, id uuid.UUID, req *models.MunicipalityRequest) (*models.Municipality, *services.ServiceError)
	deleteFn func(ctx context.Context, id uuid.UUID) *services.ServiceError
}

func (m *mockMunicipalityService) List(ctx context.Context) ([]models.MunicipalityWithCount, *services.ServiceError) {
	return m.listFn(ctx)
}
func (m *mockMunicipalityService) Get(ctx context.Context, id uuid.UUID) (*models.Municipality, *services.ServiceError) {
	return m.getFn(ctx, id)
}
func (m *mockMunicipalityService) Create(ctx context.Context, req *models.MunicipalityRequest) (*models.Municipality, *services.ServiceError) {
	return m.createFn(ctx, req)
}
func (m *mockMunicipalityService) Update(ctx context.Context, id uuid.UUID, req *models.MunicipalityRequest) (*models.Municipality, *services.ServiceError) {
	return m.updateFn(ctx, id, req)
}
func (m *mockMunicipalityService) Delete(ctx context.Context, id uuid.UUID) *services.ServiceError {
	return m.deleteFn(ctx, id)
}

// --- Mock TitleService ---

type mockTitleService struct {
	listFn   func(ctx context.Context, filter models.TitleFilter) ([]models.Title, int64, *services.ServiceError)
	getFn    func(ctx context.Context, id uuid.UUID) (*models.Title, *services.ServiceError)
	createFn func(ctx context.Context, req *models.TitleRequest) (*models.Title, *services.ServiceError)
	updateFn func(ctx context.Context, id uuid.UUID, req *models.TitleRequest) (*models.Title, *services.ServiceError)
	deleteFn func(ctx context.Context, id uuid.UUID) *services.ServiceError
}

func (m *mockTitleService) List(ctx context.Context, filter models.TitleFilter) ([]models.Title, int64, *services.ServiceError) {
	return m.listFn(ctx, filter)
}
func (m *mockTitleService) Get(ctx context.Context, id uuid.UUID) (*models.Title, *services.ServiceError) {
	return m.getFn(ctx, id)
}
func (m *mockTitleService) Create(ctx context.Context, req *models.TitleRequest) (*models.Title, *services.ServiceError) {
	return m.createFn(ctx, req)
}
func (m *mockTitleService) Update(ctx context.Context, id uuid.UUID, req *models.TitleRequest) (*models.Title, *services.ServiceError) {
	return m.updateFn(ctx, id, req)
}
func (m *mockTitleService) Delete(ctx context.Context, id uuid.UUID) *services.ServiceError {
	return m.deleteFn(ctx, id)
}

// --- Mock DashboardService / ExportService ---

type mockDashboardService struct {
	summaryFn func(ctx context.Context) (*models.DashboardSummary, *services.ServiceError)
}

func (m *mockDashboardService) Summary(ctx context.Context) (*models.DashboardSummary, *services.ServiceError) {
	return m.summaryFn(ctx)
}

type mockExportService struct {
	exportFn  func(ctx context.Context, format string, filter models.TitleFilter) (*services.ExportFile, *services.ServiceError)
	archiveFn func(ctx context.Context, format string, filter models.TitleFilter) (*services.ExportArchive, *services.ServiceError)
}

func (m *mockExportService) Export(ctx context.Context, format string, filter models.TitleFilter) (*services.ExportFile, *services.ServiceError) {
	return m.exportFn(ctx, format, filter)
}
func (m *mockExportService) Archive(ctx context.Context, format string, filter models.TitleFilter) (*services.ExportArchive, *services.ServiceError) {
	return m.archiveFn(ctx, format, filter)
}

// --- Mock SyncService ---

type mockSyncService struct {
	previewFn func(ctx context.Context, req *models.SyncPreviewRequest) (*models.SyncPreviewResponse, *services.ServiceError)
	confirmFn func(ctx context.Context, actor string, req *models.SyncConfirmRequest) (*models.SyncResult, *services.ServiceError)
	enqueueFn func(ctx context.Context, actor string, req *models.SyncConfirmRequest) (*models.SyncJob, *services.ServiceError)
	getJobFn  func(ctx context.Context, id string) (*models.SyncJob, *services.ServiceError)
	runsFn    func(ctx context.Context, page, limit int) ([]models.SyncRun, int64, *services.ServiceError)
}

func (m *mockSyncService) Preview(ctx context.Context, req *models.SyncPreviewRequest) (*models.SyncPreviewResponse, *services.ServiceError) {
	return m.previewFn(ctx, req)
}
func (m *mockSyncService) Confirm(ctx context.Context, actor string, req *models.SyncConfirmRequest) (*models.SyncResult, *services.ServiceError) {
	return m.confirmFn(ctx, actor, req)
}
func (m *mockSyncService) Enqueue(ctx context.Context, actor string, req *models.SyncConfirmRequest) (*models.SyncJob, *services.ServiceError) {
	return m.enqueueFn(ctx, actor, req)
}
func (m *mockSyncService) GetJob(ctx context.Context, id string) (*models.SyncJob, *services.ServiceError) {
	return m.getJobFn(ctx, id)
}
func (m *mockSyncService) ListRuns(ctx context.Context, page, limit int) ([]models.SyncRun, int64, *services.ServiceError) {
	return m.runsFn(ctx, page, limit)
}
