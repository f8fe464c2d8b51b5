package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/zirdl/bunubon/models"
	"gorm.io/gorm"
)

// --- Mocks for Dependencies ---

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *MockUserRepository) List(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}
func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}
func (m *MockUserRepository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}
func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// fakeRegistry is an in-memory title and municipality store.
type fakeRegistry struct {
	mu             sync.Mutex
	municipalities []models.Municipality
	titles         map[uuid.UUID]*models.Title
	titleCounts    map[uuid.UUID]int64
	listErr        error
	createErr      error
}

func newFakeRegistry(municipalities ...models.Municipality) *fakeRegistry {
	return &fakeRegistry{
		municipalities: municipalities,
		titles:         make(map[uuid.UUID]*models.Title),
		titleCounts:    make(map[uuid.UUID]int64),
	}
}

// municipality repository

func (f *fakeRegistry) List(ctx context.Context) ([]models.Municipality, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.municipalities, nil
}
func (f *fakeRegistry) ListWithCounts(ctx context.Context) ([]models.MunicipalityWithCount, error) {
	out := make([]models.MunicipalityWithCount, 0, len(f.municipalities))
	for _, m := range f.municipalities {
		out = append(out, models.MunicipalityWithCount{Municipality: m, TitleCount: f.titleCounts[m.ID]})
	}
	return out, nil
}
func (f *fakeRegistry) FindByID(ctx context.Context, id uuid.UUID) (*models.Municipality, error) {
	for _, m := range f.municipalities {
		if m.ID == id {
			cp := m
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeRegistry) Create(ctx context.Context, m *models.Municipality) error {
	if f.createErr != nil {
		return f.createErr
	}
	m.ID = uuid.New()
	f.municipalities = append(f.municipalities, *m)
	return nil
}
func (f *fakeRegistry) Update(ctx context.Context, m *models.Municipality) error {
	for i := range f.municipalities {
		if f.municipalities[i].ID == m.ID {
			f.municipalities[i] = *m
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}
func (f *fakeRegistry) Delete(ctx context.Context, id uuid.UUID) error {
	for i := range f.municipalities {
		if f.municipalities[i].ID == id {
			f.municipalities = append(f.municipalities[:i], f.municipalities[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}
func (f *fakeRegistry) CountTitles(ctx context.Context, id uuid.UUID) (int64, error) {
	return f.titleCounts[id], nil
}

// fakeTitles is the title repository half of fakeRegistry.
type fakeTitles struct {
	*fakeRegistry
	createErr error
	listed    []models.TitleFilter
}

func (f *fakeTitles) Create(ctx context.Context, t *models.Title) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.titles {
		if existing.SerialNumber == t.SerialNumber {
			return gorm.ErrDuplicatedKey
		}
	}
	cp := *t
	f.titles[t.ID] = &cp
	return nil
}
func (f *fakeTitles) FindByID(ctx context.Context, id uuid.UUID) (*models.Title, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.titles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}
func (f *fakeTitles) FindBySerial(ctx context.Context, serial string) (*models.Title, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.titles {
		if t.SerialNumber == serial {
			cp := *t
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeTitles) Update(ctx context.Context, t *models.Title) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.titles[t.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *t
	f.titles[t.ID] = &cp
	return nil
}
func (f *fakeTitles) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.titles[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.titles, id)
	return nil
}
func (f *fakeTitles) List(ctx context.Context, filter models.TitleFilter) ([]models.Title, int64, error) {
	f.listed = append(f.listed, filter)
	all, _ := f.ListAll(ctx, filter)
	return all, int64(len(all)), nil
}
func (f *fakeTitles) ListAll(ctx context.Context, filter models.TitleFilter) ([]models.Title, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Title, 0, len(f.titles))
	for _, t := range f.titles {
		out = append(out, *t)
	}
	return out, nil
}

type fakeSyncRuns struct {
	mu      sync.Mutex
	created []models.SyncRun
	err     error
}

func (f *fakeSyncRuns) Create(ctx context.Context, run *models.SyncRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	run.ID = uuid.New()
	f.created = append(f.created, *run)
	return nil
}
func (f *fakeSyncRuns) List(ctx context.Context, page, limit int) ([]models.SyncRun, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created, int64(len(f.created)), nil
}

type fakeSource struct {
	rows [][]string
	err  error
}

func (f *fakeSource) ReadRange(ctx context.Context, sheetID, rng string) ([][]string, error) {
	return f.rows, f.err
}

type fakeSNS struct {
	mu       sync.Mutex
	messages [][]byte
	err      error
}

func (f *fakeSNS) Publish(ctx context.Context, topicArn string, message []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, message)
	return f.err
}

type fakeObjectStore struct {
	puts   map[string][]byte
	putErr error
}

func (f *fakeObjectStore) Put(ctx context.Context, key, contentType string, body []byte) error {
	if f.putErr != nil {
		return f.putErr
	}
	if f.puts == nil {
		f.puts = make(map[string][]byte)
	}
	f.puts[key] = body
	return nil
}
func (f *fakeObjectStore) PresignGet(ctx context.Context, key string, expires time.Duration) (string, error) {
	return "https://exports.example.test/" + key + "?X-Amz-Expires=" + expires.String(), nil
}
