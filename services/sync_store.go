package services

import (
	"context"

	"github.com/zirdl/bunubon/models"
	"github.com/zirdl/bunubon/repository"
	"github.com/zirdl/bunubon/titlesync"
)

// syncStore adapts the GORM repositories to titlesync.Store.
type syncStore struct {
	titles         repository.TitleRepository
	municipalities repository.MunicipalityRepository
}

// NewSyncStore returns the titlesync.Store backed by the registry database.
func NewSyncStore(titles repository.TitleRepository, municipalities repository.MunicipalityRepository) titlesync.Store {
	return &syncStore{titles: titles, municipalities: municipalities}
}

func (s *syncStore) ListMunicipalities(ctx context.Context) ([]models.Municipality, error) {
	return s.municipalities.List(ctx)
}

func (s *syncStore) FindTitleBySerial(ctx context.Context, serial string) (*models.Title, error) {
	t, err := s.titles.FindBySerial(ctx, serial)
	if repository.IsNotFound(err) {
		return nil, nil
	}
	return t, err
}

func (s *syncStore) CreateTitle(ctx context.Context, title *models.Title) error {
	return s.titles.Create(ctx, title)
}

func (s *syncStore) UpdateTitle(ctx context.Context, title *models.Title) error {
	return s.titles.Update(ctx, title)
}
