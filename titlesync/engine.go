package titlesync

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/zirdl/bunubon/models"
	"go.uber.org/zap"
)

// Store is the persistence the engine reconciles against.
type Store interface {
	ListMunicipalities(ctx context.Context) ([]models.Municipality, error)
	// FindTitleBySerial returns (nil, nil) when no title carries serial.
	FindTitleBySerial(ctx context.Context, serial string) (*models.Title, error)
	CreateTitle(ctx context.Context, title *models.Title) error
	UpdateTitle(ctx context.Context, title *models.Title) error
}

// IDGenerator produces identifiers for newly inserted titles.
type IDGenerator func() uuid.UUID

// Engine upserts candidates into a Store by serial number.
type Engine struct {
	store  Store
	newID  IDGenerator
	logger *zap.Logger
}

// NewEngine creates an Engine. A nil newID falls back to uuid.New and a nil
// logger to a no-op logger.
func NewEngine(store Store, newID IDGenerator, logger *zap.Logger) *Engine {
	if newID == nil {
		newID = uuid.New
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{store: store, newID: newID, logger: logger}
}

// SyncTitles reconciles candidates one at a time, in order. Only a failure to
// load municipalities fails the call; every other failure is recorded against
// its row and processing continues. There is no transaction across rows.
func (e *Engine) SyncTitles(ctx context.Context, candidates []models.CandidateTitle) (*models.SyncResult, error) {
	municipalities, err := e.store.ListMunicipalities(ctx)
	if err != nil {
		return nil, fmt.Errorf("load municipalities: %w", err)
	}
	resolver := newMunicipalityResolver(municipalities, e.logger)

	result := &models.SyncResult{Errors: []string{}}
	for _, c := range candidates {
		serial := c[FieldSerialNumber]
		name := c[FieldMunicipalityName]

		municipalityID, ok := resolver.resolve(name)
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("Serial %s: Municipality '%s' not found", serial, name))
			continue
		}

		inserted, err := e.upsert(ctx, c, municipalityID)
		if err != nil {
			e.logger.Warn("title sync row failed", zap.String("serial", serial), zap.Error(err))
			result.Errors = append(result.Errors, fmt.Sprintf("Serial %s: %s", serial, err.Error()))
			continue
		}
		if inserted {
			result.Inserted++
		} else {
			result.Updated++
		}
	}

	e.logger.Info("title sync finished",
		zap.Int("candidates", len(candidates)),
		zap.Int("inserted", result.Inserted),
		zap.Int("updated", result.Updated),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}

func (e *Engine) upsert(ctx context.Context, c models.CandidateTitle, municipalityID uuid.UUID) (bool, error) {
	serial := c[FieldSerialNumber]

	existing, err := e.store.FindTitleBySerial(ctx, serial)
	if err != nil {
		return false, err
	}

	if existing != nil {
		applyCandidate(existing, c, municipalityID)
		if err := e.store.UpdateTitle(ctx, existing); err != nil {
			return false, err
		}
		return false, nil
	}

	title := &models.Title{ID: e.newID(), SerialNumber: serial}
	applyCandidate(title, c, municipalityID)
	if err := e.store.CreateTitle(ctx, title); err != nil {
		return false, err
	}
	return true, nil
}

// applyCandidate overwrites every reconcilable field. ID and SerialNumber are
// left alone.
func applyCandidate(t *models.Title, c models.CandidateTitle, municipalityID uuid.UUID) {
	t.MunicipalityID = municipalityID
	t.Municipality = nil
	t.TitleType = c[FieldTitleType]
	t.Subtype = c[FieldSubtype]
	t.BeneficiaryName = c[FieldBeneficiaryName]
	t.LotNumber = c[FieldLotNumber]
	t.Area = ParseArea(c[FieldArea])
	t.Status = c[FieldStatus]
	t.DateIssued = c[FieldDateIssued]
	t.Notes = c[FieldNotes]
}

// municipalityResolver is a name lookup built once per sync call.
type municipalityResolver struct {
	byName map[string]uuid.UUID
}

func newMunicipalityResolver(municipalities []models.Municipality, logger *zap.Logger) *municipalityResolver {
	byName := make(map[string]uuid.UUID, len(municipalities))
	for _, m := range municipalities {
		key := normalizeName(m.Name)
		if first, dup := byName[key]; dup {
			logger.Warn("duplicate municipality name, keeping first",
				zap.String("name", m.Name),
				zap.String("kept_id", first.String()),
				zap.String("ignored_id", m.ID.String()),
			)
			continue
		}
		byName[key] = m.ID
	}
	return &municipalityResolver{byName: byName}
}

func (r *municipalityResolver) resolve(name string) (uuid.UUID, bool) {
	id, ok := r.byName[normalizeName(name)]
	return id, ok
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
