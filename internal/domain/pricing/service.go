package pricing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"palletbook/internal/core/apperror"
	"palletbook/internal/core/entity"
	"palletbook/internal/core/events"
	"palletbook/internal/core/id"
	"palletbook/internal/core/types"
	"palletbook/internal/domain/audit"
	"palletbook/pkg/logger"
)

// Repository persists price entries.
type Repository interface {
	InsertPrice(ctx context.Context, e Entry) error
	UpdatePrice(ctx context.Context, e Entry) error
}

// Service adds and edits prices. Reads go through the embedded Index.
type Service struct {
	*Index

	repo   Repository
	audit  audit.Recorder
	events events.Publisher
	now    func() time.Time

	writeMu sync.Mutex
}

// NewService creates a pricing service over idx.
func NewService(idx *Index, repo Repository, recorder audit.Recorder, pub events.Publisher) *Service {
	return &Service{
		Index:  idx,
		repo:   repo,
		audit:  recorder,
		events: pub,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// AddServicePriceInput starts a new rate for a flat service.
type AddServicePriceInput struct {
	ContractorID  string
	ServiceID     string
	EffectiveFrom types.Date
	PricePerUnit  types.Money
	UserID        string
}

// AddPalletPriceInput starts a new rate for a pallet type in one direction.
type AddPalletPriceInput struct {
	ContractorID  string
	PalletTypeID  string
	Direction     Direction
	EffectiveFrom types.Date
	PricePerUnit  types.Money
	UserID        string
}

// Changes is a partial edit of an existing entry.
type Changes struct {
	EffectiveFrom *types.Date
	PricePerUnit  *types.Money
	UserID        string
}

// AddServicePrice appends a point to a service price history.
func (s *Service) AddServicePrice(ctx context.Context, in AddServicePriceInput) (Entry, error) {
	if in.ServiceID == "" {
		return Entry{}, apperror.NewInvalidInput("serviceId", "required")
	}
	return s.add(ctx, ServiceKey(in.ContractorID, in.ServiceID), in.EffectiveFrom, in.PricePerUnit, in.UserID)
}

// AddPalletPrice appends a point to a pallet price history.
func (s *Service) AddPalletPrice(ctx context.Context, in AddPalletPriceInput) (Entry, error) {
	if in.PalletTypeID == "" {
		return Entry{}, apperror.NewInvalidInput("palletTypeId", "required")
	}
	if _, err := ParseDirection(string(in.Direction)); err != nil {
		return Entry{}, apperror.NewInvalidInput("direction", err.Error())
	}
	return s.add(ctx, PalletKey(in.ContractorID, in.PalletTypeID, in.Direction), in.EffectiveFrom, in.PricePerUnit, in.UserID)
}

func (s *Service) add(ctx context.Context, key Key, from types.Date, price types.Money, userID string) (Entry, error) {
	if key.ContractorID == "" {
		return Entry{}, apperror.NewInvalidInput("contractorId", "required")
	}
	if err := validatePoint(from, price); err != nil {
		return Entry{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.hasDate(key, from, id.ID{}) {
		return Entry{}, apperror.NewDuplicate("price", "effectiveFrom", from.String()).
			WithDetail("key", key.String())
	}

	now := s.now()
	e := Entry{
		ID:            id.New(),
		Kind:          key.Kind,
		ContractorID:  key.ContractorID,
		ItemID:        key.ItemID,
		Direction:     key.Direction,
		EffectiveFrom: from,
		PricePerUnit:  price,
		Timestamps:    entity.Timestamps{CreatedAt: now, UpdatedAt: now},
	}

	if err := s.repo.InsertPrice(ctx, e); err != nil {
		return Entry{}, apperror.NewPersistence("price", fmt.Errorf("insert %s: %w", key, err))
	}
	s.insert(e)

	action, entityType := audit.ActionAddPrice, audit.EntityServicePrice
	if key.Kind == KindPallet {
		action, entityType = audit.ActionAddPalletPrice, audit.EntityPalletPrice
	}
	s.recordAudit(ctx, audit.Input{
		Action:     action,
		EntityType: entityType,
		EntityKey:  key.String(),
		Diff:       map[string]any{"effectiveFrom": from.String(), "pricePerUnit": price.StringFixed(types.MoneyPlaces)},
		UserID:     userID,
	})
	s.events.Publish(ctx, events.Event{Kind: events.KindPriceAdded, EntityType: entityType, EntityKey: key.String()})

	logger.Info(ctx, "added price",
		"key", key.String(),
		"effective_from", from.String(),
		"price", price.String(),
	)
	return e, nil
}

// UpdatePrice edits an entry in place. The history keeps the same number of
// points; the edited point silently replaces what was there.
func (s *Service) UpdatePrice(ctx context.Context, priceID id.ID, changes Changes) (Entry, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	before, ok := s.Get(priceID)
	if !ok {
		return Entry{}, apperror.NewNotFound("price", priceID.String())
	}

	after := before
	if changes.EffectiveFrom != nil {
		after.EffectiveFrom = *changes.EffectiveFrom
	}
	if changes.PricePerUnit != nil {
		after.PricePerUnit = *changes.PricePerUnit
	}
	if err := validatePoint(after.EffectiveFrom, after.PricePerUnit); err != nil {
		return Entry{}, err
	}
	if s.hasDate(after.Key(), after.EffectiveFrom, after.ID) {
		return Entry{}, apperror.NewDuplicate("price", "effectiveFrom", after.EffectiveFrom.String()).
			WithDetail("key", after.Key().String())
	}
	after.UpdatedAt = s.now()

	if err := s.repo.UpdatePrice(ctx, after); err != nil {
		return Entry{}, apperror.NewPersistence("price", fmt.Errorf("update %s: %w", priceID, err))
	}
	s.replace(after)

	action, entityType := audit.ActionUpdatePrice, audit.EntityServicePrice
	if after.Kind == KindPallet {
		action, entityType = audit.ActionUpdatePalletPrice, audit.EntityPalletPrice
	}
	s.recordAudit(ctx, audit.Input{
		Action:     action,
		EntityType: entityType,
		EntityKey:  after.Key().String(),
		Diff: map[string]any{
			"before": pointDiff(before),
			"after":  pointDiff(after),
		},
		UserID: changes.UserID,
	})
	s.events.Publish(ctx, events.Event{Kind: events.KindPriceUpdated, EntityType: entityType, EntityKey: after.Key().String()})

	logger.Info(ctx, "updated price",
		"price_id", priceID,
		"key", after.Key().String(),
		"effective_from", after.EffectiveFrom.String(),
		"price", after.PricePerUnit.String(),
	)
	return after, nil
}

// recordAudit logs a failed append; the price change itself already happened.
func (s *Service) recordAudit(ctx context.Context, in audit.Input) {
	if _, err := s.audit.Record(ctx, in); err != nil {
		logger.Error(ctx, "price saved without audit entry", "entity_key", in.EntityKey, "error", err)
	}
}

func pointDiff(e Entry) map[string]any {
	return map[string]any{
		"effectiveFrom": e.EffectiveFrom.String(),
		"pricePerUnit":  e.PricePerUnit.StringFixed(types.MoneyPlaces),
	}
}

func validatePoint(from types.Date, price types.Money) error {
	if from.IsZero() {
		return apperror.NewInvalidInput("effectiveFrom", "required")
	}
	if price.IsNegative() {
		return apperror.NewInvalidInput("pricePerUnit", "must not be negative")
	}
	if !types.HasAtMostPlaces(price, types.MoneyPlaces) {
		return apperror.NewInvalidInput("pricePerUnit", "at most 2 decimal places")
	}
	return nil
}
