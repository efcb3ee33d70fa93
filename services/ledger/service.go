package ledger

import (
	"context"
	"errors"
	"fmt"

	"freight-admin/apperrors"
	"freight-admin/logger"
	ledgerModel "freight-admin/models/ledger"
	shipmentModel "freight-admin/models/shipment"
	ledgerTypes "freight-admin/types/ledger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service owns ledger entry mutations and reports.
type Service struct {
	DB         *gorm.DB
	Aggregator *Aggregator
}

// NewService wires the SQL tier as primary and row summation as fallback.
func NewService(db *gorm.DB, sink apperrors.ErrorSink) *Service {
	return &Service{
		DB:         db,
		Aggregator: NewAggregator(&SQLStrategy{DB: db}, &RowStrategy{DB: db}, sink),
	}
}

// Create validates, normalizes and stores a new entry.
func (s *Service) Create(ctx context.Context, req ledgerTypes.LedgerEntryRequest, actor string) (*ledgerModel.LedgerEntry, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.PostedDate == nil {
		return nil, apperrors.NewValidation("posted_date", "is required")
	}

	entry := ledgerModel.LedgerEntry{CreatedBy: actor}
	req.ApplyTo(&entry)
	if err := ledgerTypes.ValidateEntry(&entry); err != nil {
		return nil, err
	}
	if err := shipmentExists(s.DB.WithContext(ctx), entry.ShipmentID); err != nil {
		return nil, err
	}

	if err := s.DB.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, apperrors.Upstream("ledger store", fmt.Errorf("create ledger entry: %w", err))
	}
	logger.Success(fmt.Sprintf("Ledger entry %d created by %s", entry.ID, actor))
	return s.Get(ctx, entry.ID)
}

// Update merges the present fields of req into the stored entry.
func (s *Service) Update(ctx context.Context, id uint, req ledgerTypes.LedgerEntryRequest) (*ledgerModel.LedgerEntry, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry ledgerModel.LedgerEntry
		if err := tx.First(&entry, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("ledger entry")
			}
			return apperrors.Upstream("ledger store", err)
		}

		req.ApplyTo(&entry)
		if err := ledgerTypes.ValidateEntry(&entry); err != nil {
			return err
		}
		if err := shipmentExists(tx, entry.ShipmentID); err != nil {
			return err
		}

		// Select("*") so cleared groups are written back as NULL
		if err := tx.Model(&entry).Select("*").Omit("id", "created_at", "created_by", clause.Associations).Updates(&entry).Error; err != nil {
			return apperrors.Upstream("ledger store", fmt.Errorf("update ledger entry %d: %w", id, err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes an entry.
func (s *Service) Delete(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&ledgerModel.LedgerEntry{}, id)
	if res.Error != nil {
		return apperrors.Upstream("ledger store", fmt.Errorf("delete ledger entry %d: %w", id, res.Error))
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("ledger entry")
	}
	return nil
}

// Get returns one entry with its shipment tracking code.
func (s *Service) Get(ctx context.Context, id uint) (*ledgerModel.LedgerEntry, error) {
	var entry ledgerModel.LedgerEntry
	err := s.withTrackingCode(ctx).Where("ledger_entries.id = ?", id).Take(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("ledger entry")
		}
		return nil, apperrors.Upstream("ledger store", err)
	}
	return &entry, nil
}

// List returns the entries posted inside w, newest first.
func (s *Service) List(ctx context.Context, w ledgerTypes.Window) ([]ledgerModel.LedgerEntry, error) {
	q := s.withTrackingCode(ctx)
	if lower := w.Lower(); lower != nil {
		q = q.Where("ledger_entries.posted_date >= ?", lower.Format(ledgerTypes.DateLayout))
	}
	if upper := w.UpperExclusive(); upper != nil {
		q = q.Where("ledger_entries.posted_date < ?", upper.Format(ledgerTypes.DateLayout))
	}

	var list []ledgerModel.LedgerEntry
	if err := q.Order("ledger_entries.posted_date DESC").Order("ledger_entries.id DESC").Find(&list).Error; err != nil {
		return nil, apperrors.Upstream("ledger store", err)
	}
	return list, nil
}

// Aggregate computes the report for w.
func (s *Service) Aggregate(ctx context.Context, w ledgerTypes.Window) (Report, error) {
	return s.Aggregator.Aggregate(ctx, w)
}

func (s *Service) withTrackingCode(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx).
		Model(&ledgerModel.LedgerEntry{}).
		Select("ledger_entries.*, shipments.tracking_code AS tracking_code").
		Joins("LEFT JOIN shipments ON shipments.id = ledger_entries.shipment_id")
}

// shipmentExists rejects links to unknown shipments before the foreign key does.
func shipmentExists(db *gorm.DB, id *uint) error {
	if id == nil {
		return nil
	}
	var count int64
	if err := db.Model(&shipmentModel.Shipment{}).Where("id = ?", *id).Count(&count).Error; err != nil {
		return apperrors.Upstream("ledger store", err)
	}
	if count == 0 {
		return apperrors.NewValidation("shipment_id", "unknown shipment")
	}
	return nil
}
