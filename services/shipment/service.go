package shipment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"freight-admin/apperrors"
	"freight-admin/logger"
	shipmentModel "freight-admin/models/shipment"
	"freight-admin/services/status"
	"freight-admin/services/tracking"
	shipmentTypes "freight-admin/types/shipment"
	"freight-admin/utils"

	"github.com/google/uuid"
	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

const maxTrackingCodeAttempts = 5

// StatusListener reacts to a persisted status change. Errors are reported
// to the error sink and never fail the change itself.
type StatusListener interface {
	OnStatusChanged(ctx context.Context, change shipmentTypes.StatusChange) error
}

// Service is the shipment status engine.
type Service struct {
	DB        *gorm.DB
	Validator *status.Validator
	Recorder  *tracking.Recorder
	Listeners []StatusListener
	Store     ObjectStore
	Sink      apperrors.ErrorSink
	Now       func() time.Time

	// NewTrackingCode is swappable for tests.
	NewTrackingCode func() (string, error)
}

func NewService(db *gorm.DB, store ObjectStore, sink apperrors.ErrorSink, listeners ...StatusListener) *Service {
	if sink == nil {
		sink = apperrors.LogSink{}
	}
	svc := &Service{
		DB:              db,
		Recorder:        tracking.NewRecorder(db),
		Listeners:       listeners,
		Store:           store,
		Sink:            sink,
		Now:             time.Now,
		NewTrackingCode: utils.GenerateTrackingCode,
	}
	svc.Validator = &status.Validator{Now: svc.now}
	return svc
}

// ChangeOptions carries the optional inputs of a status change.
type ChangeOptions struct {
	ProofURL    string
	DeliveredAt *time.Time
	Note        string
	Actor       string
}

// ChangeStatus moves a shipment to target. The status write is the only
// step that can fail the call; history and listeners run afterwards and
// report their failures to the sink.
func (s *Service) ChangeStatus(ctx context.Context, id uint, target shipmentModel.ShipmentStatus, opts ChangeOptions) (*shipmentModel.Shipment, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	decision, err := s.Validator.Validate(current.Status, status.Request{
		Target:      target,
		ProofURL:    opts.ProofURL,
		DeliveredAt: opts.DeliveredAt,
	})
	if err != nil {
		return nil, err
	}
	if !decision.AppendEvent {
		return current, nil
	}

	updates := map[string]interface{}{
		"status":     decision.Status,
		"updated_at": s.now(),
	}
	if decision.DeliveredAt != nil {
		updates["delivered_at"] = *decision.DeliveredAt
		updates["proof_of_delivery_url"] = *decision.ProofURL
	}
	if err := s.DB.WithContext(ctx).Model(&shipmentModel.Shipment{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, apperrors.Upstream("shipment store", fmt.Errorf("update status of shipment %d: %w", id, err))
	}

	updated, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	logger.Success(fmt.Sprintf("Shipment %s moved from %s to %s", updated.TrackingCode, current.Status, updated.Status))

	// Events are stamped at write time so history never goes backwards; a
	// backdated delivery is kept on the shipment only.
	event := s.appendEvent(ctx, updated.ID, decision.Status, s.now(), opts.Note, opts.Actor)

	s.notify(ctx, shipmentTypes.StatusChange{
		Shipment: updated,
		Event:    event,
		Previous: current.Status,
		Notify:   decision.Notify,
		Actor:    opts.Actor,
	})
	return updated, nil
}

// Create registers a new shipment in the created status.
func (s *Service) Create(ctx context.Context, req shipmentTypes.CreateShipmentRequest, actor string) (*shipmentModel.Shipment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	code, err := s.uniqueTrackingCode(ctx)
	if err != nil {
		return nil, err
	}

	sh := shipmentModel.Shipment{
		TrackingCode:       code,
		Status:             shipmentModel.StatusCreated,
		ClientID:           req.ClientID,
		DriverID:           req.DriverID,
		VehicleID:          req.VehicleID,
		RecipientEmail:     req.RecipientEmail,
		Description:        req.Description,
		Origin:             req.Origin,
		DestinationAddress: req.DestinationAddress,
		CreatedBy:          actor,
	}
	if err := s.DB.WithContext(ctx).Create(&sh).Error; err != nil {
		return nil, apperrors.Upstream("shipment store", fmt.Errorf("create shipment: %w", err))
	}
	logger.Success(fmt.Sprintf("Shipment %s created for client %d", sh.TrackingCode, sh.ClientID))

	s.appendEvent(ctx, sh.ID, sh.Status, s.now(), "", actor)
	return &sh, nil
}

// Get returns one shipment.
func (s *Service) Get(ctx context.Context, id uint) (*shipmentModel.Shipment, error) {
	var sh shipmentModel.Shipment
	if err := s.DB.WithContext(ctx).First(&sh, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("shipment")
		}
		return nil, apperrors.Upstream("shipment store", err)
	}
	return &sh, nil
}

// List returns shipments matching f, newest first.
func (s *Service) List(ctx context.Context, f shipmentTypes.Filter) ([]shipmentModel.Shipment, error) {
	q := s.DB.WithContext(ctx).Model(&shipmentModel.Shipment{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ClientID != 0 {
		q = q.Where("client_id = ?", f.ClientID)
	}
	if f.DriverID != 0 {
		q = q.Where("driver_id = ?", f.DriverID)
	}
	if f.TrackingCode != "" {
		q = q.Where("tracking_code = ?", f.TrackingCode)
	}
	if f.From != nil {
		q = q.Where("posted_at >= ?", now.With(*f.From).BeginningOfDay())
	}
	if f.To != nil {
		q = q.Where("posted_at <= ?", now.With(*f.To).EndOfDay())
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var list []shipmentModel.Shipment
	if err := q.Order("posted_at DESC").Order("id DESC").Find(&list).Error; err != nil {
		return nil, apperrors.Upstream("shipment store", err)
	}
	return list, nil
}

// History returns the tracking events of a shipment, oldest first.
func (s *Service) History(ctx context.Context, id uint) ([]shipmentModel.TrackingEvent, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.Recorder.History(ctx, id)
}

// Track is the public lookup by tracking code. A failing history read
// degrades to an empty history.
func (s *Service) Track(ctx context.Context, code string) (*shipmentTypes.TrackingResponse, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !utils.IsTrackingCode(code) {
		return nil, apperrors.NewValidation("code", "is not a valid tracking code")
	}

	var sh shipmentModel.Shipment
	if err := s.DB.WithContext(ctx).Where("tracking_code = ?", code).First(&sh).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("shipment")
		}
		return nil, apperrors.Upstream("shipment store", err)
	}

	history, err := s.Recorder.History(ctx, sh.ID)
	if err != nil {
		s.Sink.Report(ctx, "tracking.history", err)
		history = []shipmentModel.TrackingEvent{}
	}
	return &shipmentTypes.TrackingResponse{Shipment: &sh, History: history}, nil
}

// UploadProof stores a proof-of-delivery file and returns its public URL.
// The URL is applied to the shipment by a later status change.
func (s *Service) UploadProof(ctx context.Context, id uint, filename, contentType string, body io.Reader) (string, error) {
	if s.Store == nil {
		return "", apperrors.Upstream("object storage", errors.New("not configured"))
	}
	if _, err := s.Get(ctx, id); err != nil {
		return "", err
	}

	key := fmt.Sprintf("proofs/%d-%s%s", id, uuid.NewString(), strings.ToLower(filepath.Ext(filename)))
	url, err := s.Store.Upload(ctx, key, contentType, body)
	if err != nil {
		return "", apperrors.Upstream("object storage", err)
	}
	logger.Info(fmt.Sprintf("Proof of delivery for shipment %d stored at %s", id, key))
	return url, nil
}

func (s *Service) appendEvent(ctx context.Context, id uint, st shipmentModel.ShipmentStatus, at time.Time, note, actor string) *shipmentModel.TrackingEvent {
	event, err := s.Recorder.Append(ctx, tracking.AppendInput{
		ShipmentID: id,
		Status:     st,
		OccurredAt: at,
		Note:       note,
		CreatedBy:  actor,
	})
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to append tracking event for shipment_id: %d", id), err)
		s.Sink.Report(ctx, "tracking.append", err)
		return nil
	}
	return event
}

func (s *Service) notify(ctx context.Context, change shipmentTypes.StatusChange) {
	for _, l := range s.Listeners {
		if err := s.callListener(ctx, l, change); err != nil {
			s.Sink.Report(ctx, fmt.Sprintf("listener %T", l), err)
		}
	}
}

func (s *Service) callListener(ctx context.Context, l StatusListener, change shipmentTypes.StatusChange) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("listener panic: %v", r)
		}
	}()
	return l.OnStatusChanged(ctx, change)
}

func (s *Service) uniqueTrackingCode(ctx context.Context) (string, error) {
	for i := 0; i < maxTrackingCodeAttempts; i++ {
		code, err := s.NewTrackingCode()
		if err != nil {
			return "", err
		}
		var count int64
		if err := s.DB.WithContext(ctx).Model(&shipmentModel.Shipment{}).Where("tracking_code = ?", code).Count(&count).Error; err != nil {
			return "", apperrors.Upstream("shipment store", err)
		}
		if count == 0 {
			return code, nil
		}
		logger.Warning("Tracking code collision, retrying")
	}
	return "", fmt.Errorf("no free tracking code after %d attempts", maxTrackingCodeAttempts)
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}
