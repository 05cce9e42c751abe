package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/adinrama/eto-telco-tracking/internal/core/domain"
	"github.com/adinrama/eto-telco-tracking/internal/core/ports"
	"github.com/adinrama/eto-telco-tracking/internal/metrics"
)

var _ ports.ShipmentService = (*ShipmentService)(nil)

// ShipmentService is the shipment registry: it registers shipments, reads
// them back and applies status changes, announcing each change to the
// configured NotificationSink.
type ShipmentService struct {
	repo     ports.ShipmentRepository
	sink     ports.NotificationSink
	validate *inputValidator
	logger   zerolog.Logger
}

// NewShipmentService returns a registry over repo. sink may be nil, in which
// case status changes are not announced.
func NewShipmentService(repo ports.ShipmentRepository, sink ports.NotificationSink, logger zerolog.Logger) *ShipmentService {
	return &ShipmentService{
		repo:     repo,
		sink:     sink,
		validate: newInputValidator(),
		logger:   logger,
	}
}

// AddShipment registers a new shipment with an empty update history.
func (s *ShipmentService) AddShipment(ctx context.Context, input ports.AddShipmentInput) (*domain.Shipment, error) {
	if err := s.validate.Validate(input); err != nil {
		metrics.ShipmentsAddedTotal.WithLabelValues(string(domain.KindInvalidInput)).Inc()
		return nil, domain.InvalidInput("%s", err.Error())
	}

	shipment := &domain.Shipment{
		TrackingID:  input.TrackingID,
		Destination: input.Destination,
		Status:      input.Status,
		Updates:     []string{},
	}

	if err := s.repo.Create(ctx, shipment); err != nil {
		metrics.ShipmentsAddedTotal.WithLabelValues(string(domain.KindOf(err))).Inc()
		s.logger.Warn().Err(err).Str("tracking_id", input.TrackingID).Msg("shipment not added")
		return nil, err
	}

	metrics.ShipmentsAddedTotal.WithLabelValues("ok").Inc()
	s.logger.Info().
		Str("tracking_id", shipment.TrackingID).
		Str("destination", shipment.Destination).
		Str("status", shipment.Status).
		Msg("shipment added")

	return shipment.Clone(), nil
}

// GetShipment returns a copy of the shipment registered under trackingID.
func (s *ShipmentService) GetShipment(ctx context.Context, trackingID string) (*domain.Shipment, error) {
	return s.repo.FindByTrackingID(ctx, trackingID)
}

// UpdateStatus sets the shipment's current status and appends it to the
// history. When input.Recipient is set the sink is told about the change;
// whatever happens to that notice does not affect the result.
func (s *ShipmentService) UpdateStatus(ctx context.Context, input ports.UpdateStatusInput) (*domain.Shipment, error) {
	if err := s.validate.Validate(input); err != nil {
		return nil, domain.InvalidInput("%s", err.Error())
	}

	updated, err := s.repo.UpdateStatus(ctx, input.TrackingID, input.Status)
	if err != nil {
		return nil, err
	}

	metrics.StatusUpdatesTotal.WithLabelValues(input.Status).Inc()
	s.logger.Info().
		Str("tracking_id", input.TrackingID).
		Str("status", input.Status).
		Int("updates", len(updated.Updates)).
		Msg("status updated")

	if input.Recipient != "" && s.sink != nil {
		s.sink.Notify(ctx, input.TrackingID, input.Recipient, input.Status)
	}

	return updated, nil
}
