package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/adinrama/eto-telco-tracking/internal/core/domain"
	"github.com/adinrama/eto-telco-tracking/internal/core/estimation"
	"github.com/adinrama/eto-telco-tracking/internal/core/ports"
	"github.com/adinrama/eto-telco-tracking/internal/metrics"
)

var _ ports.TrackingService = (*TrackingService)(nil)

// TrackingService answers location and ETA queries for registered shipments.
type TrackingService struct {
	repo       ports.ShipmentRepository
	locator    ports.Locator
	heuristics estimation.Heuristics
	now        func() time.Time
	logger     zerolog.Logger
}

// NewTrackingService returns a TrackingService reading shipments from repo
// and positions from locator.
func NewTrackingService(
	repo ports.ShipmentRepository,
	locator ports.Locator,
	heuristics estimation.Heuristics,
	logger zerolog.Logger,
) *TrackingService {
	return &TrackingService{
		repo:       repo,
		locator:    locator,
		heuristics: heuristics,
		now:        time.Now,
		logger:     logger,
	}
}

// GetRealtimeLocation returns the current position fix of a shipment, or a
// warning when the shipment is delivered, cancelled or returned.
func (s *TrackingService) GetRealtimeLocation(ctx context.Context, trackingID string) (report *ports.LocationReport, err error) {
	defer func() {
		metrics.QueriesTotal.WithLabelValues("location", locationOutcome(report, err)).Inc()
	}()
	defer s.recoverUnexpected("get realtime location", trackingID, &err)

	if strings.TrimSpace(trackingID) == "" {
		return nil, domain.InvalidInput("tracking id cannot be empty")
	}

	shipment, err := s.repo.FindByTrackingID(ctx, trackingID)
	if err != nil {
		return nil, err
	}

	coords, err := s.locator.Locate(ctx, trackingID)
	if err != nil {
		s.logger.Error().Err(err).Str("tracking_id", trackingID).Msg("locator failed")
		return nil, domain.NewError(domain.KindUnexpectedError, "locate shipment %s: %v", trackingID, err)
	}
	if !estimation.ValidateCoordinates(coords.Lat, coords.Lng) {
		return nil, domain.NewError(domain.KindUnexpectedError,
			"invalid coordinates for shipment %s: %v, %v", trackingID, coords.Lat, coords.Lng)
	}

	if shipment.IsUntrackable() {
		return &ports.LocationReport{
			TrackingID: trackingID,
			Status:     shipment.Status,
			Warning:    "shipment is " + strings.ToLower(shipment.Status) + "; real-time tracking is no longer available",
		}, nil
	}

	zone := s.heuristics.ResolveTimezone(coords.Lng)
	return &ports.LocationReport{
		TrackingID: trackingID,
		Status:     shipment.Status,
		Fix: &domain.LocationSample{
			Coordinates: coords,
			Name:        s.heuristics.ResolveLocationName(coords.Lat, coords.Lng),
			Timezone:    zone,
			Timestamp:   s.now().In(estimation.ZoneFor(zone)),
		},
	}, nil
}

// GetEstimatedArrival returns the estimated arrival of a shipment, or a
// terminal message when it was already delivered or cancelled.
func (s *TrackingService) GetEstimatedArrival(ctx context.Context, trackingID string) (report *ports.ArrivalReport, err error) {
	defer func() {
		metrics.QueriesTotal.WithLabelValues("eta", arrivalOutcome(report, err)).Inc()
	}()
	defer s.recoverUnexpected("get estimated arrival", trackingID, &err)

	if strings.TrimSpace(trackingID) == "" {
		return nil, domain.InvalidInput("tracking id cannot be empty")
	}

	shipment, err := s.repo.FindByTrackingID(ctx, trackingID)
	if err != nil {
		return nil, err
	}

	if shipment.HasArrivalOutcome() {
		return &ports.ArrivalReport{
			TrackingID: trackingID,
			Status:     shipment.Status,
			Message:    terminalMessage(shipment),
		}, nil
	}

	if strings.TrimSpace(shipment.Destination) == "" {
		return nil, domain.InvalidInput("shipment %s has no destination", trackingID)
	}

	days, ok := s.heuristics.EstimateEtaDays(shipment.Destination, shipment.Status)
	if !ok {
		return nil, domain.NewError(domain.KindEtaUnavailable,
			"cannot estimate arrival for shipment %s to %s", trackingID, shipment.Destination)
	}

	zone := s.heuristics.ResolveDestinationTimezone(shipment.Destination)
	confidence := domain.ConfidenceMedium
	if shipment.Status == domain.StatusInTransit {
		confidence = domain.ConfidenceHigh
	}

	return &ports.ArrivalReport{
		TrackingID: trackingID,
		Status:     shipment.Status,
		Estimate: &domain.EtaEstimate{
			Destination:   shipment.Destination,
			DaysRemaining: days,
			ArrivesAt:     s.now().In(estimation.ZoneFor(zone)).AddDate(0, 0, days),
			Timezone:      zone,
			Confidence:    confidence,
		},
	}, nil
}

// recoverUnexpected converts a panic in a query into an UnexpectedError.
func (s *TrackingService) recoverUnexpected(op, trackingID string, err *error) {
	if r := recover(); r != nil {
		s.logger.Error().
			Interface("panic", r).
			Str("op", op).
			Str("tracking_id", trackingID).
			Msg("recovered from panic")
		*err = domain.NewError(domain.KindUnexpectedError, "%s: %v", op, r)
	}
}

func terminalMessage(s *domain.Shipment) string {
	if s.Status == domain.StatusCancelled {
		return "shipment " + s.TrackingID + " was cancelled"
	}
	return "shipment " + s.TrackingID + " has already been delivered"
}

func locationOutcome(r *ports.LocationReport, err error) string {
	switch {
	case err != nil:
		return string(domain.KindOf(err))
	case r != nil && r.Fix != nil:
		return "fix"
	default:
		return "terminal"
	}
}

func arrivalOutcome(r *ports.ArrivalReport, err error) string {
	switch {
	case err != nil:
		return string(domain.KindOf(err))
	case r != nil && r.Estimate != nil:
		return "estimate"
	default:
		return "terminal"
	}
}
