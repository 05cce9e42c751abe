// Package memory keeps shipments in process memory. Nothing survives a
// restart.
package memory

import (
	"context"
	"sync"

	"github.com/adinrama/eto-telco-tracking/internal/core/domain"
)

// ShipmentRepository implements ports.ShipmentRepository over a map guarded
// by a RWMutex. Stored records are never handed out; callers get copies.
type ShipmentRepository struct {
	mu         sync.RWMutex
	byTracking map[string]*domain.Shipment
}

func NewShipmentRepository() *ShipmentRepository {
	return &ShipmentRepository{byTracking: make(map[string]*domain.Shipment)}
}

// Create inserts a copy of s unless its tracking id is taken.
func (r *ShipmentRepository) Create(_ context.Context, s *domain.Shipment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byTracking[s.TrackingID]; ok {
		return domain.DuplicateID(s.TrackingID)
	}
	r.byTracking[s.TrackingID] = s.Clone()
	return nil
}

// FindByTrackingID returns a copy of the stored shipment.
func (r *ShipmentRepository) FindByTrackingID(_ context.Context, trackingID string) (*domain.Shipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byTracking[trackingID]
	if !ok {
		return nil, domain.NotFound(trackingID)
	}
	return s.Clone(), nil
}

// UpdateStatus applies status to the stored shipment and returns a copy.
func (r *ShipmentRepository) UpdateStatus(_ context.Context, trackingID, status string) (*domain.Shipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byTracking[trackingID]
	if !ok {
		return nil, domain.NotFound(trackingID)
	}
	s.ApplyStatus(status)
	return s.Clone(), nil
}

// Len reports how many shipments are registered.
func (r *ShipmentRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byTracking)
}
