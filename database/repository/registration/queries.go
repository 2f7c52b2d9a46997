package registrationRepo

import (
	"context"
	"fmt"

	"sailsmart/models"
)

func (r *registrationRepo) Get(ctx context.Context, id string) (*models.Registration, error) {
	var regs []models.Registration
	if err := r.db.WithContext(ctx).
		Preload("Answers").
		Where("id = ?", id).
		Limit(1).
		Find(&regs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch registration %s: %w", id, err)
	}
	if len(regs) == 0 {
		return nil, nil
	}
	return &regs[0], nil
}

func (r *registrationRepo) FindActive(ctx context.Context, legID, crewUserID string) (*models.Registration, error) {
	var regs []models.Registration
	if err := r.db.WithContext(ctx).
		Where("leg_id = ? AND crew_user_id = ?", legID, crewUserID).
		Where("status IN ?", []models.RegistrationStatus{models.StatusPendingApproval, models.StatusApproved}).
		Limit(1).
		Find(&regs).Error; err != nil {
		return nil, fmt.Errorf("failed to look up active registration: %w", err)
	}
	if len(regs) == 0 {
		return nil, nil
	}
	return &regs[0], nil
}

func (r *registrationRepo) ListByJourney(ctx context.Context, journeyID string) ([]models.Registration, error) {
	var regs []models.Registration
	if err := r.db.WithContext(ctx).
		Where("journey_id = ?", journeyID).
		Order("created_at ASC").
		Find(&regs).Error; err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	return regs, nil
}
