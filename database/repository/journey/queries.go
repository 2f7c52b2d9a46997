package journeyRepo

import (
	"context"
	"fmt"

	"sailsmart/models"
)

func (r *journeyRepo) GetJourney(ctx context.Context, id string) (*models.Journey, error) {
	var journeys []models.Journey
	if err := r.db.WithContext(ctx).
		Preload("Legs").
		Where("id = ?", id).
		Limit(1).
		Find(&journeys).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch journey %s: %w", id, err)
	}
	if len(journeys) == 0 {
		return nil, nil
	}
	return &journeys[0], nil
}

func (r *journeyRepo) GetLeg(ctx context.Context, legID string) (*models.Leg, error) {
	var legs []models.Leg
	if err := r.db.WithContext(ctx).Where("id = ?", legID).Limit(1).Find(&legs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch leg %s: %w", legID, err)
	}
	if len(legs) == 0 {
		return nil, nil
	}
	return &legs[0], nil
}

func (r *journeyRepo) ListRequirements(ctx context.Context, journeyID string) ([]models.JourneyRequirement, error) {
	var reqs []models.JourneyRequirement
	if err := r.db.WithContext(ctx).
		Where("journey_id = ?", journeyID).
		Order("sort_order ASC").
		Order("created_at ASC").
		Find(&reqs).Error; err != nil {
		return nil, fmt.Errorf("failed to list requirements: %w", err)
	}
	return reqs, nil
}

func (r *journeyRepo) CountRequirements(ctx context.Context, journeyID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.JourneyRequirement{}).
		Where("journey_id = ?", journeyID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count requirements: %w", err)
	}
	return count, nil
}

func (r *journeyRepo) GetRequirement(ctx context.Context, journeyID, requirementID string) (*models.JourneyRequirement, error) {
	var reqs []models.JourneyRequirement
	if err := r.db.WithContext(ctx).
		Where("id = ? AND journey_id = ?", requirementID, journeyID).
		Limit(1).
		Find(&reqs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch requirement %s: %w", requirementID, err)
	}
	if len(reqs) == 0 {
		return nil, nil
	}
	return &reqs[0], nil
}
