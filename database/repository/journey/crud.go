package journeyRepo

import (
	"context"
	"errors"
	"fmt"

	"sailsmart/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type journeyRepo struct {
	db *gorm.DB
}

func NewJourneyRepo(db *gorm.DB) JourneyRepository {
	return &journeyRepo{db: db}
}

func (r *journeyRepo) CreateJourney(ctx context.Context, j *models.Journey) error {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	for i := range j.Legs {
		if j.Legs[i].ID == "" {
			j.Legs[i].ID = uuid.NewString()
		}
		j.Legs[i].JourneyID = j.ID
	}
	if err := r.db.WithContext(ctx).Create(j).Error; err != nil {
		return fmt.Errorf("failed to create journey: %w", err)
	}
	return nil
}

func (r *journeyRepo) UpdateAutoApproval(ctx context.Context, journeyID string, in models.AutoApprovalInput) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockJourney(tx, journeyID); err != nil {
			return err
		}
		if in.Enabled {
			var count int64
			if err := tx.Model(&models.JourneyRequirement{}).
				Where("journey_id = ?", journeyID).
				Count(&count).Error; err != nil {
				return fmt.Errorf("failed to count requirements: %w", err)
			}
			if count == 0 {
				return ErrNoRequirements
			}
		}
		res := tx.Model(&models.Journey{}).
			Where("id = ?", journeyID).
			Updates(map[string]interface{}{
				"auto_approval_enabled":   in.Enabled,
				"auto_approval_threshold": in.Threshold,
				"auto_deny_below":         in.AutoDenyBelow,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to update auto-approval: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *journeyRepo) CreateRequirement(ctx context.Context, req *models.JourneyRequirement) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return fmt.Errorf("failed to create requirement: %w", err)
	}
	return nil
}

func (r *journeyRepo) UpdateRequirement(ctx context.Context, req *models.JourneyRequirement) error {
	if err := r.db.WithContext(ctx).Save(req).Error; err != nil {
		return fmt.Errorf("failed to update requirement %s: %w", req.ID, err)
	}
	return nil
}

func (r *journeyRepo) DeleteRequirement(ctx context.Context, journeyID, requirementID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		j, err := lockJourney(tx, journeyID)
		if err != nil {
			return err
		}
		if j.AutoApprovalEnabled {
			var count int64
			if err := tx.Model(&models.JourneyRequirement{}).
				Where("journey_id = ?", journeyID).
				Count(&count).Error; err != nil {
				return fmt.Errorf("failed to count requirements: %w", err)
			}
			if count <= 1 {
				return ErrLastRequirement
			}
		}
		if err := tx.Where("requirement_id = ?", requirementID).
			Delete(&models.RegistrationAnswer{}).Error; err != nil {
			return fmt.Errorf("failed to delete answers: %w", err)
		}
		res := tx.Where("id = ? AND journey_id = ?", requirementID, journeyID).
			Delete(&models.JourneyRequirement{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete requirement: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// lockJourney row-locks the journey so the auto-approval flag and the requirement count
// are read and changed together.
func lockJourney(tx *gorm.DB, journeyID string) (*models.Journey, error) {
	var journeys []models.Journey
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", journeyID).
		Limit(1).
		Find(&journeys).Error; err != nil {
		return nil, fmt.Errorf("failed to lock journey %s: %w", journeyID, err)
	}
	if len(journeys) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &journeys[0], nil
}

// IsNotFound reports whether err means the addressed row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
