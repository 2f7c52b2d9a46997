package registrationRepo

import (
	"context"
	"fmt"

	"sailsmart/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type registrationRepo struct {
	db *gorm.DB
}

func NewRegistrationRepo(db *gorm.DB) RegistrationRepository {
	return &registrationRepo{db: db}
}

func (r *registrationRepo) Create(ctx context.Context, reg *models.Registration) error {
	if reg.ID == "" {
		reg.ID = uuid.NewString()
	}
	for i := range reg.Answers {
		if reg.Answers[i].ID == "" {
			reg.Answers[i].ID = uuid.NewString()
		}
		reg.Answers[i].RegistrationID = reg.ID
	}
	if err := r.db.WithContext(ctx).Create(reg).Error; err != nil {
		return fmt.Errorf("failed to create registration: %w", err)
	}
	return nil
}

func (r *registrationRepo) SaveScore(ctx context.Context, id string, score int, reasoning string, passesRequired bool) error {
	err := r.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"ai_match_score":     score,
			"ai_match_reasoning": reasoning,
			"passes_required":    passesRequired,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to save score for registration %s: %w", id, err)
	}
	return nil
}

func (r *registrationRepo) ClearJourneyScores(ctx context.Context, journeyID string) error {
	err := r.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("journey_id = ? AND status = ?", journeyID, models.StatusPendingApproval).
		Updates(map[string]interface{}{
			"ai_match_score":  nil,
			"passes_required": nil,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to clear scores for journey %s: %w", journeyID, err)
	}
	return nil
}

func (r *registrationRepo) ApplyTransition(ctx context.Context, id string, t Transition) (bool, error) {
	updates := map[string]interface{}{
		"status":        t.To,
		"auto_approved": t.AutoApproved,
		"decided_at":    t.At,
	}
	if t.Notes != nil {
		updates["notes"] = *t.Notes
	}
	res := r.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("id = ? AND status = ?", id, t.From).
		Updates(updates)
	if res.Error != nil {
		return false, fmt.Errorf("failed to update registration %s: %w", id, res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *registrationRepo) ReplaceAnswers(ctx context.Context, id string, answers []models.RegistrationAnswer) (bool, error) {
	updated := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Registration{}).
			Where("id = ? AND status = ?", id, models.StatusPendingApproval).
			Updates(map[string]interface{}{
				"ai_match_score":  nil,
				"passes_required": nil,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		keep := make([]string, 0, len(answers))
		for i := range answers {
			answers[i].ID = uuid.NewString()
			answers[i].RegistrationID = id
			keep = append(keep, answers[i].RequirementID)
		}
		drop := tx.Where("registration_id = ?", id)
		if len(keep) > 0 {
			drop = drop.Where("requirement_id NOT IN ?", keep)
		}
		if err := drop.Delete(&models.RegistrationAnswer{}).Error; err != nil {
			return err
		}
		if len(answers) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "registration_id"}, {Name: "requirement_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"answer_text", "answer_json", "updated_at"}),
			}).Create(&answers).Error; err != nil {
				return err
			}
		}
		updated = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to update answers for registration %s: %w", id, err)
	}
	return updated, nil
}
