package journeyRepo

import (
	"context"
	"testing"

	"sailsmart/database/repository/testutil"
	"sailsmart/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedJourney(t *testing.T, repo JourneyRepository) *models.Journey {
	t.Helper()
	j := &models.Journey{
		OwnerID:               "owner-1",
		OwnerName:             "Skipper Sam",
		Name:                  "Biscay crossing",
		AutoApprovalThreshold: 80,
		Legs: []models.Leg{
			{Name: "Brest to A Coruna", MinExperienceLevel: 2, RiskLevel: models.RiskOffshore},
		},
	}
	require.NoError(t, repo.CreateJourney(context.Background(), j))
	return j
}

func strPtr(s string) *string { return &s }

func TestCreateAndFetchJourneyWithLegs(t *testing.T) {
	repo := NewJourneyRepo(testutil.DB(t))
	j := seedJourney(t, repo)

	got, err := repo.GetJourney(context.Background(), j.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Legs, 1)
	assert.Equal(t, j.ID, got.Legs[0].JourneyID)

	leg, err := repo.GetLeg(context.Background(), got.Legs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.RiskOffshore, leg.RiskLevel)

	missing, err := repo.GetJourney(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestEnableAutoApprovalRequiresRequirements(t *testing.T) {
	repo := NewJourneyRepo(testutil.DB(t))
	ctx := context.Background()
	j := seedJourney(t, repo)

	err := repo.UpdateAutoApproval(ctx, j.ID, models.AutoApprovalInput{Enabled: true, Threshold: 70})
	assert.ErrorIs(t, err, ErrNoRequirements)

	require.NoError(t, repo.CreateRequirement(ctx, &models.JourneyRequirement{
		JourneyID:       j.ID,
		RequirementType: models.RequirementSkill,
		SkillName:       strPtr("Navigation"),
		Weight:          5,
	}))
	require.NoError(t, repo.UpdateAutoApproval(ctx, j.ID, models.AutoApprovalInput{Enabled: true, Threshold: 70}))

	got, err := repo.GetJourney(ctx, j.ID)
	require.NoError(t, err)
	assert.True(t, got.AutoApprovalEnabled)
	assert.Equal(t, 70, got.AutoApprovalThreshold)
}

func TestZeroWeightIsStored(t *testing.T) {
	repo := NewJourneyRepo(testutil.DB(t))
	ctx := context.Background()
	j := seedJourney(t, repo)

	req := &models.JourneyRequirement{JourneyID: j.ID, RequirementType: models.RequirementQuestion, QuestionText: strPtr("Why?"), Weight: 0}
	require.NoError(t, repo.CreateRequirement(ctx, req))

	got, err := repo.GetRequirement(ctx, j.ID, req.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Weight)
}

func TestDeleteRequirementRemovesAnswers(t *testing.T) {
	db := testutil.DB(t)
	repo := NewJourneyRepo(db)
	ctx := context.Background()
	j := seedJourney(t, repo)

	keep := &models.JourneyRequirement{JourneyID: j.ID, RequirementType: models.RequirementExperienceLevel, Order: 1}
	drop := &models.JourneyRequirement{JourneyID: j.ID, RequirementType: models.RequirementQuestion, QuestionText: strPtr("Night watches?"), Weight: 3}
	require.NoError(t, repo.CreateRequirement(ctx, keep))
	require.NoError(t, repo.CreateRequirement(ctx, drop))

	reg := &models.Registration{ID: uuid.NewString(), JourneyID: j.ID, LegID: j.Legs[0].ID, CrewUserID: "crew-1", Status: models.StatusPendingApproval}
	require.NoError(t, db.Create(reg).Error)
	require.NoError(t, db.Create(&models.RegistrationAnswer{ID: uuid.NewString(), RegistrationID: reg.ID, RequirementID: drop.ID, AnswerText: strPtr("yes")}).Error)

	require.NoError(t, repo.UpdateAutoApproval(ctx, j.ID, models.AutoApprovalInput{Enabled: true, Threshold: 80}))
	require.NoError(t, repo.DeleteRequirement(ctx, j.ID, drop.ID))

	var answers int64
	require.NoError(t, db.Model(&models.RegistrationAnswer{}).Where("requirement_id = ?", drop.ID).Count(&answers).Error)
	assert.Zero(t, answers)

	err := repo.DeleteRequirement(ctx, j.ID, keep.ID)
	assert.ErrorIs(t, err, ErrLastRequirement)

	require.NoError(t, repo.UpdateAutoApproval(ctx, j.ID, models.AutoApprovalInput{Enabled: false, Threshold: 80}))
	require.NoError(t, repo.DeleteRequirement(ctx, j.ID, keep.ID))
	count, err := repo.CountRequirements(ctx, j.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDeleteRequirementReadsFlagFromStore(t *testing.T) {
	db := testutil.DB(t)
	repo := NewJourneyRepo(db)
	ctx := context.Background()
	j := seedJourney(t, repo)

	only := &models.JourneyRequirement{JourneyID: j.ID, RequirementType: models.RequirementExperienceLevel}
	require.NoError(t, repo.CreateRequirement(ctx, only))

	// The owner's view of the journey still says disabled; the store has moved on.
	require.NoError(t, repo.UpdateAutoApproval(ctx, j.ID, models.AutoApprovalInput{Enabled: true, Threshold: 60}))
	require.False(t, j.AutoApprovalEnabled)

	err := repo.DeleteRequirement(ctx, j.ID, only.ID)
	assert.ErrorIs(t, err, ErrLastRequirement)
	count, err := repo.CountRequirements(ctx, j.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestDeleteRequirementOfUnknownJourney(t *testing.T) {
	repo := NewJourneyRepo(testutil.DB(t))
	err := repo.DeleteRequirement(context.Background(), uuid.NewString(), uuid.NewString())
	assert.True(t, IsNotFound(err))
}

func TestDeleteUnknownRequirement(t *testing.T) {
	repo := NewJourneyRepo(testutil.DB(t))
	j := seedJourney(t, repo)

	err := repo.DeleteRequirement(context.Background(), j.ID, uuid.NewString())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.True(t, IsNotFound(err))
}

func TestRequirementsAreOrdered(t *testing.T) {
	repo := NewJourneyRepo(testutil.DB(t))
	ctx := context.Background()
	j := seedJourney(t, repo)

	require.NoError(t, repo.CreateRequirement(ctx, &models.JourneyRequirement{JourneyID: j.ID, RequirementType: models.RequirementPassport, Order: 2}))
	require.NoError(t, repo.CreateRequirement(ctx, &models.JourneyRequirement{JourneyID: j.ID, RequirementType: models.RequirementRiskLevel, Order: 1}))

	reqs, err := repo.ListRequirements(ctx, j.ID)
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, models.RequirementRiskLevel, reqs[0].RequirementType)
}
