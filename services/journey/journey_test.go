package journey

import (
	"context"
	"testing"

	journeyRepo "sailsmart/database/repository/journey"
	registrationRepo "sailsmart/database/repository/registration"
	"sailsmart/database/repository/testutil"
	"sailsmart/models"
	"sailsmart/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var owner = &models.User{ID: "owner-1", FullName: "Captain Sam", Roles: []models.UserRole{models.RoleOwner}}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func newService(t *testing.T) (*DefaultJourneyService, registrationRepo.RegistrationRepository) {
	t.Helper()
	db := testutil.DB(t)
	regs := registrationRepo.NewRegistrationRepo(db)
	return NewJourneyService(journeyRepo.NewJourneyRepo(db), regs), regs
}

func createJourney(t *testing.T, svc *DefaultJourneyService) *models.Journey {
	t.Helper()
	j, err := svc.CreateJourney(context.Background(), owner, models.CreateJourneyInput{
		Name: "Solent shakedown",
		Legs: []models.CreateLegInput{{Name: "Cowes loop", RiskLevel: models.RiskCoastal}},
	})
	require.NoError(t, err)
	return j
}

func TestCreateJourneyDefaults(t *testing.T) {
	svc, _ := newService(t)
	j := createJourney(t, svc)

	got, err := svc.GetJourney(context.Background(), j.ID)
	require.NoError(t, err)
	assert.Equal(t, "Captain Sam", got.OwnerName)
	assert.Equal(t, DefaultAutoApprovalThreshold, got.AutoApprovalThreshold)
	assert.False(t, got.AutoApprovalEnabled)
	require.Len(t, got.Legs, 1)
	assert.Equal(t, models.MinExperienceLevel, got.Legs[0].MinExperienceLevel)
}

func TestCreateJourneyValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	crew := &models.User{ID: "crew-1", Roles: []models.UserRole{models.RoleCrew}}
	_, err := svc.CreateJourney(ctx, crew, models.CreateJourneyInput{Name: "x", Legs: []models.CreateLegInput{{Name: "a", RiskLevel: models.RiskCoastal}}})
	assert.Equal(t, utils.KindForbidden, utils.KindOf(err))

	_, err = svc.CreateJourney(ctx, owner, models.CreateJourneyInput{Name: "x", Legs: []models.CreateLegInput{{Name: "a", RiskLevel: "Lake"}}})
	assert.Equal(t, utils.KindValidation, utils.KindOf(err))

	_, err = svc.CreateJourney(ctx, owner, models.CreateJourneyInput{Name: "x", Legs: []models.CreateLegInput{{Name: "a", RiskLevel: models.RiskExtreme, MinExperienceLevel: 5}}})
	assert.Equal(t, utils.KindValidation, utils.KindOf(err))

	_, err = svc.GetJourney(ctx, "missing")
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))
}

func TestEnablingAutoApprovalNeedsRequirements(t *testing.T) {
	svc, _ := newService(t)
	j := createJourney(t, svc)
	ctx := context.Background()

	_, err := svc.ConfigureAutoApproval(ctx, owner.ID, j.ID, models.AutoApprovalInput{Enabled: true, Threshold: 70})
	assert.Equal(t, utils.KindValidation, utils.KindOf(err))

	_, err = svc.CreateRequirement(ctx, owner.ID, j.ID, models.RequirementInput{RequirementType: models.RequirementExperienceLevel})
	require.NoError(t, err)

	got, err := svc.ConfigureAutoApproval(ctx, owner.ID, j.ID, models.AutoApprovalInput{Enabled: true, Threshold: 70, AutoDenyBelow: intPtr(20)})
	require.NoError(t, err)
	assert.True(t, got.AutoApprovalEnabled)
	assert.Equal(t, 70, got.AutoApprovalThreshold)
	require.NotNil(t, got.AutoDenyBelow)
	assert.Equal(t, 20, *got.AutoDenyBelow)
}

func TestAutoApprovalRanges(t *testing.T) {
	svc, _ := newService(t)
	j := createJourney(t, svc)
	ctx := context.Background()

	cases := []models.AutoApprovalInput{
		{Threshold: -1},
		{Threshold: 101},
		{Threshold: 50, AutoDenyBelow: intPtr(50)},
		{Threshold: 50, AutoDenyBelow: intPtr(-5)},
	}
	for _, in := range cases {
		_, err := svc.ConfigureAutoApproval(ctx, owner.ID, j.ID, in)
		assert.Equal(t, utils.KindValidation, utils.KindOf(err), "%+v", in)
	}

	_, err := svc.ConfigureAutoApproval(ctx, "someone-else", j.ID, models.AutoApprovalInput{Threshold: 50})
	assert.Equal(t, utils.KindForbidden, utils.KindOf(err))
}

func TestRequirementValidation(t *testing.T) {
	svc, _ := newService(t)
	j := createJourney(t, svc)
	ctx := context.Background()

	bad := []models.RequirementInput{
		{RequirementType: "hair_colour"},
		{RequirementType: models.RequirementQuestion},
		{RequirementType: models.RequirementSkill, SkillName: strPtr("  ")},
		{RequirementType: models.RequirementSkill, SkillName: strPtr("Knots"), Weight: intPtr(11)},
		{RequirementType: models.RequirementSkill, SkillName: strPtr("Knots"), RequirePhotoValidation: true},
		{RequirementType: models.RequirementPassport, PassConfidenceScore: intPtr(12)},
	}
	for _, in := range bad {
		_, err := svc.CreateRequirement(ctx, owner.ID, j.ID, in)
		assert.Equal(t, utils.KindValidation, utils.KindOf(err), "%+v", in)
	}

	req, err := svc.CreateRequirement(ctx, owner.ID, j.ID, models.RequirementInput{RequirementType: models.RequirementSkill, SkillName: strPtr(" Knots ")})
	require.NoError(t, err)
	assert.Equal(t, DefaultRequirementWeight, req.Weight)
	assert.Equal(t, "Knots", *req.SkillName)

	zero, err := svc.CreateRequirement(ctx, owner.ID, j.ID, models.RequirementInput{RequirementType: models.RequirementSkill, SkillName: strPtr("Cooking"), Weight: intPtr(0)})
	require.NoError(t, err)
	reqs, err := svc.ListRequirements(ctx, j.ID)
	require.NoError(t, err)
	for _, r := range reqs {
		if r.ID == zero.ID {
			assert.Equal(t, 0, r.Weight)
		}
	}
}

func TestUpdateRequirementClearsPendingScores(t *testing.T) {
	svc, regs := newService(t)
	j := createJourney(t, svc)
	ctx := context.Background()

	req, err := svc.CreateRequirement(ctx, owner.ID, j.ID, models.RequirementInput{RequirementType: models.RequirementQuestion, QuestionText: strPtr("Why this trip?")})
	require.NoError(t, err)

	reg := &models.Registration{JourneyID: j.ID, LegID: j.Legs[0].ID, CrewUserID: "crew-1", Status: models.StatusPendingApproval}
	require.NoError(t, regs.Create(ctx, reg))
	require.NoError(t, regs.SaveScore(ctx, reg.ID, 60, "ok", true))

	updated, err := svc.UpdateRequirement(ctx, owner.ID, j.ID, req.ID, models.RequirementInput{
		RequirementType: models.RequirementQuestion,
		QuestionText:    strPtr("Why this trip?"),
		Weight:          intPtr(8),
	})
	require.NoError(t, err)
	assert.Equal(t, 8, updated.Weight)

	got, err := regs.Get(ctx, reg.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AIMatchScore)

	_, err = svc.UpdateRequirement(ctx, owner.ID, j.ID, "missing", models.RequirementInput{RequirementType: models.RequirementPassport})
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))
}

func TestDeleteLastRequirementWhileAutoApproving(t *testing.T) {
	svc, _ := newService(t)
	j := createJourney(t, svc)
	ctx := context.Background()

	req, err := svc.CreateRequirement(ctx, owner.ID, j.ID, models.RequirementInput{RequirementType: models.RequirementRiskLevel})
	require.NoError(t, err)
	_, err = svc.ConfigureAutoApproval(ctx, owner.ID, j.ID, models.AutoApprovalInput{Enabled: true, Threshold: 80})
	require.NoError(t, err)

	err = svc.DeleteRequirement(ctx, owner.ID, j.ID, req.ID)
	assert.Equal(t, utils.KindValidation, utils.KindOf(err))

	_, err = svc.ConfigureAutoApproval(ctx, owner.ID, j.ID, models.AutoApprovalInput{Enabled: false, Threshold: 80})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteRequirement(ctx, owner.ID, j.ID, req.ID))

	err = svc.DeleteRequirement(ctx, owner.ID, j.ID, req.ID)
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))
}
