package registrationRepo

import (
	"context"
	"testing"
	"time"

	"sailsmart/database/repository/testutil"
	"sailsmart/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func seedRegistration(t *testing.T, repo RegistrationRepository) *models.Registration {
	t.Helper()
	reg := &models.Registration{
		JourneyID:  "journey-1",
		LegID:      "leg-1",
		CrewUserID: "crew-1",
		Status:     models.StatusPendingApproval,
		Answers: []models.RegistrationAnswer{
			{RequirementID: "req-1", AnswerText: strPtr("I have crossed the Atlantic twice")},
		},
	}
	require.NoError(t, repo.Create(context.Background(), reg))
	return reg
}

func TestCreateStoresAnswers(t *testing.T) {
	repo := NewRegistrationRepo(testutil.DB(t))
	reg := seedRegistration(t, repo)

	got, err := repo.Get(context.Background(), reg.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Answers, 1)
	assert.Equal(t, "req-1", got.Answers[0].RequirementID)
}

func TestFindActiveIgnoresCancelled(t *testing.T) {
	repo := NewRegistrationRepo(testutil.DB(t))
	ctx := context.Background()
	reg := seedRegistration(t, repo)

	active, err := repo.FindActive(ctx, "leg-1", "crew-1")
	require.NoError(t, err)
	require.NotNil(t, active)

	ok, err := repo.ApplyTransition(ctx, reg.ID, Transition{From: models.StatusPendingApproval, To: models.StatusCancelled, At: time.Now()})
	require.NoError(t, err)
	require.True(t, ok)

	active, err = repo.FindActive(ctx, "leg-1", "crew-1")
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestApplyTransitionIsConditional(t *testing.T) {
	repo := NewRegistrationRepo(testutil.DB(t))
	ctx := context.Background()
	reg := seedRegistration(t, repo)

	ok, err := repo.ApplyTransition(ctx, reg.ID, Transition{From: models.StatusPendingApproval, To: models.StatusApproved, AutoApproved: true, At: time.Now()})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ApplyTransition(ctx, reg.ID, Transition{From: models.StatusPendingApproval, To: models.StatusNotApproved, At: time.Now()})
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.Get(ctx, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)
	assert.True(t, got.AutoApproved)
	assert.NotNil(t, got.DecidedAt)
}

func TestReplaceAnswersClearsScore(t *testing.T) {
	repo := NewRegistrationRepo(testutil.DB(t))
	ctx := context.Background()
	reg := seedRegistration(t, repo)
	require.NoError(t, repo.SaveScore(ctx, reg.ID, 75, "good fit", true))

	ok, err := repo.ReplaceAnswers(ctx, reg.ID, []models.RegistrationAnswer{
		{RequirementID: "req-1", AnswerText: strPtr("Three crossings now")},
		{RequirementID: "req-2", AnswerText: strPtr("Yes")},
	})
	require.NoError(t, err)
	require.True(t, ok)

	got, err := repo.Get(ctx, reg.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AIMatchScore)
	require.Len(t, got.Answers, 2)
	for _, a := range got.Answers {
		if a.RequirementID == "req-1" {
			assert.Equal(t, "Three crossings now", *a.AnswerText)
		}
	}
}

func TestReplaceAnswersDropsOmittedRequirements(t *testing.T) {
	repo := NewRegistrationRepo(testutil.DB(t))
	ctx := context.Background()
	reg := seedRegistration(t, repo)

	ok, err := repo.ReplaceAnswers(ctx, reg.ID, []models.RegistrationAnswer{{RequirementID: "req-2", AnswerText: strPtr("Yes")}})
	require.NoError(t, err)
	require.True(t, ok)

	got, err := repo.Get(ctx, reg.ID)
	require.NoError(t, err)
	require.Len(t, got.Answers, 1)
	assert.Equal(t, "req-2", got.Answers[0].RequirementID)

	ok, err = repo.ReplaceAnswers(ctx, reg.ID, nil)
	require.NoError(t, err)
	require.True(t, ok)
	got, err = repo.Get(ctx, reg.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Answers)
}

func TestReplaceAnswersRejectsDecidedRegistration(t *testing.T) {
	repo := NewRegistrationRepo(testutil.DB(t))
	ctx := context.Background()
	reg := seedRegistration(t, repo)
	_, err := repo.ApplyTransition(ctx, reg.ID, Transition{From: models.StatusPendingApproval, To: models.StatusApproved, At: time.Now()})
	require.NoError(t, err)

	ok, err := repo.ReplaceAnswers(ctx, reg.ID, []models.RegistrationAnswer{{RequirementID: "req-1", AnswerText: strPtr("late edit")}})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClearJourneyScoresOnlyTouchesPending(t *testing.T) {
	repo := NewRegistrationRepo(testutil.DB(t))
	ctx := context.Background()
	pending := seedRegistration(t, repo)
	decided := &models.Registration{JourneyID: "journey-1", LegID: "leg-1", CrewUserID: "crew-2", Status: models.StatusApproved}
	require.NoError(t, repo.Create(ctx, decided))
	require.NoError(t, repo.SaveScore(ctx, pending.ID, 60, "", true))
	require.NoError(t, repo.SaveScore(ctx, decided.ID, 90, "", true))

	require.NoError(t, repo.ClearJourneyScores(ctx, "journey-1"))

	got, err := repo.Get(ctx, pending.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AIMatchScore)
	got, err = repo.Get(ctx, decided.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AIMatchScore)
	assert.Equal(t, 90, *got.AIMatchScore)

	list, err := repo.ListByJourney(ctx, "journey-1")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
