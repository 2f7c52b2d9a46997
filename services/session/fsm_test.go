package session

import (
	"testing"

	"sailsmart/models"
	"sailsmart/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFireOwnerHappyPath(t *testing.T) {
	kind := models.SessionKindOwner
	steps := []struct {
		event models.OnboardingEvent
		want  models.OnboardingState
	}{
		{models.EventSignupCompleted, models.StateConsentPending},
		{models.EventConsentGiven, models.StateProfilePending},
		{models.EventProfileCompleted, models.StateBoatPending},
		{models.EventBoatCreated, models.StateJourneyPending},
		{models.EventJourneyCreated, models.StateComplete},
	}
	state := models.StateSignupPending
	for _, step := range steps {
		next, err := Fire(kind, state, step.event)
		require.NoError(t, err, step.event)
		assert.Equal(t, step.want, next, step.event)
		state = next
	}
}

func TestFireProspectCompletesAfterProfile(t *testing.T) {
	next, err := Fire(models.SessionKindProspect, models.StateProfilePending, models.EventProfileCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.StateComplete, next)
}

func TestFireRejectsUndefinedEdges(t *testing.T) {
	cases := []struct {
		kind  models.SessionKind
		from  models.OnboardingState
		event models.OnboardingEvent
	}{
		{models.SessionKindOwner, models.StateComplete, models.EventConsentGiven},
		{models.SessionKindOwner, models.StateSignupPending, models.EventJourneyCreated},
		{models.SessionKindProspect, models.StateProfilePending, models.EventBoatSkipped},
		{models.SessionKindProspect, models.StateBoatPending, models.EventBoatCreated},
	}
	for _, tc := range cases {
		_, err := Fire(tc.kind, tc.from, tc.event)
		assert.Equal(t, utils.KindValidation, utils.KindOf(err), "%s %s %s", tc.kind, tc.from, tc.event)
	}
}

func TestIdentityLinkedResetsFromAnyState(t *testing.T) {
	for _, st := range statesByKind[models.SessionKindOwner] {
		next, err := Fire(models.SessionKindOwner, st, models.EventIdentityLinked)
		require.NoError(t, err)
		assert.Equal(t, models.StateConsentPending, next)
	}
}

func TestResolveTarget(t *testing.T) {
	event, err := ResolveTarget(models.SessionKindOwner, models.StateProfilePending, models.StateJourneyPending)
	require.NoError(t, err)
	assert.Equal(t, models.EventBoatSkipped, event)

	event, err = ResolveTarget(models.SessionKindOwner, models.StateBoatPending, models.StateJourneyPending)
	require.NoError(t, err)
	assert.Equal(t, models.EventBoatCreated, event)

	event, err = ResolveTarget(models.SessionKindOwner, models.StateComplete, models.StateComplete)
	require.NoError(t, err)
	assert.Empty(t, event)

	_, err = ResolveTarget(models.SessionKindOwner, models.StateComplete, models.StateConsentPending)
	assert.Error(t, err)

	_, err = ResolveTarget(models.SessionKindProspect, models.StateProfilePending, models.StateBoatPending)
	assert.Error(t, err)
}

func TestCheckTargetModes(t *testing.T) {
	kind := models.SessionKindOwner
	assert.Error(t, checkTarget(ModeStrict, kind, models.StateSignupPending, models.StateComplete))
	assert.NoError(t, checkTarget(ModePermissive, kind, models.StateSignupPending, models.StateComplete))
	assert.Error(t, checkTarget(ModePermissive, kind, models.StateSignupPending, "sailing"))
	assert.Error(t, checkTarget(ModePermissive, models.SessionKindProspect, models.StateProfilePending, models.StateBoatPending))
}

func TestParseTransitionMode(t *testing.T) {
	assert.Equal(t, ModePermissive, ParseTransitionMode("permissive"))
	assert.Equal(t, ModeStrict, ParseTransitionMode(""))
	assert.Equal(t, ModeStrict, ParseTransitionMode("anything"))
}
