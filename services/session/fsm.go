package session

import (
	"fmt"

	"sailsmart/models"
	"sailsmart/utils"
)

// TransitionMode controls how state writes that skip the event table are treated.
type TransitionMode string

const (
	// ModeStrict only accepts writes that follow an edge in the table.
	ModeStrict TransitionMode = "strict"
	// ModePermissive accepts any known state for the session kind. It keeps the older
	// behaviour where clients were trusted to send a legal next state.
	ModePermissive TransitionMode = "permissive"
)

func ParseTransitionMode(raw string) TransitionMode {
	if TransitionMode(raw) == ModePermissive {
		return ModePermissive
	}
	return ModeStrict
}

type edge struct {
	from  models.OnboardingState
	event models.OnboardingEvent
}

// transitions maps (state, event) to the next state for each kind. identity_linked is
// handled separately since it applies from every state.
var transitions = map[models.SessionKind]map[edge]models.OnboardingState{
	models.SessionKindOwner: {
		{models.StateSignupPending, models.EventSignupCompleted}:   models.StateConsentPending,
		{models.StateSignupPending, models.EventConsentGiven}:      models.StateProfilePending,
		{models.StateConsentPending, models.EventConsentGiven}:     models.StateProfilePending,
		{models.StateProfilePending, models.EventProfileCompleted}: models.StateBoatPending,
		{models.StateProfilePending, models.EventBoatSkipped}:      models.StateJourneyPending,
		{models.StateBoatPending, models.EventBoatCreated}:         models.StateJourneyPending,
		{models.StateBoatPending, models.EventBoatSkipped}:         models.StateJourneyPending,
		{models.StateJourneyPending, models.EventJourneyCreated}:   models.StateComplete,
		{models.StateJourneyPending, models.EventJourneySkipped}:   models.StateComplete,
	},
	models.SessionKindProspect: {
		{models.StateSignupPending, models.EventSignupCompleted}:   models.StateConsentPending,
		{models.StateSignupPending, models.EventConsentGiven}:      models.StateProfilePending,
		{models.StateConsentPending, models.EventConsentGiven}:     models.StateProfilePending,
		{models.StateProfilePending, models.EventProfileCompleted}: models.StateComplete,
	},
}

// eventOrder fixes which event ResolveTarget picks when two edges lead to the same state.
var eventOrder = []models.OnboardingEvent{
	models.EventSignupCompleted,
	models.EventConsentGiven,
	models.EventProfileCompleted,
	models.EventBoatCreated,
	models.EventBoatSkipped,
	models.EventJourneyCreated,
	models.EventJourneySkipped,
}

var statesByKind = map[models.SessionKind][]models.OnboardingState{
	models.SessionKindOwner: {
		models.StateSignupPending, models.StateConsentPending, models.StateProfilePending,
		models.StateBoatPending, models.StateJourneyPending, models.StateComplete,
	},
	models.SessionKindProspect: {
		models.StateSignupPending, models.StateConsentPending, models.StateProfilePending,
		models.StateComplete,
	},
}

// KnownState reports whether state is part of the flow for kind.
func KnownState(kind models.SessionKind, state models.OnboardingState) bool {
	for _, s := range statesByKind[kind] {
		if s == state {
			return true
		}
	}
	return false
}

// Fire applies event to a session of the given kind sitting in state from.
func Fire(kind models.SessionKind, from models.OnboardingState, event models.OnboardingEvent) (models.OnboardingState, error) {
	if !KnownState(kind, from) {
		return "", utils.Validation(fmt.Sprintf("unknown onboarding state %q for %s sessions", from, kind))
	}
	if event == models.EventIdentityLinked {
		return models.StateConsentPending, nil
	}
	next, ok := transitions[kind][edge{from, event}]
	if !ok {
		return "", utils.Validation(fmt.Sprintf("event %q is not allowed from %q", event, from))
	}
	return next, nil
}

// ResolveTarget finds the client event that moves a session from one state to another.
// An empty event with a nil error means from and to are equal. identity_linked is never
// returned; only linking may reset a session.
func ResolveTarget(kind models.SessionKind, from, to models.OnboardingState) (models.OnboardingEvent, error) {
	if !KnownState(kind, to) {
		return "", utils.Validation(fmt.Sprintf("unknown onboarding state %q for %s sessions", to, kind))
	}
	if from == to {
		return "", nil
	}
	for _, event := range eventOrder {
		if next, ok := transitions[kind][edge{from, event}]; ok && next == to {
			return event, nil
		}
	}
	return "", utils.Validation(fmt.Sprintf("cannot move %s session from %q to %q", kind, from, to))
}

// checkTarget validates a requested state write under mode.
func checkTarget(mode TransitionMode, kind models.SessionKind, from, to models.OnboardingState) error {
	if mode == ModePermissive {
		if !KnownState(kind, to) {
			return utils.Validation(fmt.Sprintf("unknown onboarding state %q for %s sessions", to, kind))
		}
		return nil
	}
	_, err := ResolveTarget(kind, from, to)
	return err
}
