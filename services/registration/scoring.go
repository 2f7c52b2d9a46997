package registration

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"sailsmart/models"
	"sailsmart/services/matching"
	"sailsmart/utils"
)

// evaluation bundles the loaded inputs of one registration's match.
type evaluation struct {
	journey *models.Journey
	input   matching.Input
}

func (s *DefaultRegistrationService) loadEvaluation(ctx context.Context, reg *models.Registration, journey *models.Journey) (*evaluation, error) {
	leg, err := s.Journeys.GetLeg(ctx, reg.LegID)
	if err != nil {
		return nil, err
	}
	if leg == nil {
		return nil, utils.NotFound("leg not found")
	}
	reqs, err := s.Journeys.ListRequirements(ctx, journey.ID)
	if err != nil {
		return nil, err
	}
	crew, err := s.Profiles.GetProfile(ctx, reg.CrewUserID)
	if err != nil {
		return nil, err
	}
	if crew == nil {
		return nil, utils.NotFound("crew profile not found")
	}
	docs, err := s.Documents.ListByOwnerAndType(ctx, reg.CrewUserID, models.DocumentPassport)
	if err != nil {
		return nil, err
	}

	return &evaluation{
		journey: journey,
		input: matching.Input{
			Requirements: reqs,
			Leg:          *leg,
			Profile:      matching.ProfileFromUser(crew),
			Answers:      answersByRequirement(reg.Answers),
			Documents:    docs,
		},
	}, nil
}

// score evaluates a registration, serving repeated requests for unchanged inputs from the
// cache, and stores the result on the registration.
func (s *DefaultRegistrationService) score(ctx context.Context, reg *models.Registration, ev *evaluation) (*models.ScoreResponse, error) {
	key := reg.ID + ":" + fingerprint(ev.input)
	if s.Cache != nil {
		if cached, ok := s.Cache.Get(ctx, key); ok {
			// Answer edits clear the stored score, so a reverted edit can hit the cache
			// while the row is still unscored.
			if !storedMatches(reg, cached) {
				if err := s.Registrations.SaveScore(ctx, reg.ID, cached.Score, cached.Reasoning, cached.PassesRequired); err != nil {
					return nil, err
				}
			}
			return cached, nil
		}
	}

	res, err := s.Evaluator.Evaluate(ctx, ev.input)
	if err != nil {
		return nil, err
	}
	if err := s.Registrations.SaveScore(ctx, reg.ID, res.Score, res.Reasoning, res.PassesRequired); err != nil {
		return nil, err
	}

	out := models.ScoreResponse{
		Score:          res.Score,
		Reasoning:      res.Reasoning,
		PassesRequired: res.PassesRequired,
		BlockingItems:  res.BlockingItems,
	}
	if s.Cache != nil {
		s.Cache.Put(ctx, key, out)
	}
	return &out, nil
}

func storedMatches(reg *models.Registration, res *models.ScoreResponse) bool {
	return reg.AIMatchScore != nil && *reg.AIMatchScore == res.Score &&
		reg.PassesRequired != nil && *reg.PassesRequired == res.PassesRequired &&
		reg.AIMatchReasoning == res.Reasoning
}

// fingerprint hashes everything an evaluation depends on, so any edit to requirements,
// answers, profile or documents yields a new cache key.
func fingerprint(in matching.Input) string {
	type reqPrint struct {
		ID, Type, Question, Skill, Criteria string
		Photo                               bool
		PassScore                           *int
		Weight                              int
		Required                            bool
	}
	type docPrint struct {
		ID, Status  string
		PhotoPassed bool
		Confidence  *float64
	}

	reqs := make([]reqPrint, 0, len(in.Requirements))
	for _, r := range in.Requirements {
		reqs = append(reqs, reqPrint{
			ID:        r.ID,
			Type:      string(r.RequirementType),
			Question:  deref(r.QuestionText),
			Skill:     deref(r.SkillName),
			Criteria:  deref(r.QualificationCriteria),
			Photo:     r.RequirePhotoValidation,
			PassScore: r.PassConfidenceScore,
			Weight:    r.Weight,
			Required:  r.IsRequired,
		})
	}
	answers := make(map[string]string, len(in.Answers))
	for id, a := range in.Answers {
		answers[id] = deref(a.AnswerText) + "\x00" + string(a.AnswerJSON)
	}
	docs := make([]docPrint, 0, len(in.Documents))
	for _, d := range in.Documents {
		docs = append(docs, docPrint{ID: d.ID, Status: string(d.VerificationStatus), PhotoPassed: d.PhotoVerificationPassed, Confidence: d.PhotoConfidenceScore})
	}

	// json.Marshal sorts map keys, so the encoding is stable.
	raw, _ := json.Marshal(struct {
		Reqs    []reqPrint
		MinExp  int
		Risk    string
		Profile matching.Profile
		Answers map[string]string
		Docs    []docPrint
	}{reqs, in.Leg.MinExperienceLevel, string(in.Leg.RiskLevel), in.Profile, answers, docs})
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
