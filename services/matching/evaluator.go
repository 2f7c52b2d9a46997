package matching

import (
	"context"
	"fmt"
	"math"
	"strings"

	"sailsmart/models"
)

// MaxScoreWithFailedRequirement keeps a failing required item from ever reading as a full match.
const MaxScoreWithFailedRequirement = 99

// Evaluator scores a crew member against a journey's requirements.
type Evaluator struct {
	Scorer QuestionScorer
}

func NewEvaluator(scorer QuestionScorer) *Evaluator {
	return &Evaluator{Scorer: scorer}
}

// Evaluate checks every requirement in order. Scorer errors abort the evaluation and
// are returned unchanged so their category reaches the caller.
func (e *Evaluator) Evaluate(ctx context.Context, in Input) (Result, error) {
	outcomes := make([]Outcome, 0, len(in.Requirements))
	for _, req := range in.Requirements {
		out, err := e.evaluateOne(ctx, req, in)
		if err != nil {
			return Result{}, err
		}
		outcomes = append(outcomes, out)
	}
	return aggregate(outcomes), nil
}

func (e *Evaluator) evaluateOne(ctx context.Context, req models.JourneyRequirement, in Input) (Outcome, error) {
	out := Outcome{
		RequirementID: req.ID,
		Type:          req.RequirementType,
		Label:         label(req),
		Required:      req.IsRequired,
		Weight:        req.Weight,
		Evaluated:     true,
	}

	switch req.RequirementType {
	case models.RequirementExperienceLevel:
		out.Passed = in.Profile.ExperienceLevel >= in.Leg.MinExperienceLevel
		out.Reason = fmt.Sprintf("experience level %d, leg needs %d", in.Profile.ExperienceLevel, in.Leg.MinExperienceLevel)

	case models.RequirementRiskLevel:
		out.Passed = containsRisk(in.Profile.RiskLevels, in.Leg.RiskLevel)
		if out.Passed {
			out.Reason = fmt.Sprintf("accepts %s sailing", in.Leg.RiskLevel)
		} else {
			out.Reason = fmt.Sprintf("does not accept %s sailing", in.Leg.RiskLevel)
		}

	case models.RequirementSkill:
		name := deref(req.SkillName)
		out.Passed = hasSkill(in.Profile.Skills, name)
		if out.Passed {
			out.Reason = "has " + name
		} else {
			out.Reason = "missing " + name
		}

	case models.RequirementPassport:
		out.Passed, out.Reason = passportOutcome(req, in.Documents)

	case models.RequirementQuestion:
		return e.questionOutcome(ctx, req, in, out)

	default:
		out.Evaluated = false
		out.Reason = "unknown requirement type"
	}
	return out, nil
}

func (e *Evaluator) questionOutcome(ctx context.Context, req models.JourneyRequirement, in Input, out Outcome) (Outcome, error) {
	answer := answerText(in.Answers[req.ID])
	if answer == "" {
		out.Reason = "no answer given"
		return out, nil
	}
	if !in.Profile.AIConsent || e.Scorer == nil {
		out.Evaluated = false
		out.Reason = "answer not assessed: AI processing consent not given"
		return out, nil
	}

	score, err := e.Scorer.ScoreAnswer(ctx, models.QuestionPrompt{
		RequirementID:         req.ID,
		QuestionText:          deref(req.QuestionText),
		QualificationCriteria: deref(req.QualificationCriteria),
		Answer:                answer,
	})
	if err != nil {
		return out, err
	}
	out.Passed = score.Satisfied
	out.Reason = score.Reasoning
	if out.Reason == "" {
		if score.Satisfied {
			out.Reason = "answer meets the criteria"
		} else {
			out.Reason = "answer does not meet the criteria"
		}
	}
	return out, nil
}

func passportOutcome(req models.JourneyRequirement, docs []models.IdentityDocument) (bool, string) {
	var minScore float64
	if req.PassConfidenceScore != nil {
		minScore = float64(*req.PassConfidenceScore)
	}

	found := false
	for _, d := range docs {
		if d.DocumentType != models.DocumentPassport || d.VerificationStatus != models.VerificationVerified {
			continue
		}
		found = true
		if !req.RequirePhotoValidation {
			return true, "verified passport on file"
		}
		if d.PhotoVerificationPassed && d.PhotoConfidenceScore != nil && *d.PhotoConfidenceScore*10 >= minScore {
			return true, "verified passport with photo check"
		}
	}
	if found {
		return false, "passport photo check below the required confidence"
	}
	return false, "no verified passport"
}

// aggregate folds outcomes into the final score. Weighted requirements (question and
// skill with weight > 0) decide the percentage; without any, it is the share of
// checks passed.
func aggregate(outcomes []Outcome) Result {
	res := Result{PassesRequired: true, Outcomes: outcomes}

	var totalWeight, earned, checks, passed int
	var reasons []string
	for _, o := range outcomes {
		if o.Type.Weighted() && o.Weight > 0 {
			totalWeight += o.Weight
			if o.Passed {
				earned += o.Weight
			}
		}
		checks++
		if o.Passed {
			passed++
		}
		if o.Required && !o.Passed {
			res.PassesRequired = false
			res.BlockingItems = append(res.BlockingItems, o.Label)
		}
		reasons = append(reasons, fmt.Sprintf("%s: %s", o.Label, o.Reason))
	}

	switch {
	case totalWeight > 0:
		res.Score = percent(earned, totalWeight)
	case checks > 0:
		res.Score = percent(passed, checks)
	default:
		res.Score = 100
	}
	if !res.PassesRequired && res.Score > MaxScoreWithFailedRequirement {
		res.Score = MaxScoreWithFailedRequirement
	}

	res.Reasoning = strings.Join(reasons, "; ")
	if len(res.BlockingItems) > 0 {
		res.Reasoning = fmt.Sprintf("Blocked by required: %s. %s", strings.Join(res.BlockingItems, ", "), res.Reasoning)
	}
	return res
}

func percent(part, whole int) int {
	return int(math.Round(float64(part) * 100 / float64(whole)))
}

func label(req models.JourneyRequirement) string {
	switch req.RequirementType {
	case models.RequirementSkill:
		return "skill " + deref(req.SkillName)
	case models.RequirementQuestion:
		return "question " + truncate(deref(req.QuestionText), 60)
	case models.RequirementExperienceLevel:
		return "experience level"
	case models.RequirementRiskLevel:
		return "risk level"
	case models.RequirementPassport:
		return "passport"
	}
	return string(req.RequirementType)
}

func answerText(a models.RegistrationAnswer) string {
	if a.AnswerText != nil {
		if s := strings.TrimSpace(*a.AnswerText); s != "" {
			return s
		}
	}
	if len(a.AnswerJSON) > 0 && string(a.AnswerJSON) != "null" {
		return string(a.AnswerJSON)
	}
	return ""
}

func hasSkill(skills []models.Skill, name string) bool {
	for _, s := range skills {
		if strings.EqualFold(strings.TrimSpace(s.Name), strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}

func containsRisk(levels []models.RiskLevel, want models.RiskLevel) bool {
	for _, l := range levels {
		if l == want {
			return true
		}
	}
	return false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
