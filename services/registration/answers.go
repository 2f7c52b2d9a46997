package registration

import (
	"fmt"
	"strings"

	"sailsmart/models"
	"sailsmart/utils"
)

// buildAnswers checks that every answer targets a requirement of the journey, that no
// requirement is answered twice and that each answer carries exactly one of text or JSON.
func buildAnswers(inputs []models.AnswerInput, reqs []models.JourneyRequirement) ([]models.RegistrationAnswer, error) {
	known := make(map[string]bool, len(reqs))
	for _, r := range reqs {
		known[r.ID] = true
	}

	seen := make(map[string]bool, len(inputs))
	answers := make([]models.RegistrationAnswer, 0, len(inputs))
	for _, in := range inputs {
		if !known[in.RequirementID] {
			return nil, utils.Validation(fmt.Sprintf("requirement %s does not belong to this journey", in.RequirementID))
		}
		if seen[in.RequirementID] {
			return nil, utils.Validation(fmt.Sprintf("requirement %s answered more than once", in.RequirementID))
		}
		seen[in.RequirementID] = true

		hasText := in.AnswerText != nil && strings.TrimSpace(*in.AnswerText) != ""
		hasJSON := len(in.AnswerJSON) > 0 && string(in.AnswerJSON) != "null"
		if hasText == hasJSON {
			return nil, utils.Validation(fmt.Sprintf("answer to %s needs exactly one of answerText or answerJson", in.RequirementID))
		}

		a := models.RegistrationAnswer{RequirementID: in.RequirementID}
		if hasText {
			text := strings.TrimSpace(*in.AnswerText)
			a.AnswerText = &text
		} else {
			a.AnswerJSON = in.AnswerJSON
		}
		answers = append(answers, a)
	}
	return answers, nil
}

func answersByRequirement(answers []models.RegistrationAnswer) map[string]models.RegistrationAnswer {
	m := make(map[string]models.RegistrationAnswer, len(answers))
	for _, a := range answers {
		m[a.RequirementID] = a
	}
	return m
}
