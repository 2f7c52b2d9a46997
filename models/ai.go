package models

// QuestionPrompt is what the scorer sees for one question requirement.
type QuestionPrompt struct {
	RequirementID         string `json:"requirementId"`
	QuestionText          string `json:"questionText"`
	QualificationCriteria string `json:"qualificationCriteria"`
	Answer                string `json:"answer"`
}

// AnswerScore is the scorer's verdict on a single answer.
type AnswerScore struct {
	Satisfied  bool    `json:"satisfied"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// PhotoVerdict is the verifier's result for an identity-document photo.
// Confidence is in [0,1].
type PhotoVerdict struct {
	Passed     bool    `json:"passed"`
	Confidence float64 `json:"confidence"`
	Notes      string  `json:"notes"`
}
