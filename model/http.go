package model

type ValidateRequestBody struct {
	Key    string  `json:"key"`
	Chords []Notes `json:"chords"`
}

type VerdictResult struct {
	ChordIndex    int      `json:"chord_index"`
	Passed        bool     `json:"passed"`
	Identity      string   `json:"identity"`
	ViolatedRules []string `json:"violated_rules,omitempty"`
}

type ValidateResponse struct {
	RunID    string          `json:"run_id"`
	Passed   bool            `json:"passed"`
	Verdicts []VerdictResult `json:"verdicts"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
