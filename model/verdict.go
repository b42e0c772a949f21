package model

// Verdict is the validation outcome for a single chord in the progression.
// ViolatedRules holds the identifiers of every rule the step failed, in
// evaluation order. Verdicts are never mutated after creation.
type Verdict struct {
	ChordIndex    int
	Passed        bool
	Identity      *Identity
	Notes         Notes
	ViolatedRules []string
	Message       string
}
