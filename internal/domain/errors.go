package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrIncompleteAssessment       = errors.New("incomplete assessment")
	ErrMalformedModelOutput       = errors.New("malformed model output")
	ErrEmbeddingDimensionMismatch = errors.New("embedding dimension mismatch")
	ErrDimensionMismatch          = errors.New("vector dimension mismatch")
	ErrInvalidFusionWeights       = errors.New("invalid fusion weights")
	ErrStoryNotFound              = errors.New("story not found")
	ErrStoryChanged               = errors.New("story changed since it was read")
	ErrProfileNotFound            = errors.New("profile not found")
	ErrQuotaExceeded              = errors.New("resume quota exceeded")
)

// AssessmentSection nombra una seccion de la evaluacion que debe completarse.
type AssessmentSection string

const (
	SectionQuestionnaire AssessmentSection = "questionnaire"
	SectionStories       AssessmentSection = "stories"
)

// IncompleteAssessmentError detalla que falta para completar la evaluacion.
// Se compara con errors.Is contra ErrIncompleteAssessment.
type IncompleteAssessmentError struct {
	Section      AssessmentSection
	MissingItems []string
	InvalidItems []string
	Traits       []Trait
}

func (e *IncompleteAssessmentError) Error() string {
	var parts []string
	if len(e.MissingItems) > 0 {
		parts = append(parts, "missing items "+strings.Join(e.MissingItems, ","))
	}
	if len(e.InvalidItems) > 0 {
		parts = append(parts, "out of range items "+strings.Join(e.InvalidItems, ","))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%s: section %s not completed", ErrIncompleteAssessment, e.Section)
	}
	return fmt.Sprintf("%s: section %s not completed (%s)", ErrIncompleteAssessment, e.Section, strings.Join(parts, "; "))
}

func (e *IncompleteAssessmentError) Unwrap() error {
	return ErrIncompleteAssessment
}

// NewIncompleteQuestionnaire arma el error con ids ordenados y rasgos afectados.
func NewIncompleteQuestionnaire(missing, invalid []string) *IncompleteAssessmentError {
	sort.Strings(missing)
	sort.Strings(invalid)
	affected := make(map[Trait]struct{})
	for _, item := range Instrument {
		for _, id := range append(append([]string{}, missing...), invalid...) {
			if item.ID == id {
				affected[item.Trait] = struct{}{}
			}
		}
	}
	var traits []Trait
	for _, t := range Traits {
		if _, ok := affected[t]; ok {
			traits = append(traits, t)
		}
	}
	return &IncompleteAssessmentError{
		Section:      SectionQuestionnaire,
		MissingItems: missing,
		InvalidItems: invalid,
		Traits:       traits,
	}
}
