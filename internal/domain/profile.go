package domain

import (
	"fmt"
	"math"
	"time"
)

// FusionWeights pondera Likert vs narrativa; deben sumar 1.0.
type FusionWeights struct {
	Likert    float64 `json:"likert"`
	Narrative float64 `json:"narrative"`
}

// DefaultFusionWeights es la mezcla 70/30 por defecto.
var DefaultFusionWeights = FusionWeights{Likert: 0.7, Narrative: 0.3}

const fusionWeightTolerance = 1e-6

// Validate exige pesos no negativos que sumen 1.0.
func (w FusionWeights) Validate() error {
	if math.IsNaN(w.Likert) || math.IsNaN(w.Narrative) || w.Likert < 0 || w.Narrative < 0 {
		return fmt.Errorf("%w: weights must be non-negative (likert=%v narrative=%v)", ErrInvalidFusionWeights, w.Likert, w.Narrative)
	}
	if math.Abs(w.Likert+w.Narrative-1.0) > fusionWeightTolerance {
		return fmt.Errorf("%w: weights must sum to 1.0 (likert=%v narrative=%v)", ErrInvalidFusionWeights, w.Likert, w.Narrative)
	}
	return nil
}

// DerivedTraits son etiquetas categoricas derivadas del perfil fusionado.
type DerivedTraits struct {
	WorkStyle          string `json:"work_style"`
	CommunicationStyle string `json:"communication_style"`
	LeadershipStyle    string `json:"leadership_style"`
	MotivationType     string `json:"motivation_type"`
	DecisionMaking     string `json:"decision_making"`
}

// NarrativeAssessment es la salida normalizada de la inferencia Big Five sobre narrativas.
type NarrativeAssessment struct {
	Scores        OceanScores       `json:"scores"`
	Confidence    float64           `json:"confidence"`
	Reasoning     string            `json:"reasoning,omitempty"`
	DerivedLabels map[string]string `json:"derived_labels,omitempty"`
	Source        string            `json:"source"`
}

// Fuentes posibles de la evaluacion narrativa.
const (
	NarrativeSourceModel   = "model"
	NarrativeSourceLexicon = "lexicon"
)

// PersonalityProfile es el agregado final de un ciclo de evaluacion.
// Una vez completo no se modifica: un nuevo ciclo crea un nuevo perfil.
type PersonalityProfile struct {
	ID                 string        `json:"id"`
	UserID             string        `json:"user_id"`
	Scores             Big5Profile   `json:"scores"`
	LikertScores       OceanScores   `json:"likert_scores"`
	NarrativeScores    OceanScores   `json:"narrative_scores"`
	NarrativeSource    string        `json:"narrative_source"`
	NarrativeConf      float64       `json:"narrative_confidence"`
	Confidence         float64       `json:"confidence"`
	Derived            DerivedTraits `json:"derived"`
	Summary            string        `json:"summary"`
	KeyInsights        []string      `json:"key_insights"`
	Weights            FusionWeights `json:"weights"`
	MethodologyVersion string        `json:"methodology_version"`
	Completed          bool          `json:"completed"`
	CompletedAt        *time.Time    `json:"completed_at,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
}
