package domain

import (
	"fmt"
	"time"

	pgvector "github.com/pgvector/pgvector-go"
)

// EmbeddingDimensions es la dimensionalidad fija de todo vector persistido.
const EmbeddingDimensions = 768

// Tipos de prompt que originan una historia.
const (
	PromptTypeAchievement = "achievement"
	PromptTypeInnovation  = "innovation"
	PromptTypeTeam        = "team"
	PromptTypeLearning    = "learning"
	PromptTypeLeadership  = "leadership"
	PromptTypePassion     = "passion"
	PromptTypeValues      = "values"
	PromptTypeHelping     = "helping"
	PromptTypeChallenge   = "challenge"
)

// TraitSignals son intensidades por rasgo en [0,1] devueltas por el analisis narrativo.
type TraitSignals struct {
	Openness          float64 `json:"openness"`
	Conscientiousness float64 `json:"conscientiousness"`
	Extraversion      float64 `json:"extraversion"`
	Agreeableness     float64 `json:"agreeableness"`
	Neuroticism       float64 `json:"neuroticism"`
}

// AsScores escala las senales a [0,100].
func (t TraitSignals) AsScores() OceanScores {
	return OceanScores{
		Openness:          ClampUnit(t.Openness) * 100,
		Conscientiousness: ClampUnit(t.Conscientiousness) * 100,
		Extraversion:      ClampUnit(t.Extraversion) * 100,
		Agreeableness:     ClampUnit(t.Agreeableness) * 100,
		Neuroticism:       ClampUnit(t.Neuroticism) * 100,
	}
}

// NarrativeSignal es la salida del modelo por historia. Se regenera cuando cambia el texto.
type NarrativeSignal struct {
	Category     string       `json:"category"`
	Themes       []string     `json:"themes"`
	Skills       []string     `json:"skills"`
	TraitSignals TraitSignals `json:"trait_signals"`
	Source       string       `json:"source"` // "model" o "lexicon"
}

// Story es una respuesta narrativa del usuario a un prompt.
type Story struct {
	ID                      string           `json:"id"`
	UserID                  string           `json:"user_id"`
	PromptType              string           `json:"prompt_type"`
	PromptText              string           `json:"prompt_text"`
	Category                string           `json:"category,omitempty"`
	Text                    string           `json:"text"`
	Summary                 string           `json:"summary,omitempty"`
	Themes                  []string         `json:"themes,omitempty"`
	Skills                  []string         `json:"skills,omitempty"`
	Signal                  *NarrativeSignal `json:"signal,omitempty"`
	Embedding               *pgvector.Vector `json:"-"`
	TimesUsedInResumes      int              `json:"times_used_in_resumes"`
	TimesUsedInCoverLetters int              `json:"times_used_in_cover_letters"`
	CreatedAt               time.Time        `json:"created_at"`
	UpdatedAt               time.Time        `json:"updated_at"`
}

// HasEmbedding indica si la historia ya fue vectorizada.
func (s Story) HasEmbedding() bool {
	return s.Embedding != nil && len(s.Embedding.Slice()) > 0
}

// StoryMatch es un resultado efimero de recuperacion semantica.
type StoryMatch struct {
	Story      Story   `json:"story"`
	Similarity float64 `json:"similarity"`
}

// UsageKind identifica donde se consumio una historia recuperada.
type UsageKind string

const (
	UsageResume      UsageKind = "resume"
	UsageCoverLetter UsageKind = "coverLetter"
)

// ParseUsageKind valida el tipo de uso.
func ParseUsageKind(raw string) (UsageKind, error) {
	switch UsageKind(raw) {
	case UsageResume, UsageCoverLetter:
		return UsageKind(raw), nil
	}
	return "", fmt.Errorf("unknown usage kind %q", raw)
}
