package personality

import "resume-persona/internal/domain"

// Umbrales de las reglas de etiquetas. Subir un rasgo nunca mueve la
// etiqueta en sentido contrario al que el rasgo describe.
const (
	highThreshold = 70
	lowThreshold  = 35

	leadershipConscientiousness = 65
	leadershipHighAgreeableness = 60
	leadershipLowAgreeableness  = 45

	motivationPivot = 50

	intuitiveMaxNeuroticism = 40
	analyticalMinConscient  = 55
)

// Etiquetas derivadas.
const (
	WorkStyleCreative   = "creative"
	WorkStyleStructured = "structured"
	WorkStyleAdaptive   = "adaptive"

	CommunicationExpressive = "expressive"
	CommunicationThoughtful = "thoughtful"
	CommunicationBalanced   = "balanced"

	LeadershipServant       = "servant"
	LeadershipDirective     = "directive"
	LeadershipParticipative = "participative"

	MotivationAchievement = "achievement"
	MotivationCuriosity   = "curiosity"
	MotivationSecurity    = "security"
	MotivationAutonomy    = "autonomy"

	DecisionIntuitive    = "intuitive"
	DecisionAnalytical   = "analytical"
	DecisionConsultative = "consultative"
)

// DeriveTraits mapea el perfil fusionado a las cinco etiquetas. Es total:
// todo perfil produce exactamente una etiqueta no vacia por campo.
func DeriveTraits(p domain.Big5Profile) domain.DerivedTraits {
	return domain.DerivedTraits{
		WorkStyle:          workStyle(p),
		CommunicationStyle: communicationStyle(p),
		LeadershipStyle:    leadershipStyle(p),
		MotivationType:     motivationType(p),
		DecisionMaking:     decisionMaking(p),
	}
}

func workStyle(p domain.Big5Profile) string {
	switch {
	case p.Openness >= highThreshold:
		return WorkStyleCreative
	case p.Conscientiousness >= highThreshold:
		return WorkStyleStructured
	default:
		return WorkStyleAdaptive
	}
}

func communicationStyle(p domain.Big5Profile) string {
	switch {
	case p.Extraversion >= highThreshold:
		return CommunicationExpressive
	case p.Extraversion <= lowThreshold:
		return CommunicationThoughtful
	default:
		return CommunicationBalanced
	}
}

func leadershipStyle(p domain.Big5Profile) string {
	if p.Conscientiousness >= leadershipConscientiousness {
		if p.Agreeableness >= leadershipHighAgreeableness {
			return LeadershipServant
		}
		if p.Agreeableness < leadershipLowAgreeableness {
			return LeadershipDirective
		}
	}
	return LeadershipParticipative
}

func motivationType(p domain.Big5Profile) string {
	open := p.Openness >= motivationPivot
	conscientious := p.Conscientiousness >= motivationPivot
	switch {
	case open && conscientious:
		return MotivationAchievement
	case open:
		return MotivationCuriosity
	case conscientious:
		return MotivationSecurity
	default:
		return MotivationAutonomy
	}
}

// decisionMaking da prioridad a la responsabilidad alta: con C >= 70 el
// estilo es analitico aunque la apertura tambien sea alta.
func decisionMaking(p domain.Big5Profile) string {
	switch {
	case p.Conscientiousness >= highThreshold:
		return DecisionAnalytical
	case p.Openness >= highThreshold && p.Neuroticism <= intuitiveMaxNeuroticism:
		return DecisionIntuitive
	case p.Openness <= lowThreshold && p.Conscientiousness >= analyticalMinConscient:
		return DecisionAnalytical
	default:
		return DecisionConsultative
	}
}
