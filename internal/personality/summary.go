package personality

import (
	"fmt"
	"strings"

	"resume-persona/internal/domain"
)

var traitLabels = map[domain.Trait]string{
	domain.TraitOpenness:          "openness",
	domain.TraitConscientiousness: "conscientiousness",
	domain.TraitExtraversion:      "extraversion",
	domain.TraitAgreeableness:     "agreeableness",
	domain.TraitNeuroticism:       "emotional sensitivity",
}

// BuildSummary arma un parrafo corto y deterministico a partir del perfil.
func BuildSummary(p domain.Big5Profile, d domain.DerivedTraits) string {
	var high, low []string
	for _, t := range domain.Traits {
		switch v := p.Get(t); {
		case v >= highThreshold:
			high = append(high, traitLabels[t])
		case v <= lowThreshold:
			low = append(low, traitLabels[t])
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "A %s, %s worker", d.WorkStyle, d.CommunicationStyle)
	if len(high) > 0 {
		fmt.Fprintf(&b, " with high %s", joinLabels(high))
	}
	if len(low) > 0 {
		fmt.Fprintf(&b, " and lower %s", joinLabels(low))
	}
	fmt.Fprintf(&b, ". Leads in a %s way, is driven by %s and tends toward %s decisions.",
		d.LeadershipStyle, d.MotivationType, d.DecisionMaking)
	return b.String()
}

// BuildInsights devuelve observaciones puntuales: rasgo mas fuerte, rasgo mas
// bajo, una nota de confianza y otra si las fuentes discrepan.
func BuildInsights(p domain.Big5Profile, conf ConfidenceBreakdown) []string {
	strongest, weakest := domain.Traits[0], domain.Traits[0]
	for _, t := range domain.Traits[1:] {
		if p.Get(t) > p.Get(strongest) {
			strongest = t
		}
		if p.Get(t) < p.Get(weakest) {
			weakest = t
		}
	}

	var insights []string
	if p.Get(strongest) == p.Get(weakest) {
		insights = append(insights, "Your profile is balanced across all five traits.")
	} else {
		insights = append(insights,
			fmt.Sprintf("Strongest trait: %s (%d/100).", traitLabels[strongest], p.Get(strongest)),
			fmt.Sprintf("Lowest trait: %s (%d/100).", traitLabels[weakest], p.Get(weakest)),
		)
	}

	switch {
	case conf.Confidence >= 0.75:
		insights = append(insights, "Questionnaire answers and stories agree closely.")
	case conf.Confidence < 0.5:
		insights = append(insights, "This profile has low confidence; more stories would sharpen it.")
	}
	if conf.Agreement < 0.5 {
		insights = append(insights, "Your stories describe you differently than your questionnaire answers.")
	}
	return insights
}

func joinLabels(labels []string) string {
	switch len(labels) {
	case 1:
		return labels[0]
	case 2:
		return labels[0] + " and " + labels[1]
	default:
		return strings.Join(labels[:len(labels)-1], ", ") + " and " + labels[len(labels)-1]
	}
}
