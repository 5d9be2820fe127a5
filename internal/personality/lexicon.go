package personality

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"resume-persona/internal/domain"
)

const (
	// lexiconSmoothing amortigua textos con pocas coincidencias hacia 50.
	lexiconSmoothing = 2.0
	// LexiconMaxConfidence acota la confianza del estimador por palabras clave.
	LexiconMaxConfidence = 0.4
	lexiconHitsForMax    = 40.0

	maxThemes = 5
	maxSkills = 7
)

type traitLexicon struct {
	positive []string
	negative []string
}

// Prefijos: "collaborat" cubre collaborate, collaborated, collaboration.
var traitLexicons = map[domain.Trait]traitLexicon{
	domain.TraitOpenness: {
		positive: []string{"creativ", "curious", "curiosity", "imagin", "idea", "explor", "experiment", "innovat", "novel", "invent", "prototyp", "research", "vision", "art", "design"},
		negative: []string{"routine", "tradition", "conventional", "familiar", "unchanged"},
	},
	domain.TraitConscientiousness: {
		positive: []string{"plan", "organiz", "deadline", "schedul", "thorough", "detail", "process", "checklist", "disciplin", "deliver", "reliab", "prepar", "document", "systematic", "priorit"},
		negative: []string{"procrastinat", "forgot", "late", "messy", "disorganiz", "rushed", "careless"},
	},
	domain.TraitExtraversion: {
		positive: []string{"present", "pitch", "talk", "network", "social", "energ", "outgoing", "event", "spoke", "speak", "public", "crowd", "meetup", "enthusias"},
		negative: []string{"alone", "quiet", "solo", "reserved", "introvert", "independently", "shy"},
	},
	domain.TraitAgreeableness: {
		positive: []string{"help", "support", "mentor", "empath", "collaborat", "listen", "kind", "together", "trust", "volunteer", "care", "cooperat", "compassion"},
		negative: []string{"argu", "conflict", "blunt", "critici", "compet", "demand", "stubborn"},
	},
	domain.TraitNeuroticism: {
		positive: []string{"stress", "anxi", "worr", "overwhelm", "nervous", "panic", "frustrat", "fear", "upset", "burnout"},
		negative: []string{"calm", "compos", "relax", "steady", "resilien", "confident", "composure"},
	},
}

// Palabras que comparten prefijo con una raiz pero no tienen su significado.
var stemExclusions = map[string]struct{}{
	"career": {}, "careers": {},
	"article": {}, "articles": {}, "artifact": {}, "artifacts": {}, "artificial": {}, "artificially": {},
	"later": {}, "lately": {}, "latest": {}, "lateral": {},
	"eventual": {}, "eventually": {},
	"ideal": {}, "ideally": {},
	"competent": {}, "competence": {}, "competency": {}, "competencies": {},
	"planet": {}, "planets": {},
	"presently":    {},
	"kindergarten": {},
	"helpless":     {},
	"demanding":    {},
}

// matchesStem exige que la palabra empiece con la raiz y no este excluida.
func matchesStem(word, stem string) bool {
	if !strings.HasPrefix(word, stem) {
		return false
	}
	_, excluded := stemExclusions[word]
	return !excluded
}

var skillLexicon = []struct {
	prefix string
	skill  string
}{
	{"lead", "leadership"},
	{"mentor", "mentoring"},
	{"coach", "mentoring"},
	{"analy", "analysis"},
	{"communicat", "communication"},
	{"negotiat", "negotiation"},
	{"plan", "planning"},
	{"design", "design"},
	{"program", "software development"},
	{"software", "software development"},
	{"code", "software development"},
	{"data", "data analysis"},
	{"budget", "budgeting"},
	{"present", "public speaking"},
	{"research", "research"},
	{"collaborat", "collaboration"},
	{"team", "collaboration"},
	{"solv", "problem solving"},
	{"debug", "problem solving"},
	{"customer", "customer focus"},
	{"client", "customer focus"},
	{"automat", "automation"},
	{"teach", "teaching"},
}

var themeLexicon = []struct {
	prefix string
	theme  string
}{
	{"learn", "growth"},
	{"grow", "growth"},
	{"team", "teamwork"},
	{"collaborat", "teamwork"},
	{"innovat", "innovation"},
	{"invent", "innovation"},
	{"fail", "resilience"},
	{"challeng", "resilience"},
	{"obstacle", "resilience"},
	{"impact", "impact"},
	{"result", "impact"},
	{"help", "service"},
	{"volunteer", "service"},
	{"communit", "service"},
	{"lead", "leadership"},
	{"passion", "passion"},
	{"value", "values"},
}

// LexiconEstimate es la estimacion de respaldo a partir de texto crudo.
type LexiconEstimate struct {
	Scores     domain.OceanScores
	Confidence float64
	Hits       int
}

// ScoreLexicon estima OCEAN contando palabras clave positivas y negativas.
// Sin coincidencias cada rasgo queda en 50 y la confianza en 0.
func ScoreLexicon(texts ...string) LexiconEstimate {
	words := tokenize(strings.Join(texts, " "))
	var scores domain.OceanScores
	hits := 0
	for _, t := range domain.Traits {
		lex := traitLexicons[t]
		pos := countMatches(words, lex.positive)
		neg := countMatches(words, lex.negative)
		hits += pos + neg
		v := 50 + 50*float64(pos-neg)/(float64(pos+neg)+lexiconSmoothing)
		scores.Set(t, domain.ClampScore(v))
	}
	confidence := math.Min(LexiconMaxConfidence, float64(hits)/lexiconHitsForMax)
	return LexiconEstimate{Scores: scores, Confidence: confidence, Hits: hits}
}

// LexiconSignals convierte la estimacion por palabras clave en senales [0,1].
func LexiconSignals(text string) domain.TraitSignals {
	est := ScoreLexicon(text)
	return domain.TraitSignals{
		Openness:          est.Scores.Openness / 100,
		Conscientiousness: est.Scores.Conscientiousness / 100,
		Extraversion:      est.Scores.Extraversion / 100,
		Agreeableness:     est.Scores.Agreeableness / 100,
		Neuroticism:       est.Scores.Neuroticism / 100,
	}
}

// ExtractSkills devuelve hasta 7 habilidades detectadas, en orden de aparicion.
func ExtractSkills(text string) []string {
	words := tokenize(text)
	var out []string
	seen := map[string]struct{}{}
	for _, w := range words {
		for _, entry := range skillLexicon {
			if !matchesStem(w, entry.prefix) {
				continue
			}
			if _, ok := seen[entry.skill]; ok {
				continue
			}
			seen[entry.skill] = struct{}{}
			out = append(out, entry.skill)
		}
		if len(out) >= maxSkills {
			return out[:maxSkills]
		}
	}
	return out
}

// ExtractThemes devuelve hasta 5 temas, los mas frecuentes primero.
func ExtractThemes(text string) []string {
	words := tokenize(text)
	counts := map[string]int{}
	first := map[string]int{}
	for i, w := range words {
		for _, entry := range themeLexicon {
			if matchesStem(w, entry.prefix) {
				counts[entry.theme]++
				if _, ok := first[entry.theme]; !ok {
					first[entry.theme] = i
				}
			}
		}
	}
	themes := make([]string, 0, len(counts))
	for theme := range counts {
		themes = append(themes, theme)
	}
	sort.Slice(themes, func(i, j int) bool {
		if counts[themes[i]] != counts[themes[j]] {
			return counts[themes[i]] > counts[themes[j]]
		}
		return first[themes[i]] < first[themes[j]]
	})
	if len(themes) > maxThemes {
		themes = themes[:maxThemes]
	}
	return themes
}

func countMatches(words []string, prefixes []string) int {
	n := 0
	for _, w := range words {
		for _, p := range prefixes {
			if matchesStem(w, p) {
				n++
				break
			}
		}
	}
	return n
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}
