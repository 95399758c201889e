package grading

import (
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
)

type matcherFunc func(Request) Result

// DefaultGrader turns a typed answer into the correct/incorrect signal.
// Matchers are registered per match mode, one mode per question.
type DefaultGrader struct {
	registry    map[string]matcherFunc
	maxDistance int
}

// NewGrader builds a grader. maxFuzzyDistance caps the edit distance a
// fuzzy match tolerates; zero means the default of 2.
func NewGrader(maxFuzzyDistance int) *DefaultGrader {
	if maxFuzzyDistance <= 0 {
		maxFuzzyDistance = 2
	}
	g := &DefaultGrader{registry: map[string]matcherFunc{}, maxDistance: maxFuzzyDistance}
	g.registry["exact"] = g.matchExact
	g.registry["fold"] = g.matchFold
	g.registry["fuzzy"] = g.matchFuzzy
	g.registry["choice"] = g.matchChoice
	return g
}

func (g *DefaultGrader) Grade(req Request) Result {
	m, ok := g.registry[req.Match]
	if !ok {
		m = g.matchFold
	}
	return m(req)
}

func (g *DefaultGrader) matchExact(req Request) Result {
	return result(req, strings.TrimSpace(req.Answer) == strings.TrimSpace(req.Expected), -1)
}

func (g *DefaultGrader) matchFold(req Request) Result {
	return result(req, fold(req.Answer) == fold(req.Expected), -1)
}

func (g *DefaultGrader) matchFuzzy(req Request) Result {
	given, want := fold(req.Answer), fold(req.Expected)
	if given == "" {
		return result(req, false, -1)
	}
	d := levenshtein.ComputeDistance(given, want)
	return result(req, d <= g.maxDistance, d)
}

// matchChoice accepts either the choice text or its 1-based position.
func (g *DefaultGrader) matchChoice(req Request) Result {
	answer := strings.TrimSpace(req.Answer)
	if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(req.Choices) {
		return result(req, fold(req.Choices[n-1]) == fold(req.Expected), -1)
	}
	return result(req, fold(answer) == fold(req.Expected), -1)
}

// fold lowercases and collapses all runs of whitespace to single
// spaces, so "Chest  X-Ray" and "chest x-ray" compare equal.
func fold(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func result(req Request, correct bool, distance int) Result {
	return Result{
		QuestionID: req.QuestionID,
		Correct:    correct,
		Expected:   req.Expected,
		Given:      req.Answer,
		Distance:   distance,
	}
}
