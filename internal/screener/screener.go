package screener

import (
	"sort"

	"github.com/mohamedkhairy/momentum-screener/internal/models"
)

// Screener reduces annotated series to a ranked shortlist
type Screener struct {
	rule     Rule
	compiled CompiledRule
}

// New compiles rule into a Screener
func New(rule Rule) (*Screener, error) {
	compiled, err := Compile(rule)
	if err != nil {
		return nil, err
	}
	return &Screener{rule: rule, compiled: compiled}, nil
}

// Rule returns the rule the screener was built from
func (s *Screener) Rule() Rule {
	return s.rule
}

// Select evaluates the rule on the latest row of every series and returns
// the qualifying instruments ranked by MACD - signal, strongest first.
// Instruments whose latest RSI, MACD or signal is undefined are excluded.
// Ties keep the input order. At most TopN results are returned.
func (s *Screener) Select(annotated []models.AnnotatedSeries) []models.ScreeningResult {
	results := make([]models.ScreeningResult, 0, len(annotated))

	for i := range annotated {
		snap, ok := annotated[i].Latest()
		if !ok {
			continue
		}
		if snap.RSI.IsNone() || snap.MACD.IsNone() || snap.MACDSignal.IsNone() {
			continue
		}
		if !s.compiled(snap.Metrics()) {
			continue
		}

		macd := snap.MACD.Unwrap()
		signal := snap.MACDSignal.Unwrap()
		results = append(results, models.ScreeningResult{
			Symbol:     snap.Symbol,
			RSI:        snap.RSI.Unwrap(),
			MACD:       macd,
			MACDSignal: signal,
			Strength:   macd - signal,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Strength > results[j].Strength
	})

	if len(results) > s.rule.TopN {
		results = results[:s.rule.TopN]
	}
	for i := range results {
		results[i].Rank = i + 1
	}

	return results
}

// Select is a convenience wrapper that compiles rule and runs one selection
func Select(annotated []models.AnnotatedSeries, rule Rule) ([]models.ScreeningResult, error) {
	s, err := New(rule)
	if err != nil {
		return nil, err
	}
	return s.Select(annotated), nil
}
