package screener

// Metric names available to screening conditions. They are read from the
// latest row of an annotated series.
const (
	MetricClose          = "close"
	MetricRSI            = "rsi"
	MetricMACD           = "macd"
	MetricMACDSignal     = "macd_signal"
	MetricMACDHist       = "macd_hist"
	MetricSMA            = "sma"
	MetricBollingerUpper = "bollinger_upper"
	MetricBollingerLower = "bollinger_lower"
)

var knownMetrics = map[string]bool{
	MetricClose:          true,
	MetricRSI:            true,
	MetricMACD:           true,
	MetricMACDSignal:     true,
	MetricMACDHist:       true,
	MetricSMA:            true,
	MetricBollingerUpper: true,
	MetricBollingerLower: true,
}

// Condition compares a metric with either a constant Value or another metric Ref
type Condition struct {
	Metric   string   `yaml:"metric" json:"metric"`
	Operator string   `yaml:"operator" json:"operator"` // ">", "<", ">=", "<=", "==", "!="
	Value    *float64 `yaml:"value,omitempty" json:"value,omitempty"`
	Ref      string   `yaml:"ref,omitempty" json:"ref,omitempty"`
}

// Rule is a set of conditions that must all hold (AND) plus the shortlist size
type Rule struct {
	Name       string      `yaml:"name" json:"name"`
	Conditions []Condition `yaml:"conditions" json:"conditions"`
	TopN       int         `yaml:"top_n" json:"top_n"`
}

// MaxTopN is the largest shortlist a rule may ask for
const MaxTopN = 4

// CompiledRule evaluates a rule against the metrics of one instrument
type CompiledRule func(metrics map[string]float64) bool

func value(v float64) *float64 {
	return &v
}

// MomentumRule builds the momentum crossover rule:
// lower < RSI < upper and MACD > MACD signal
func MomentumRule(rsiLower, rsiUpper float64, topN int) Rule {
	return Rule{
		Name: "momentum_crossover",
		Conditions: []Condition{
			{Metric: MetricRSI, Operator: ">", Value: value(rsiLower)},
			{Metric: MetricRSI, Operator: "<", Value: value(rsiUpper)},
			{Metric: MetricMACD, Operator: ">", Ref: MetricMACDSignal},
		},
		TopN: topN,
	}
}

// DefaultRule returns the momentum crossover with RSI in (40, 60) and a shortlist of 4
func DefaultRule() Rule {
	return MomentumRule(40, 60, 4)
}
