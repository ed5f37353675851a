package goal

import "strings"

// #region goal

// Goal is the closed set of tasks the reasoning pipeline recognizes.
type Goal string

const (
	Unknown  Goal = ""
	Analyze  Goal = "analyze"
	Predict  Goal = "predict"
	Forecast Goal = "forecast"
	Anomaly  Goal = "anomaly"
	Insights Goal = "insights"
)

// IntentDim is the length of the one-hot intent encoding.
const IntentDim = 5

// #endregion goal

// #region table

// entry carries the static codes for one goal.
type entry struct {
	intentIndex int // position of the 1 in the intent vector
	taskCode    int // context vector task_type_code
	synonyms    []string
}

var table = map[Goal]entry{
	Analyze:  {intentIndex: 0, taskCode: 1, synonyms: []string{"analyze", "analysis", "auto_analyze"}},
	Predict:  {intentIndex: 1, taskCode: 2, synonyms: []string{"predict", "prediction", "auto_predict"}},
	Forecast: {intentIndex: 2, taskCode: 3, synonyms: []string{"forecast", "future", "auto_forecast"}},
	Anomaly:  {intentIndex: 3, taskCode: 4, synonyms: []string{"anomaly", "anomalies", "auto_anomaly"}},
	Insights: {intentIndex: 4, taskCode: 5, synonyms: []string{"insights", "insight", "auto_insights"}},
}

// lookup maps every normalized synonym to its goal.
var lookup = func() map[string]Goal {
	m := make(map[string]Goal)
	for g, e := range table {
		for _, s := range e.synonyms {
			m[s] = g
		}
	}
	return m
}()

// #endregion table

// #region parse

// Normalize trims and lower-cases a goal label.
func Normalize(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// Parse maps a label (any case, surrounding whitespace allowed) to its Goal.
// Unrecognized labels return Unknown.
func Parse(label string) Goal {
	return lookup[Normalize(label)]
}

// All returns the recognized goals in intent order.
func All() []Goal {
	return []Goal{Analyze, Predict, Forecast, Anomaly, Insights}
}

// Synonyms returns the labels that parse to g.
func Synonyms(g Goal) []string {
	e, ok := table[g]
	if !ok {
		return nil
	}
	out := make([]string, len(e.synonyms))
	copy(out, e.synonyms)
	return out
}

// #endregion parse

// #region codes

// Known reports whether g is one of the recognized goals.
func (g Goal) Known() bool {
	_, ok := table[g]
	return ok
}

// IntentIndex returns the one-hot position for g, or -1 for Unknown.
func (g Goal) IntentIndex() int {
	e, ok := table[g]
	if !ok {
		return -1
	}
	return e.intentIndex
}

// TaskCode returns the context task code for g (0 = unmapped).
func (g Goal) TaskCode() int {
	return table[g].taskCode
}

func (g Goal) String() string {
	if g == Unknown {
		return "unknown"
	}
	return string(g)
}

// #endregion codes
