package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/dataset"
	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/eval"
	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/orchestrator"
	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/store"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description string        `json:"description"`
	Tolerance   float64       `json:"tolerance"`
	Cases       []FixtureCase `json:"cases"`
}

// FixtureCase is one (goal, dataset) pair. Values holds the flat-list form;
// Matrix the row-major form. Expected is optional.
type FixtureCase struct {
	ID       string           `json:"id"`
	Goal     string           `json:"goal"`
	Matrix   [][]float64      `json:"matrix,omitempty"`
	Values   []float64        `json:"values,omitempty"`
	Expected *FixtureExpected `json:"expected,omitempty"`
}

// FixtureExpected uses the result's JSON field names.
type FixtureExpected struct {
	Emotion     float64 `json:"emotion_score"`
	Trend       float64 `json:"trend_score"`
	Correlation float64 `json:"correlation_score"`
	Variation   float64 `json:"variation_score"`
	Signature   float64 `json:"memory_signature"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// WriteFixture writes f as indented JSON.
func WriteFixture(path string, f *Fixture) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write fixture %s: %w", path, err)
	}
	return nil
}

// ToCase converts a FixtureCase to a domain Case.
func (fc *FixtureCase) ToCase() (Case, error) {
	var (
		m   mat.Matrix
		err error
	)
	switch {
	case fc.Values != nil && fc.Matrix != nil:
		return Case{}, fmt.Errorf("case %s: both matrix and values set", fc.ID)
	case fc.Values != nil:
		m, err = dataset.FromValues(fc.Values)
	default:
		m, err = dataset.FromRows(fc.Matrix)
	}
	if err != nil {
		return Case{}, fmt.Errorf("case %s: %w", fc.ID, err)
	}
	c := Case{ID: fc.ID, Goal: fc.Goal, Matrix: m}
	if fc.Expected != nil {
		c.Expected = &Expected{
			Emotion:     fc.Expected.Emotion,
			Trend:       fc.Expected.Trend,
			Correlation: fc.Expected.Correlation,
			Variation:   fc.Expected.Variation,
			Signature:   fc.Expected.Signature,
		}
	}
	return c, nil
}

// ToCases converts every fixture case. The first conversion error aborts.
func (f *Fixture) ToCases() ([]Case, error) {
	cases := make([]Case, 0, len(f.Cases))
	for i := range f.Cases {
		c, err := f.Cases[i].ToCase()
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	return cases, nil
}

// ToReplayConfig returns the default config with the fixture tolerance
// applied when set.
func (f *Fixture) ToReplayConfig() ReplayConfig {
	cfg := DefaultReplayConfig()
	if f.Tolerance > 0 {
		cfg.Tolerance = f.Tolerance
		cfg.EvalConfig = eval.EvalConfig{
			SignatureTolerance:   f.Tolerance,
			VariabilityTolerance: f.Tolerance,
		}
	}
	return cfg
}

// #endregion fixture-loader

// #region fixture-export

// CaseFromRecord turns a stored run into a case expecting the stored scores.
func CaseFromRecord(rec store.RunRecord) Case {
	return Case{
		ID:       rec.RunID,
		Goal:     rec.Goal,
		Matrix:   rec.Matrix,
		Expected: expectedFrom(rec.Result),
	}
}

// FixtureFromRecords builds a fixture from stored runs, oldest first.
func FixtureFromRecords(description string, tolerance float64, recs []store.RunRecord) *Fixture {
	f := &Fixture{Description: description, Tolerance: tolerance}
	for i := len(recs) - 1; i >= 0; i-- {
		rec := recs[i]
		fc := FixtureCase{ID: rec.RunID, Goal: rec.Goal}
		if rec.IsVector {
			fc.Values = dataset.Flatten(rec.Matrix)
		} else {
			fc.Matrix = dataset.Rows(rec.Matrix)
		}
		e := expectedFrom(rec.Result)
		fc.Expected = &FixtureExpected{
			Emotion:     e.Emotion,
			Trend:       e.Trend,
			Correlation: e.Correlation,
			Variation:   e.Variation,
			Signature:   e.Signature,
		}
		f.Cases = append(f.Cases, fc)
	}
	return f
}

func expectedFrom(res orchestrator.Result) *Expected {
	return &Expected{
		Emotion:     res.Emotion,
		Trend:       res.Analysis.Trend,
		Correlation: res.Analysis.Correlation,
		Variation:   res.Analysis.Variation,
		Signature:   res.Analysis.Signature,
	}
}

// #endregion fixture-export
