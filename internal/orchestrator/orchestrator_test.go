package orchestrator

import (
	"encoding/json"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gonum.org/v1/gonum/mat"

	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/channels"
	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/dataset"
	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/signals"
)

// #region helpers

func sample() *mat.Dense {
	return mat.NewDense(2, 3, []float64{1, 1, 1, 1, 5, 9})
}

type recorder struct {
	mu     sync.Mutex
	events []StageEvent
}

func (r *recorder) OnStage(e StageEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// #endregion helpers

// #region run-tests

func TestRun_Analyze(t *testing.T) {
	p := NewPipeline(nil)
	res, err := p.Run("analyze", sample())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if res.Intent != (signals.IntentVector{1, 0, 0, 0, 0}) {
		t.Errorf("unexpected intent %v", res.Intent)
	}
	if res.Context.TaskCode() != 1 || res.Context.Rows() != 2 || res.Context.Cols() != 3 {
		t.Errorf("unexpected context %v", res.Context)
	}
	if len(res.Meaning) != 9 {
		t.Errorf("expected meaning length 9, got %d", len(res.Meaning))
	}
	if res.Emotion < 0 || res.Emotion > 1 {
		t.Errorf("emotion %v out of range", res.Emotion)
	}
	a := res.Analysis
	if a.Fusion != channels.Fuse(a.Trend, a.Correlation, a.Variation) {
		t.Errorf("fusion %v disagrees with channel scores", a.Fusion)
	}
	if math.Abs(a.Variation-1.63) > 0.01 {
		t.Errorf("expected variation ~1.63, got %v", a.Variation)
	}
	if res.Message != "Task 'analyze' executed successfully." {
		t.Errorf("unexpected message %q", res.Message)
	}
}

func TestRun_SignatureRecomputes(t *testing.T) {
	res, err := NewPipeline(nil).Run("forecast", mat.NewVecDense(6, []float64{3, 1, 4, 1, 5, 9}))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	f := res.Analysis.Fusion
	mean := (f[0] + f[1] + f[2]) / 3
	var v float64
	for _, x := range f {
		v += (x - mean) * (x - mean)
	}
	want := 0.7*mean + 0.3*(v/3)
	if math.Abs(res.Analysis.Signature-want) > 1e-9 {
		t.Errorf("signature %v, recomputed %v", res.Analysis.Signature, want)
	}
}

func TestRun_BitIdenticalReruns(t *testing.T) {
	p := NewPipeline(nil)
	m := mat.NewDense(3, 4, []float64{0.1, 0.7, 0.3, 0.9, 12, 11, 15, 10, -4, -2, -8, 1})
	first, err := p.Run("insights", m)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := p.Run("insights", m)
		if err != nil {
			t.Fatalf("rerun %d: %v", i, err)
		}
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("rerun %d differs (-first +again):\n%s", i, diff)
		}
		if math.Float64bits(first.Analysis.Signature) != math.Float64bits(again.Analysis.Signature) {
			t.Fatalf("signature bits drifted on rerun %d", i)
		}
	}
}

func TestRun_ConcurrentRunsAgree(t *testing.T) {
	p := NewPipeline(&recorder{})
	m := sample()
	want, err := p.Run("predict", m)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var wg sync.WaitGroup
	results := make([]Result, 16)
	errs := make([]error, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = p.Run("predict", m)
		}(i)
	}
	wg.Wait()

	for i := range results {
		if errs[i] != nil {
			t.Fatalf("run %d: %v", i, errs[i])
		}
		if diff := cmp.Diff(want, results[i]); diff != "" {
			t.Errorf("run %d differs:\n%s", i, diff)
		}
	}
}

func TestRun_UnknownGoalStillRuns(t *testing.T) {
	res, err := NewPipeline(nil).Run("optimize", sample())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Intent != (signals.IntentVector{}) {
		t.Errorf("expected zero intent, got %v", res.Intent)
	}
	if res.Context.TaskCode() != 0 {
		t.Errorf("expected task code 0, got %d", res.Context.TaskCode())
	}
	if res.Message != "Task 'optimize' executed successfully." {
		t.Errorf("unexpected message %q", res.Message)
	}
}

func TestRun_EmptyMatrix(t *testing.T) {
	res, err := NewPipeline(nil).Run("anomaly", &mat.Dense{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Context != (signals.ContextVector{4, 0, 0, 0}) {
		t.Errorf("unexpected context %v", res.Context)
	}
	if res.Emotion != 0 || res.Analysis != (Analysis{}) {
		t.Errorf("expected zero scores, got emotion=%v analysis=%+v", res.Emotion, res.Analysis)
	}
}

func TestRun_RejectsNonFinite(t *testing.T) {
	p := NewPipeline(nil)
	_, err := p.Run("analyze", mat.NewDense(1, 3, []float64{1, math.NaN(), 3}))
	if !errors.Is(err, dataset.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	var inv *dataset.InvalidInputError
	if !errors.As(err, &inv) || inv.Op != "validate" {
		t.Errorf("expected validate error, got %v", err)
	}

	_, err = p.Run("analyze", mat.NewDense(1, 2, []float64{math.MaxFloat64, -math.MaxFloat64}))
	if !errors.Is(err, dataset.ErrInvalidInput) {
		t.Fatalf("expected overflow to be rejected, got %v", err)
	}
}

func TestRun_RejectedRunEmitsNothing(t *testing.T) {
	rec := &recorder{}
	_, err := NewPipeline(rec).Run("analyze", mat.NewDense(1, 2, []float64{math.MaxFloat64, -math.MaxFloat64}))
	if !errors.Is(err, dataset.ErrInvalidInput) {
		t.Fatalf("expected overflow to be rejected, got %v", err)
	}
	if len(rec.events) != 0 {
		t.Errorf("expected no stage events for a rejected run, got %d", len(rec.events))
	}
}

func TestRun_NilDenseIsEmpty(t *testing.T) {
	res, err := NewPipeline(nil).Run("analyze", (*mat.Dense)(nil))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Context != (signals.ContextVector{1, 0, 0, 0}) || res.Analysis != (Analysis{}) {
		t.Errorf("expected empty-matrix result, got context=%v analysis=%+v", res.Context, res.Analysis)
	}
}

// A flat JSON list is cleaned into one column, so every row holds a single
// value and only the trend channel sees the sequence.
func TestRun_CleanedFlatList(t *testing.T) {
	raw, err := dataset.Decode([]byte(`[1, 2, 3, 4, 5]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	m, err := dataset.Clean(raw, dataset.DefaultCleanOptions())
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	res, err := NewPipeline(nil).Run("analyze", m)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	approx := cmpopts.EquateApprox(0, 1e-12)
	if diff := cmp.Diff(signals.ContextVector{1, 5, 1, 0}, res.Context, approx); diff != "" {
		t.Errorf("context mismatch (-want +got):\n%s", diff)
	}
	if res.Emotion != 0 {
		t.Errorf("expected emotion 0, got %v", res.Emotion)
	}
	want := Analysis{
		Trend:     1,
		Fusion:    channels.FusionVector{1, 0, 0},
		Signature: 0.3,
	}
	if diff := cmp.Diff(want, res.Analysis, approx); diff != "" {
		t.Errorf("analysis mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_JSONShape(t *testing.T) {
	res, err := NewPipeline(nil).Run("analyze", mat.NewDense(1, 5, []float64{1, 2, 3, 4, 5}))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	raw, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"goal", "intent_vector", "context_vector", "meaning_vector", "emotion_score", "analysis_result", "message"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
	analysis := doc["analysis_result"].(map[string]any)
	for _, key := range []string{"trend_score", "correlation_score", "variation_score", "fusion_vector", "memory_signature"} {
		if _, ok := analysis[key]; !ok {
			t.Errorf("missing analysis key %q", key)
		}
	}
	if got := analysis["trend_score"].(float64); math.Abs(got-1) > 1e-9 {
		t.Errorf("expected trend 1, got %v", got)
	}
	if got := analysis["correlation_score"].(float64); math.Abs(got-1) > 1e-9 {
		t.Errorf("expected correlation 1, got %v", got)
	}
}

// #endregion run-tests

// #region trend-only-tests

func TestTrendOnly(t *testing.T) {
	p := NewPipeline(nil)
	got, err := p.TrendOnly(mat.NewVecDense(4, []float64{10, 8, 6, 4}))
	if err != nil {
		t.Fatalf("trend: %v", err)
	}
	if diff := cmp.Diff(-2.0, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("trend mismatch:\n%s", diff)
	}
	if _, err := p.TrendOnly(mat.NewVecDense(2, []float64{1, math.Inf(1)})); !errors.Is(err, dataset.ErrInvalidInput) {
		t.Errorf("expected invalid input, got %v", err)
	}
}

// #endregion trend-only-tests

// #region observer-tests

func TestObserver_SeesEveryStageInOrder(t *testing.T) {
	rec := &recorder{}
	if _, err := NewPipeline(rec).Run("predict", sample()); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := append(append([]Stage{}, Stages...), StageComplete)
	var got []Stage
	for _, e := range rec.events {
		got = append(got, e.Stage)
		if e.Label != "predict" {
			t.Errorf("stage %s carried label %q", e.Stage, e.Label)
		}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stage order mismatch (-want +got):\n%s", diff)
	}
	if n := len(rec.events[2].Values); n != 9 {
		t.Errorf("meaning stage carried %d values, want 9", n)
	}
}

func TestObserverFunc(t *testing.T) {
	var n int
	p := NewPipeline(ObserverFunc(func(StageEvent) { n++ }))
	if _, err := p.Run("analyze", sample()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if n != len(Stages)+1 {
		t.Errorf("expected %d events, got %d", len(Stages)+1, n)
	}
}

// #endregion observer-tests
