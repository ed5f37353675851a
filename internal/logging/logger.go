package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/orchestrator"
)

// #region new-logger
// NewLogger builds a production zap logger at level ("debug", "info", "warn",
// "error"). Console encoding unless asJSON.
func NewLogger(level string, asJSON bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("new logger: %w", err)
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.DisableStacktrace = true
	if !asJSON {
		config.Encoding = "console"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("new logger: %w", err)
	}
	return logger, nil
}
// #endregion new-logger

// #region stage-observer
// StageObserver writes pipeline stage events to a zap logger: one debug line
// per stage and one info line per completed run.
type StageObserver struct {
	log *zap.Logger
}

// NewStageObserver returns an orchestrator.Observer backed by log.
func NewStageObserver(log *zap.Logger) *StageObserver {
	if log == nil {
		log = zap.NewNop()
	}
	return &StageObserver{log: log.Named("pipeline")}
}

func (o *StageObserver) OnStage(e orchestrator.StageEvent) {
	if e.Stage == orchestrator.StageComplete {
		var sig float64
		if len(e.Values) > 0 {
			sig = e.Values[0]
		}
		o.log.Info("run complete",
			zap.String("goal", e.Label),
			zap.Stringer("parsed", e.Goal),
			zap.Float64("memory_signature", sig))
		return
	}
	if ce := o.log.Check(zapcore.DebugLevel, "stage"); ce != nil {
		ce.Write(
			zap.String("stage", string(e.Stage)),
			zap.String("goal", e.Label),
			zap.Float64s("values", e.Values))
	}
}
// #endregion stage-observer
