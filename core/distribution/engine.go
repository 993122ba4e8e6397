package distribution

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gridflow/lvplan/core/logger"
	"github.com/gridflow/lvplan/core/model"
)

// ErrInfeasible indicates that a meter cannot be hosted by any transformer
// the catalog can produce. The run aborts rather than dropping meters.
var ErrInfeasible = errors.New("placement infeasible")

// Engine performs one balanced distribution per invocation. It is
// single-threaded and keeps no state between runs; concurrent callers must
// use independent Engine values or independent inputs.
type Engine struct {
	cfg Config
	log logger.Logger
}

// New validates the configuration and returns a ready engine. A nil logger
// is replaced with a no-op.
func New(cfg Config, log logger.Logger) (*Engine, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}
	if log == nil {
		log = nopLogger{}
	}
	return &Engine{cfg: cfg, log: log}, nil
}

// Run assigns every expanded meter to a transformer and breaker, rebalances
// the result and returns the full plan with its summary. The input is not
// mutated; all working state is private to the call.
func (e *Engine) Run(groups []model.MeterGroup) (*model.DistributionResults, error) {
	meters := ExpandGroups(groups)
	ws := newWorkspace(e.cfg, e.log)

	var general []model.IndividualMeter
	for _, m := range meters {
		if m.CapacityAmps >= e.cfg.Limits.DedicatedMinAmps {
			ws.placeDedicated(m)
		} else {
			general = append(general, m)
		}
	}

	ws.sortGeneralQueue(general)
	if err := ws.placeGeneral(general); err != nil {
		return nil, err
	}

	ws.rebalance()
	ws.consolidate()

	transformers := ws.finalize()
	summary := summarize(transformers, e.cfg.Limits)
	e.log.Infof("distribution complete: %d meters on %d transformers, balance %.1f, efficiency %.1f%%",
		summary.MeterCount, summary.TransformerCount, summary.BalanceScore, summary.EfficiencyPercent)

	return &model.DistributionResults{
		RunID:        uuid.NewString(),
		Transformers: transformers,
		Summary:      summary,
	}, nil
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
