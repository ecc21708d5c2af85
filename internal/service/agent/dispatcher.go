package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/conutlabs/chiefops/internal/domain"
	"github.com/conutlabs/chiefops/internal/observability/telemetry"
	"github.com/conutlabs/chiefops/internal/ports"
	"github.com/conutlabs/chiefops/internal/service/intent"
)

// Default parameters applied when a question does not state them.
const (
	defaultHorizon = 3
	defaultTopK    = 5
	defaultShift   = "morning"
)

// Dispatcher routes a classified question to the right analytics engine,
// fans multi-branch requests out per branch, and caches successful
// answers.
type Dispatcher struct {
	classifier *intent.Classifier
	store      ports.DatasetStore
	combos     ports.ComboService
	forecasts  ports.ForecastService
	expansion  ports.ExpansionService
	growth     ports.GrowthService
	staffing   ports.StaffingService
	cache      ports.Cache
	answerTTL  time.Duration
	log        *zap.Logger
}

func NewDispatcher(
	classifier *intent.Classifier,
	store ports.DatasetStore,
	combos ports.ComboService,
	forecasts ports.ForecastService,
	expansion ports.ExpansionService,
	growth ports.GrowthService,
	staffing ports.StaffingService,
	cache ports.Cache,
	answerTTL time.Duration,
	log *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		classifier: classifier,
		store:      store,
		combos:     combos,
		forecasts:  forecasts,
		expansion:  expansion,
		growth:     growth,
		staffing:   staffing,
		cache:      cache,
		answerTTL:  answerTTL,
		log:        log,
	}
}

func applyDefaults(in domain.Intent) domain.Intent {
	if in.HorizonMonths <= 0 {
		in.HorizonMonths = defaultHorizon
	}
	if in.TopK <= 0 {
		in.TopK = defaultTopK
	}
	if in.Shift == "" {
		in.Shift = defaultShift
	}
	if in.Branch == "" {
		in.Branch = domain.BranchAll
	}
	return in
}

func cacheKey(in domain.Intent) string {
	return fmt.Sprintf("answer:%s:%s:%s:%d:%d",
		in.Action, strings.ToLower(in.Branch), in.Shift, in.HorizonMonths, in.TopK)
}

// Ask answers a free-text question end to end.
func (d *Dispatcher) Ask(ctx context.Context, question string) *domain.AgentResponse {
	start := time.Now()
	in := applyDefaults(d.classifier.Classify(question))

	resp := &domain.AgentResponse{
		ID:         uuid.New().String(),
		Intent:     in.Action,
		Branch:     in.Branch,
		Confidence: in.Confidence,
	}

	if in.Action == domain.ActionUnknown {
		resp.Error = "could not map the question to a supported analysis; try asking about combos, forecasts, staffing, expansion or growth"
		resp.ElapsedMS = elapsedMS(start)
		telemetry.QuestionsTotal.WithLabelValues(in.Action, "unknown").Inc()
		return resp
	}

	key := cacheKey(in)
	if cached, err := d.cache.Get(ctx, key); err == nil && cached != "" {
		var data any
		if err := json.Unmarshal([]byte(cached), &data); err == nil {
			resp.Data = data
			resp.Cached = true
			resp.ElapsedMS = elapsedMS(start)
			telemetry.QuestionsTotal.WithLabelValues(in.Action, "cached").Inc()
			return resp
		}
	}

	result := d.Dispatch(ctx, in)
	resp.Data = result.Data
	if !result.Success {
		resp.Error = result.Error
		telemetry.QuestionsTotal.WithLabelValues(in.Action, "error").Inc()
	} else {
		telemetry.QuestionsTotal.WithLabelValues(in.Action, "ok").Inc()
		if payload, err := json.Marshal(result.Data); err == nil {
			if err := d.cache.Set(ctx, key, string(payload), d.answerTTL); err != nil {
				d.log.Warn("failed to cache answer", zap.String("key", key), zap.Error(err))
			}
		}
	}
	resp.ElapsedMS = elapsedMS(start)
	return resp
}

// Dispatch runs one classified intent against its engine and wraps the
// outcome in the standard envelope.
func (d *Dispatcher) Dispatch(ctx context.Context, in domain.Intent) domain.ToolResult {
	in = applyDefaults(in)
	start := time.Now()
	defer func() {
		telemetry.EngineLatency.WithLabelValues(in.Action).Observe(time.Since(start).Seconds())
	}()

	switch in.Action {
	case domain.ActionCombo:
		result, err := d.combos.Recommend(ctx, ports.ComboParams{Branch: in.Branch, TopK: in.TopK})
		return wrap(result, err)
	case domain.ActionForecast:
		if strings.EqualFold(in.Branch, domain.BranchAll) {
			return d.fanOut(ctx, func(branch string) (any, error) {
				return d.forecasts.ForecastBranchDemand(ctx, branch, in.HorizonMonths)
			})
		}
		result, err := d.forecasts.ForecastBranchDemand(ctx, in.Branch, in.HorizonMonths)
		return wrap(result, err)
	case domain.ActionStaffing:
		if strings.EqualFold(in.Branch, domain.BranchAll) {
			return d.fanOut(ctx, func(branch string) (any, error) {
				return d.staffing.RecommendStaffing(ctx, branch, in.Shift)
			})
		}
		result, err := d.staffing.RecommendStaffing(ctx, in.Branch, in.Shift)
		return wrap(result, err)
	case domain.ActionExpansion:
		result, err := d.expansion.EvaluateExpansion(ctx, in.Branch)
		return wrap(result, err)
	case domain.ActionGrowth:
		result, err := d.growth.GrowthStrategy(ctx, in.Branch)
		return wrap(result, err)
	default:
		return domain.ToolResult{Error: fmt.Sprintf("unsupported action %q", in.Action)}
	}
}

// fanOut runs one engine call per branch independently, collecting partial
// results so a failure in one branch never sinks the batch.
func (d *Dispatcher) fanOut(ctx context.Context, run func(branch string) (any, error)) domain.ToolResult {
	branches, err := d.store.Branches(ctx)
	if err != nil {
		return domain.ToolResult{Error: err.Error()}
	}

	data := domain.MultiBranchData{Branches: make(map[string]any, len(branches))}
	for _, b := range branches {
		result, err := run(b)
		if err != nil {
			data.Errors = append(data.Errors, fmt.Sprintf("%s: %v", b, err))
			continue
		}
		data.Branches[b] = result
	}
	return domain.ToolResult{Success: len(data.Branches) > 0 || len(data.Errors) == 0, Data: data}
}

func wrap(result any, err error) domain.ToolResult {
	if err != nil {
		return domain.ToolResult{Error: err.Error()}
	}
	return domain.ToolResult{Success: true, Data: result}
}

func elapsedMS(start time.Time) float64 {
	return domain.Round(float64(time.Since(start).Microseconds())/1000, 2)
}
