// Package pipeline owns the five-phase trend-to-content workflow: detect
// opportunities, plan briefs, produce and publish content, learn from the
// outcome. One Run call is one WorkflowExecution from start to terminal
// state.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"trendops/backend/internal/logging"
	"trendops/backend/internal/repository"
	"trendops/backend/internal/scoring"
	"trendops/backend/internal/services"
	"trendops/backend/pkg/models"
)

// WorkflowType names the pipeline in the workflow store. Status queries and
// historical aggregation key on it.
const WorkflowType = "trend-to-content"

// Orchestration policy.
const (
	defaultMinRelevance = 60.0
	defaultMinCoeff     = 70.0
	ideasPerOpportunity = 3
	performanceSamples  = 3
	statusHistoryRuns   = 10
	executeWorkers      = 4
)

// Options tune the detection thresholds. Zero values fall back to defaults.
type Options struct {
	MinRelevance float64
	MinCoeff     float64
}

// Orchestrator composes the pipeline services and owns the run state
// machine.
type Orchestrator struct {
	trends    *services.TrendService
	strategy  *services.StrategyService
	producer  *services.ProducerService
	tracker   *services.TrackerService
	workflows repository.WorkflowStore
	logger    *logging.Logger
	opts      Options

	runCounter  metric.Int64Counter
	runDuration metric.Float64Histogram
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(
	trends *services.TrendService,
	strategy *services.StrategyService,
	producer *services.ProducerService,
	tracker *services.TrackerService,
	workflows repository.WorkflowStore,
	logger *logging.Logger,
	opts Options,
) *Orchestrator {
	if opts.MinRelevance == 0 {
		opts.MinRelevance = defaultMinRelevance
	}
	if opts.MinCoeff == 0 {
		opts.MinCoeff = defaultMinCoeff
	}

	meter := otel.Meter("trendops/pipeline")
	runCounter, _ := meter.Int64Counter("pipeline.runs",
		metric.WithDescription("Completed and failed pipeline runs"))
	runDuration, _ := meter.Float64Histogram("pipeline.run.duration",
		metric.WithDescription("Pipeline run duration in seconds"),
		metric.WithUnit("s"))

	return &Orchestrator{
		trends:      trends,
		strategy:    strategy,
		producer:    producer,
		tracker:     tracker,
		workflows:   workflows,
		logger:      logger,
		opts:        opts,
		runCounter:  runCounter,
		runDuration: runDuration,
	}
}

// runArtifacts accumulates everything a run produces. Writes from the
// EXECUTING fan-out go through mu; every other phase is single-threaded.
type runArtifacts struct {
	mu            sync.Mutex
	opportunities []models.TrendOpportunity
	alerts        []models.TransitionAlert
	briefs        []models.ContentBrief
	drafts        []models.ContentDraft
	reports       []models.QualityReport
	published     map[string]int // draft ID -> successful distribution steps
	performance   []models.PerformanceReport
	itemFailures  int
	stepTotal     int
}

// Run executes one full pipeline pass. Any unhandled phase error persists
// FAILED with the message and is returned; state up to the last settled
// phase stays inspectable on the execution record.
func (o *Orchestrator) Run(ctx context.Context, strategy models.Strategy, limit int) (*models.WorkflowExecution, error) {
	started := time.Now()
	exec := &models.WorkflowExecution{
		ID:           uuid.New().String(),
		WorkflowType: WorkflowType,
		Status:       models.StatusAnalyzing,
		StartedAt:    started,
	}
	if err := o.workflows.CreateExecution(ctx, exec); err != nil {
		return nil, fmt.Errorf("create execution: %w", err)
	}

	o.logger.Info("pipeline run started", "run_id", exec.ID, "strategy", strategy, "limit", limit)

	arts := &runArtifacts{published: make(map[string]int)}
	report := &models.RunReport{}

	phases := []struct {
		status models.WorkflowStatus
		run    func(context.Context, models.Strategy, int, *runArtifacts, *models.RunReport) error
	}{
		{models.StatusAnalyzing, o.analyze},
		{models.StatusPlanning, o.plan},
		{models.StatusExecuting, o.execute},
		{models.StatusLearning, o.learn},
	}

	for _, phase := range phases {
		if err := o.transition(ctx, exec, phase.status); err != nil {
			return exec, o.fail(ctx, exec, started, err)
		}
		if err := phase.run(ctx, strategy, limit, arts, report); err != nil {
			return exec, o.fail(ctx, exec, started, err)
		}
		o.recordPhaseState(exec, phase.status, report)
		if err := o.workflows.UpdateExecution(ctx, exec); err != nil {
			return exec, o.fail(ctx, exec, started, err)
		}
	}

	now := time.Now()
	exec.Status = models.StatusCompleted
	exec.Report = report
	exec.EndedAt = &now
	if err := o.workflows.UpdateExecution(ctx, exec); err != nil {
		return exec, o.fail(ctx, exec, started, err)
	}

	o.runCounter.Add(ctx, 1)
	o.runDuration.Record(ctx, time.Since(started).Seconds())
	o.logger.Info("pipeline run completed",
		"run_id", exec.ID,
		"briefs", report.Planning.BriefsCreated,
		"published", report.Executing.ContentPublished,
	)
	return exec, nil
}

// transition moves the execution to the next phase. Phases only move
// forward; the caller sequence guarantees ordering, this records it.
func (o *Orchestrator) transition(ctx context.Context, exec *models.WorkflowExecution, status models.WorkflowStatus) error {
	exec.Status = status
	if err := o.workflows.UpdateExecution(ctx, exec); err != nil {
		return fmt.Errorf("persist %s transition: %w", status, err)
	}
	o.logger.Debug("phase transition", "run_id", exec.ID, "phase", status)
	return nil
}

func (o *Orchestrator) fail(ctx context.Context, exec *models.WorkflowExecution, started time.Time, cause error) error {
	now := time.Now()
	exec.Status = models.StatusFailed
	exec.Error = cause.Error()
	exec.EndedAt = &now
	// The caller's context may be the very thing that killed the run, so the
	// terminal write gets its own deadline. Otherwise a timed-out run would
	// stay stuck in its last phase forever.
	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := o.workflows.UpdateExecution(persistCtx, exec); err != nil {
		o.logger.Error("failed to persist FAILED state", "run_id", exec.ID, "error", err)
	}
	o.runCounter.Add(persistCtx, 1)
	o.logger.Error("pipeline run failed", "run_id", exec.ID, "error", cause)
	return cause
}

// analyze runs the trend detector, merges the emerging and viral lists in
// strategy order, deduplicates and caps at the caller's limit.
func (o *Orchestrator) analyze(ctx context.Context, strategy models.Strategy, limit int, arts *runArtifacts, report *models.RunReport) error {
	emerging, err := o.trends.DetectEmerging(ctx, o.opts.MinRelevance, limit)
	if err != nil {
		return fmt.Errorf("detect emerging trends: %w", err)
	}
	viral, err := o.trends.DetectViral(ctx, o.opts.MinCoeff, limit)
	if err != nil {
		return fmt.Errorf("detect viral trends: %w", err)
	}

	arts.opportunities = scoring.DedupeRank(limit, mergeByStrategy(strategy, emerging, viral)...)

	ids := make([]string, 0, len(arts.opportunities))
	for _, opp := range arts.opportunities {
		ids = append(ids, opp.ID)
	}
	alerts, err := o.trends.TimeSensitiveAlerts(ctx, ids)
	if err != nil {
		return fmt.Errorf("time-sensitive alerts: %w", err)
	}
	arts.alerts = alerts

	report.Analyzing = models.AnalyzingState{
		TrendsDetected: len(arts.opportunities),
		AlertsRaised:   len(arts.alerts),
		Strategy:       strategy,
	}
	return nil
}

// mergeByStrategy orders the two detector lists before deduplication. The
// strategy changes nothing but this order.
func mergeByStrategy(strategy models.Strategy, emerging, viral []models.TrendOpportunity) [][]models.TrendOpportunity {
	switch strategy {
	case models.StrategyViralFirst:
		return [][]models.TrendOpportunity{viral, emerging}
	case models.StrategyEvergreenFirst, models.StrategyConversionFirst:
		return [][]models.TrendOpportunity{emerging, viral}
	default: // balanced
		return [][]models.TrendOpportunity{interleave(emerging, viral)}
	}
}

func interleave(a, b []models.TrendOpportunity) []models.TrendOpportunity {
	out := make([]models.TrendOpportunity, 0, len(a)+len(b))
	for i := 0; i < len(a) || i < len(b); i++ {
		if i < len(a) {
			out = append(out, a[i])
		}
		if i < len(b) {
			out = append(out, b[i])
		}
	}
	return out
}

// plan builds at most one brief per opportunity. Opportunities with no ideas
// are skipped with a soft warning, never a run failure; generation errors are
// per-item like the EXECUTING failures, only store and context errors abort
// the run.
func (o *Orchestrator) plan(ctx context.Context, _ models.Strategy, _ int, arts *runArtifacts, report *models.RunReport) error {
	var totalReach int64
	var prioritySum float64
	skipped := 0

	for _, opp := range arts.opportunities {
		brief, err := o.strategy.BuildBrief(ctx, opp, ideasPerOpportunity)
		var genErr *services.GenerationError
		if errors.As(err, &genErr) {
			skipped++
			arts.itemFailures++
			o.logger.Warn("idea generation failed, skipping opportunity", "opportunity_id", opp.ID, "topic", opp.Topic, "error", err)
			continue
		}
		if err != nil {
			return fmt.Errorf("build brief for %s: %w", opp.ID, err)
		}
		if brief == nil {
			skipped++
			o.logger.Warn("no ideas generated, skipping opportunity", "opportunity_id", opp.ID, "topic", opp.Topic)
			continue
		}
		arts.briefs = append(arts.briefs, *brief)
		totalReach += brief.EstimatedReach
		prioritySum += brief.Priority
	}

	avgPriority := 0.0
	if len(arts.briefs) > 0 {
		avgPriority = prioritySum / float64(len(arts.briefs))
	}
	report.Planning = models.PlanningState{
		BriefsCreated:       len(arts.briefs),
		Skipped:             skipped,
		TotalEstimatedReach: totalReach,
		AvgPriorityScore:    avgPriority,
	}
	return nil
}

// execute is the only side-effecting phase: produce drafts per brief, then
// publish every ready draft. Items are independent and fan out across a
// bounded worker set; the artifact mutex serializes aggregate writes.
// Per-item failures are counted, never fatal.
func (o *Orchestrator) execute(ctx context.Context, _ models.Strategy, _ int, arts *runArtifacts, report *models.RunReport) error {
	type workItem struct {
		brief models.ContentBrief
	}
	items := make(chan workItem)
	var wg sync.WaitGroup

	workers := executeWorkers
	if len(arts.briefs) < workers {
		workers = len(arts.briefs)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range items {
				o.produceOne(ctx, item.brief, arts)
			}
		}()
	}
	for _, brief := range arts.briefs {
		items <- workItem{brief: brief}
	}
	close(items)
	wg.Wait()

	// Second sub-phase: publish everything the gate approved.
	ready, needsRevision := 0, 0
	briefByID := make(map[string]models.ContentBrief, len(arts.briefs))
	for _, b := range arts.briefs {
		briefByID[b.ID] = b
	}
	for i, rep := range arts.reports {
		if !rep.ReadyToPublish {
			needsRevision++
			continue
		}
		ready++
		draft := arts.drafts[i]
		plan := o.producer.PlanPublication(draft, briefByID[draft.BriefID])
		results := o.producer.ExecutePlan(ctx, draft, plan)

		succeeded := 0
		for _, r := range results {
			if r.Succeeded {
				succeeded++
			} else {
				arts.itemFailures++
			}
		}
		arts.stepTotal += len(results)
		if succeeded > 0 {
			arts.published[draft.ID] = succeeded
		}
	}

	report.Executing = models.ExecutingState{
		DraftsProduced:    len(arts.drafts),
		ReadyToPublish:    ready,
		NeedsRevision:     needsRevision,
		ContentPublished:  len(arts.published),
		DistributionSteps: arts.stepTotal,
		ItemFailures:      arts.itemFailures,
	}
	return nil
}

// produceOne generates and gates a single draft. Generation failures are
// per-item: counted and logged, the run continues.
func (o *Orchestrator) produceOne(ctx context.Context, brief models.ContentBrief, arts *runArtifacts) {
	draft, report, err := o.producer.Produce(ctx, brief)

	arts.mu.Lock()
	defer arts.mu.Unlock()
	if err != nil {
		arts.itemFailures++
		o.logger.Warn("draft production failed", "brief_id", brief.ID, "error", err)
		return
	}
	arts.drafts = append(arts.drafts, *draft)
	arts.reports = append(arts.reports, *report)
}

// learn samples published items for performance snapshots and distills the
// run into learnings and aggregate impact.
func (o *Orchestrator) learn(ctx context.Context, _ models.Strategy, _ int, arts *runArtifacts, report *models.RunReport) error {
	briefByID := make(map[string]models.ContentBrief, len(arts.briefs))
	for _, b := range arts.briefs {
		briefByID[b.ID] = b
	}

	sampled := 0
	for _, draft := range arts.drafts {
		steps, ok := arts.published[draft.ID]
		if !ok {
			continue
		}
		if sampled >= performanceSamples {
			break
		}
		arts.performance = append(arts.performance, o.tracker.Snapshot(draft, briefByID[draft.BriefID], steps))
		sampled++
	}

	avgPerformance := 0.0
	if len(arts.performance) > 0 {
		sum := 0.0
		for _, p := range arts.performance {
			sum += performanceValue(p.Overall)
		}
		avgPerformance = sum / float64(len(arts.performance))
	}

	report.Learning = models.LearningState{
		ItemsSampled:   sampled,
		AvgPerformance: avgPerformance,
		Learnings:      services.ExtractLearnings(arts.opportunities, arts.drafts, arts.reports, arts.performance),
		Impact:         services.AggregateImpact(arts.performance),
	}
	return nil
}

func performanceValue(cat models.PerformanceCategory) float64 {
	switch cat {
	case models.PerformanceExceeding:
		return 100
	case models.PerformanceMeeting:
		return 75
	default:
		return 50
	}
}

// recordPhaseState appends the settled phase's state to the execution's
// tagged state history.
func (o *Orchestrator) recordPhaseState(exec *models.WorkflowExecution, status models.WorkflowStatus, report *models.RunReport) {
	state := models.PhaseState{Phase: status}
	switch status {
	case models.StatusAnalyzing:
		s := report.Analyzing
		state.Analyzing = &s
	case models.StatusPlanning:
		s := report.Planning
		state.Planning = &s
	case models.StatusExecuting:
		s := report.Executing
		state.Executing = &s
	case models.StatusLearning:
		s := report.Learning
		state.Learning = &s
	}
	exec.States = append(exec.States, state)
}

// Status returns the latest execution of the workflow type plus running
// totals over the most recent completed runs. Read-only: it never mutates
// any execution record.
func (o *Orchestrator) Status(ctx context.Context) (*models.WorkflowStatusView, error) {
	view := &models.WorkflowStatusView{}

	latest, err := o.workflows.LatestExecution(ctx, WorkflowType)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	view.Latest = latest

	recent, err := o.workflows.RecentCompleted(ctx, WorkflowType, statusHistoryRuns)
	if err != nil {
		return nil, err
	}

	qualitySum, qualityRuns := 0.0, 0
	for _, exec := range recent {
		if exec.Report == nil {
			continue
		}
		view.Totals.RunsCounted++
		view.Totals.TrendsDetected += exec.Report.Analyzing.TrendsDetected
		view.Totals.BriefsCreated += exec.Report.Planning.BriefsCreated
		view.Totals.DraftsProduced += exec.Report.Executing.DraftsProduced
		view.Totals.ContentPublished += exec.Report.Executing.ContentPublished
		view.Totals.EstimatedReach += exec.Report.Planning.TotalEstimatedReach
		if exec.Report.Learning.AvgPerformance > 0 {
			qualitySum += exec.Report.Learning.AvgPerformance
			qualityRuns++
		}
	}
	if qualityRuns > 0 {
		view.Totals.AvgQuality = qualitySum / float64(qualityRuns)
	}
	return view, nil
}
