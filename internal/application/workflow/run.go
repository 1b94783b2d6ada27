package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/SarthakGarg19/social-support-ai/internal/domain/entity"
	"github.com/SarthakGarg19/social-support-ai/internal/domain/event"
	domainwf "github.com/SarthakGarg19/social-support-ai/internal/domain/workflow"
)

// runner owns one run's state machine and accumulated results. It is used by
// a single goroutine.
type runner struct {
	engine  *engineImpl
	run     *entity.WorkflowRun
	machine domainwf.StateMachine
	logger  *zap.Logger

	// stage data of the last completed node, kept for the abandoned snapshot
	lastLabel string
	lastData  interface{}
}

// execute walks the graph to a terminal state and builds the decision
func (r *runner) execute(ctx context.Context) *entity.FinalDecision {
	if !r.fire(ctx, domainwf.TriggerStart, "", nil) {
		return r.abandoned()
	}

	r.extract(ctx)
	if !r.fire(ctx, domainwf.TriggerExtracted, entity.SnapshotExtractionComplete, map[string]interface{}{
		"extracted_data": r.run.Merged,
	}) {
		return r.abandoned()
	}

	r.validate(ctx)
	outcome := domainwf.DecideAfterValidation(r.run.Validation.Verdict())
	if outcome == domainwf.OutcomeHalt {
		decision := r.endedEarly()
		r.fire(ctx, domainwf.TriggerHalt, entity.SnapshotEndedEarly, map[string]interface{}{
			"validation_results": r.run.Validation,
			"final_decision":     decision,
		})
		r.finish(ctx, event.TypeRunEndedEarly, decision)
		return decision
	}
	if !r.fire(ctx, outcome.Trigger(), entity.SnapshotValidationComplete, map[string]interface{}{
		"validation_results": r.run.Validation,
	}) {
		return r.abandoned()
	}

	r.score(ctx)
	if !r.fire(ctx, domainwf.TriggerScored, entity.SnapshotEligibilityComplete, map[string]interface{}{
		"eligibility_results": r.run.Eligibility,
	}) {
		return r.abandoned()
	}

	r.recommend(ctx)
	if !r.fire(ctx, domainwf.TriggerRecommended, entity.SnapshotRecommendationsComplete, map[string]interface{}{
		"recommendations": r.run.Recommendations,
	}) {
		return r.abandoned()
	}

	decision := r.finalize(ctx)
	r.fire(ctx, domainwf.TriggerFinalized, entity.SnapshotCompleted, map[string]interface{}{
		"final_decision": decision,
	})
	r.finish(ctx, event.TypeRunCompleted, decision)
	return decision
}

// fire moves the machine and records the transition. Forward triggers check
// for cancellation first; a cancelled run takes the CANCEL edge instead and
// fire returns false. HALT and FINALIZED always go through.
func (r *runner) fire(ctx context.Context, trigger domainwf.Trigger, label string, data interface{}) bool {
	cancellable := trigger != domainwf.TriggerHalt && trigger != domainwf.TriggerFinalized
	if cancellable && ctx.Err() != nil {
		r.transition(ctx, domainwf.TriggerCancel, entity.SnapshotAbandoned, map[string]interface{}{
			"abandoned_after": r.lastLabel,
			"last_stage_data": r.lastData,
		})
		return false
	}

	r.transition(ctx, trigger, label, data)
	if label != "" {
		r.lastLabel = label
		r.lastData = data
	}
	return true
}

func (r *runner) transition(ctx context.Context, trigger domainwf.Trigger, label string, data interface{}) {
	from := r.machine.State()
	if err := r.machine.Fire(ctx, trigger); err != nil {
		// The transition table is static; this only happens on a wiring bug
		r.logger.Error("Workflow transition failed", zap.String("trigger", trigger.String()), zap.Error(err))
		r.run.AddError(entity.ErrorKindStage, fmt.Sprintf("Workflow transition failed: %v", err))
		return
	}
	to := r.machine.State()
	r.run.Stage = to

	snapshot := r.persistTransition(ctx, from, to, trigger, label, data)
	if snapshot == nil {
		return
	}

	e := r.engine
	if e.dispatcher == nil {
		return
	}
	evt := event.NewEvent(event.TypeStageCompleted, r.run.ApplicantID, r.run.RunID, map[string]interface{}{
		event.PayloadStage:    label,
		event.PayloadState:    to.String(),
		event.PayloadSnapshot: snapshot,
	})
	if err := e.dispatcher.Dispatch(context.WithoutCancel(ctx), evt); err != nil {
		r.logger.Warn("Stage event handlers failed", zap.String("stage", label), zap.Error(err))
	}
}

// persistTransition writes the history row and, for labelled transitions, the
// live snapshot in one transaction. Failures are logged and counted but never
// reach the run's errors.
func (r *runner) persistTransition(ctx context.Context, from, to domainwf.State, trigger domainwf.Trigger, label string, data interface{}) *entity.WorkflowSnapshot {
	e := r.engine
	writeCtx := context.WithoutCancel(ctx)

	var snapshot *entity.WorkflowSnapshot
	if label != "" {
		stageData, err := json.Marshal(data)
		if err != nil {
			r.logger.Error("Failed to encode stage data", zap.String("stage", label), zap.Error(err))
			e.metrics.IncrementSnapshotFailure()
			stageData = []byte("{}")
		}
		snapshot = &entity.WorkflowSnapshot{
			ApplicantID:  r.run.ApplicantID,
			RunID:        r.run.RunID,
			CurrentStage: label,
			State:        to.String(),
			StageData:    stageData,
		}
	}

	history := &entity.TransitionRecord{
		ApplicantID: r.run.ApplicantID,
		RunID:       r.run.RunID,
		FromState:   from.String(),
		ToState:     to.String(),
		Trigger:     trigger.String(),
	}

	err := e.store.Tx.WithTransaction(writeCtx, func(txCtx context.Context) error {
		if snapshot != nil {
			if err := e.store.WorkflowState.Upsert(txCtx, snapshot); err != nil {
				return fmt.Errorf("failed to upsert workflow state: %w", err)
			}
		}
		if err := e.store.History.Create(txCtx, history); err != nil {
			return fmt.Errorf("failed to create history record: %w", err)
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to persist workflow snapshot",
			zap.String("stage", label),
			zap.String("state", to.String()),
			zap.Error(err),
		)
		e.metrics.IncrementSnapshotFailure()
	}
	return snapshot
}

func (r *runner) extract(ctx context.Context) {
	e := r.engine
	docs := r.run.Documents
	results := make([]entity.DocumentExtraction, len(docs))

	started := time.Now()
	var g errgroup.Group
	g.SetLimit(e.extractionConcurrency)
	for i, doc := range docs {
		g.Go(func() error {
			fields, err := runStage(ctx, e.extractionTimeout, func(c context.Context) (*entity.ExtractedFields, error) {
				return e.extractor.Extract(c, doc)
			})
			results[i] = entity.DocumentExtraction{Document: doc, Fields: fields, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	e.metrics.ObserveStage(domainwf.StateExtraction.String(), time.Since(started))

	records := make([]*entity.ExtractedFields, 0, len(results))
	for _, res := range results {
		docType := string(res.Document.Type)
		if !res.Succeeded() {
			cause := res.Err
			var xe *entity.ExtractionError
			if errors.As(cause, &xe) && xe.Err != nil {
				cause = xe.Err
			}
			if cause == nil {
				cause = errors.New("no data extracted")
			}
			r.logger.Warn("Document extraction failed",
				zap.String("doc_type", docType),
				zap.String("location", res.Document.Location),
				zap.Error(cause),
			)
			r.run.AddError(entity.ErrorKindExtraction, fmt.Sprintf("Failed to extract %s: %v", docType, cause))
			e.metrics.IncrementExtraction(docType, false)
			continue
		}

		e.metrics.IncrementExtraction(docType, true)
		records = append(records, res.Fields)
		r.saveDocument(ctx, res)
	}

	r.run.Extractions = results
	r.run.Merged = entity.MergeExtracted(records, r.run.Profile)
	r.logger.Info("Extraction complete",
		zap.Int("documents", len(docs)),
		zap.Int("extracted", len(records)),
		zap.Int("fields_present", r.run.Merged.RequiredFieldsPresent()),
	)
}

func (r *runner) saveDocument(ctx context.Context, res entity.DocumentExtraction) {
	record := &entity.DocumentRecord{
		ID:               uuid.NewString(),
		ApplicantID:      r.run.ApplicantID,
		RunID:            r.run.RunID,
		DocType:          res.Document.Type,
		FilePath:         res.Document.Location,
		ExtractedData:    res.Fields,
		RawText:          res.Fields.RawText,
		ValidationStatus: entity.DocumentStatusExtracted,
	}
	if err := r.engine.store.Documents.Create(context.WithoutCancel(ctx), record); err != nil {
		r.logger.Error("Failed to save document record", zap.String("doc_type", string(record.DocType)), zap.Error(err))
	}
}

func (r *runner) validate(ctx context.Context) {
	e := r.engine
	started := time.Now()
	report, err := runStage(ctx, e.stageTimeout, func(c context.Context) (*entity.ValidationReport, error) {
		return e.validation.Validate(c, r.run.Merged)
	})
	e.metrics.ObserveStage(domainwf.StateValidation.String(), time.Since(started))

	if err != nil || report == nil {
		if err == nil {
			err = errors.New("no report produced")
		}
		msg := fmt.Sprintf("Validation failed: %v", err)
		r.logger.Error("Validation stage failed", zap.Error(err))
		r.run.AddError(entity.ErrorKindStage, msg)
		// the failure is already recorded as a stage error; the issue only
		// reaches the applicant through the ended-early decision
		r.run.Validation = &entity.ValidationReport{
			IsValid:  false,
			Issues:   []string{msg},
			Warnings: []string{},
		}
		return
	}

	for _, issue := range report.Issues {
		r.run.AddError(entity.ErrorKindValidation, fmt.Sprintf("Validation: %s", issue))
	}
	r.run.Validation = report
}

func (r *runner) score(ctx context.Context) {
	e := r.engine
	started := time.Now()
	result, err := runStage(ctx, e.stageTimeout, func(c context.Context) (*entity.EligibilityResult, error) {
		return e.eligibility.Assess(c, r.scoringInput())
	})
	e.metrics.ObserveStage(domainwf.StateEligibility.String(), time.Since(started))

	if err != nil || result == nil {
		if err == nil {
			err = errors.New("no result produced")
		}
		r.logger.Error("Eligibility stage failed", zap.Error(err))
		r.run.AddError(entity.ErrorKindStage, fmt.Sprintf("Eligibility check failed: %v", err))
		result = entity.DegradedEligibility()
	}
	r.run.Eligibility = result
}

func (r *runner) recommend(ctx context.Context) {
	e := r.engine
	started := time.Now()
	set, err := runStage(ctx, e.stageTimeout, func(c context.Context) (*entity.RecommendationSet, error) {
		return e.recommendation.Recommend(c, r.scoringInput(), r.run.Eligibility)
	})
	e.metrics.ObserveStage(domainwf.StateRecommendation.String(), time.Since(started))

	if err != nil || set == nil {
		if err == nil {
			err = errors.New("no recommendations produced")
		}
		r.logger.Error("Recommendation stage failed", zap.Error(err))
		r.run.AddError(entity.ErrorKindStage, fmt.Sprintf("Recommendation generation failed: %v", err))
		set = entity.DegradedRecommendations()
	}
	r.run.Recommendations = set
}

// finalize builds the decision and stores it as an assessment. A failed write
// is reported on the decision itself.
func (r *runner) finalize(ctx context.Context) *entity.FinalDecision {
	e := r.engine
	started := time.Now()

	decision := r.decision(entity.RunStatusCompleted)
	decision.Score = r.run.Eligibility.Score
	decision.Decision = r.run.Eligibility.Decision
	decision.Explanation = r.run.Eligibility.Explanation
	decision.Recommendations = r.run.Recommendations

	assessment := entity.NewAssessment(uuid.NewString(), decision)
	_, err := runStage(ctx, e.stageTimeout, func(c context.Context) (struct{}, error) {
		return struct{}{}, e.store.Assessments.Create(c, assessment)
	})
	e.metrics.ObserveStage(domainwf.StateFinalize.String(), time.Since(started))

	if err != nil {
		r.logger.Error("Failed to save assessment", zap.Error(err))
		r.run.AddError(entity.ErrorKindPersistence, fmt.Sprintf("Failed to save assessment: %v", err))
		decision.Errors = r.run.ErrorMessages()
		decision.HasErrors = len(decision.Errors) > 0
	} else {
		r.logger.Info("Assessment saved", zap.String("assessment_id", assessment.ID))
	}

	r.run.Finish()
	return decision
}

func (r *runner) endedEarly() *entity.FinalDecision {
	report := r.run.Validation

	decision := r.decision(entity.RunStatusEndedEarly)
	decision.Decision = entity.DecisionPending
	decision.Issues = append([]string{}, report.Issues...)
	decision.RequiresUserAction = report.RequiresUserAction
	if report.RequiresUserAction {
		decision.Detail = "Application ended early: applicant action required"
	} else {
		decision.Detail = "Application ended early: insufficient data"
	}

	r.logger.Info("Run ended early",
		zap.Bool("requires_user_action", report.RequiresUserAction),
		zap.Int("issues", len(report.Issues)),
	)
	r.run.Finish()
	return decision
}

// abandoned closes a cancelled run. The machine is already in StateAbandoned.
func (r *runner) abandoned() *entity.FinalDecision {
	r.run.AddError(entity.ErrorKindRun, fmt.Sprintf("Run abandoned after %s", r.lastStageName()))

	decision := r.decision(entity.RunStatusAbandoned)
	decision.Decision = entity.DecisionPending
	decision.Detail = "Run cancelled before completion"
	if r.run.Eligibility != nil {
		decision.Score = r.run.Eligibility.Score
	}
	decision.Recommendations = r.run.Recommendations

	r.logger.Warn("Run abandoned", zap.String("after", r.lastStageName()))
	r.run.Finish()
	r.finish(context.Background(), event.TypeRunAbandoned, decision)
	return decision
}

func (r *runner) lastStageName() string {
	if r.lastLabel == "" {
		return domainwf.StateInitiated.String()
	}
	return r.lastLabel
}

func (r *runner) decision(status entity.RunStatus) *entity.FinalDecision {
	errs := r.run.ErrorMessages()
	return &entity.FinalDecision{
		RunID:         r.run.RunID,
		ApplicantID:   r.run.ApplicantID,
		ApplicantName: r.run.Profile.Name,
		Status:        status,
		CompletedAt:   time.Now(),
		HasErrors:     len(errs) > 0,
		Errors:        errs,
	}
}

func (r *runner) scoringInput() entity.ScoringInput {
	return entity.NewScoringInput(r.run.Merged, r.run.Profile)
}

// finish publishes the terminal event without waiting for handlers
func (r *runner) finish(ctx context.Context, eventType event.Type, decision *entity.FinalDecision) {
	r.engine.dispatchAsync(ctx, event.NewEvent(eventType, r.run.ApplicantID, r.run.RunID, map[string]interface{}{
		event.PayloadDecision:  string(decision.Decision),
		event.PayloadScore:     decision.Score,
		event.PayloadHasErrors: decision.HasErrors,
		event.PayloadState:     r.machine.State().String(),
	}))
}
