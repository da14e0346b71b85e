package classifier

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"aijobs-utils/internal/config"
	"aijobs-utils/internal/logging"
	"aijobs-utils/internal/logging/types"
	"aijobs-utils/internal/store"
	"aijobs-utils/pkg/models"
	"aijobs-utils/pkg/utils"
)

// Runner drives a bounded batch of jobs through the classifier. The default
// posture is read-only: this is a bulk operation over production data, and a
// silent mass-miswrite is the failure mode that matters, so nothing is
// persisted until the operator passes the commit flag after reviewing a dry
// run.
type Runner struct {
	classifier *Classifier
	store      store.Store
	limiter    *rate.Limiter
	config     *config.Config
	logger     types.Logger
}

// Options controls one batch run
type Options struct {
	// Limit bounds the batch size; zero or below means every job
	Limit int
	// Commit enables the write path
	Commit bool
	// StopOnError aborts the batch at the first error-severity finding
	StopOnError bool
}

// Failure records one job the classifier could not produce a result for
type Failure struct {
	JobID uuid.UUID
	Err   string
}

// Report is the end-of-run operator summary
type Report struct {
	Processed    int
	Updated      int
	Failed       int
	Stopped      bool
	DryRun       bool
	Elapsed      time.Duration
	ByCategory   map[string]int
	ByConfidence map[models.Confidence]int
	Issues       []models.ValidationIssue
	Failures     []Failure
}

func NewRunner(classifier *Classifier, s store.Store, cfg *config.Config) *Runner {
	return &Runner{
		classifier: classifier,
		store:      s,
		limiter:    rate.NewLimiter(rate.Every(cfg.Classifier.BatchDelay), 1),
		config:     cfg,
		logger:     logging.GetGlobalLogger(),
	}
}

// Run classifies up to opts.Limit jobs sequentially with a fixed inter-item
// delay. One item's failure never aborts the batch; only context
// cancellation or the stop-on-error flag does.
func (r *Runner) Run(ctx context.Context, opts Options) (*Report, error) {
	start := time.Now()
	report := &Report{
		DryRun:       !opts.Commit,
		ByCategory:   make(map[string]int),
		ByConfidence: make(map[models.Confidence]int),
	}
	defer func() { report.Elapsed = time.Since(start) }()

	jobs, err := r.store.Job().List(ctx, opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	r.logger.Info("Starting classification run", map[string]interface{}{
		"jobs":    len(jobs),
		"dry_run": report.DryRun,
	})

	for _, job := range jobs {
		if err := r.limiter.Wait(ctx); err != nil {
			return report, err
		}

		input := models.ClassificationInput{
			Title:           job.Title,
			Description:     job.Description,
			Requirements:    job.Requirements,
			CurrentCategory: job.Category,
		}

		outcome, err := r.classifier.Classify(ctx, job.ID, input)
		if err != nil {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			report.Failed++
			report.Failures = append(report.Failures, Failure{JobID: job.ID, Err: err.Error()})
			r.logger.Error("Classification failed for job", map[string]interface{}{
				"job_id": job.ID.String(),
				"error":  err.Error(),
			})
			continue
		}

		report.Processed++
		report.ByCategory[outcome.Result.Category]++
		report.ByConfidence[outcome.Result.Confidence]++
		report.Issues = append(report.Issues, outcome.Issues...)

		if opts.StopOnError && outcome.HasError() {
			report.Stopped = true
			r.logger.Warn("Stopping batch on validation error", map[string]interface{}{
				"job_id": job.ID.String(),
			})
			break
		}

		if opts.Commit && outcome.Result.Category != job.Category {
			if err := r.store.Job().UpdateCategory(ctx, job.ID, outcome.Result.Category); err != nil {
				report.Failed++
				report.Failures = append(report.Failures, Failure{JobID: job.ID, Err: err.Error()})
				continue
			}
			report.Updated++
		}
	}

	return report, nil
}

// Render writes the operator summary in a stable order
func (r *Report) Render(w io.Writer) {
	mode := "commit"
	if r.DryRun {
		mode = "dry-run"
	}
	fmt.Fprintf(w, "Classification run (%s), took %s\n", mode, utils.FormatDuration(r.Elapsed))
	fmt.Fprintf(w, "  processed: %d  updated: %d  failed: %d\n", r.Processed, r.Updated, r.Failed)
	if r.Stopped {
		fmt.Fprintln(w, "  batch stopped on first validation error")
	}

	fmt.Fprintln(w, "By category:")
	for _, category := range sortedKeys(r.ByCategory) {
		fmt.Fprintf(w, "  %-24s %d\n", category, r.ByCategory[category])
	}

	fmt.Fprintln(w, "By confidence:")
	for _, confidence := range []models.Confidence{models.ConfidenceHigh, models.ConfidenceMedium, models.ConfidenceLow} {
		if count, ok := r.ByConfidence[confidence]; ok {
			fmt.Fprintf(w, "  %-24s %d\n", confidence, count)
		}
	}

	if len(r.Issues) > 0 {
		fmt.Fprintf(w, "Validation issues (%d):\n", len(r.Issues))
		for _, issue := range r.Issues {
			fmt.Fprintf(w, "  [%s] job=%s %s: %q\n", issue.Severity, issue.JobID, issue.Issue, issue.Value)
		}
	}

	if len(r.Failures) > 0 {
		fmt.Fprintf(w, "Failures (%d):\n", len(r.Failures))
		for _, failure := range r.Failures {
			fmt.Fprintf(w, "  job=%s %s\n", failure.JobID, failure.Err)
		}
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
