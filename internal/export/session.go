// Package export drives an export run: for each save-plan entry it fetches
// the generated artifact, writes it under the output root, verifies the
// written bytes against the server signature, and records the outcome. A
// failed entry never aborts the run; a later retry run reprocesses only the
// entries that failed.
package export

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/kelderman/listforge/internal/common"
	"github.com/kelderman/listforge/internal/integrity"
	"github.com/kelderman/listforge/internal/model"
	"github.com/kelderman/listforge/internal/naming"
	"github.com/kelderman/listforge/internal/service"
)

// Progress reports the entry currently being processed. Entries run
// strictly one at a time, so the callback always names the live entry.
type Progress func(index, total int, entry model.SavePlanEntry)

// Options configures one export run.
type Options struct {
	OnProgress Progress
	// ExpectedTemplateVersion, when set, must match the version code the
	// backend reports on each artifact.
	ExpectedTemplateVersion string
	Format                  model.ExportFormat
	ListingType             model.ListingType
	// Retry reprocesses only the failed entries of PriorResults and carries
	// the rest forward unchanged.
	Retry        bool
	PriorResults []model.WriteResult
	// FetchRetry bounds the transient-error retries around each artifact
	// fetch. The zero value uses the package defaults.
	FetchRetry service.RetryOptions
	// ShowProgressBar renders a terminal progress bar during the run.
	ShowProgressBar bool
}

// Summary is the informational aggregate of a finished run. It never
// changes the per-entry records.
type Summary struct {
	RunID       string
	Results     []model.WriteResult
	FailedCount int
}

// AllSucceeded reports whether no entry failed.
func (s *Summary) AllSucceeded() bool {
	return s.FailedCount == 0
}

// String renders the aggregate outcome line.
func (s *Summary) String() string {
	if s.AllSucceeded() {
		return "all succeeded"
	}
	return fmt.Sprintf("completed with %d errors", s.FailedCount)
}

// Session owns the collaborators shared by every entry of a run. The root
// is acquired by the caller before the run starts; a user who declines
// that prompt never constructs a Session, which is what makes an abandoned
// run leave no results behind.
type Session struct {
	fetcher service.ArtifactFetcher
	root    service.OutputRoot
}

// NewSession creates an export session writing under root.
func NewSession(fetcher service.ArtifactFetcher, root service.OutputRoot) *Session {
	return &Session{fetcher: fetcher, root: root}
}

// Run processes the plan sequentially and returns the run summary. Entries
// are never processed concurrently: progress must name one live entry, and
// folder creation under the shared root must not race itself. Per-entry
// errors are recorded and the run moves on; Run itself only fails on a nil
// plan or cancelled context.
func (s *Session) Run(ctx context.Context, plan *model.SavePlan, opts Options) (*Summary, error) {
	if plan == nil {
		return nil, common.ErrNoPlan
	}
	if !opts.Format.Valid() {
		return nil, fmt.Errorf("unsupported export format %q", opts.Format)
	}
	if !opts.ListingType.Valid() {
		return nil, fmt.Errorf("unsupported listing type %q", opts.ListingType)
	}

	entries := plan.Entries()
	selected, carried := selectEntries(entries, opts)

	runID := uuid.NewString()
	slog.Info("Starting export run",
		"run_id", runID,
		"plan", plan.Kind,
		"entries", len(selected),
		"carried", len(carried),
		"retry", opts.Retry)

	var bar *progressbar.ProgressBar
	if opts.ShowProgressBar && len(selected) > 0 {
		bar = progressbar.NewOptions(len(selected),
			progressbar.OptionSetDescription("Exporting"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	results := make([]model.WriteResult, 0, len(entries))
	for i, entry := range selected {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if opts.OnProgress != nil {
			opts.OnProgress(i+1, len(selected), entry)
		}

		results = append(results, s.processEntry(ctx, entry, opts))

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	merged := mergeResults(entries, results, carried)

	summary := &Summary{
		RunID:       runID,
		Results:     merged,
		FailedCount: model.FailedCount(merged),
	}

	slog.Info("Export run finished",
		"run_id", runID,
		"outcome", summary.String())

	return summary, nil
}

// selectEntries splits the plan into entries to process and prior results
// to carry forward untouched. A non-retry run processes everything.
func selectEntries(entries []model.SavePlanEntry, opts Options) (selected []model.SavePlanEntry, carried map[string]model.WriteResult) {
	if !opts.Retry {
		return entries, nil
	}

	failed := make(map[string]bool, len(opts.PriorResults))
	carried = make(map[string]model.WriteResult, len(opts.PriorResults))
	for _, r := range opts.PriorResults {
		if r.Status == model.StatusFailed {
			failed[r.Key] = true
		} else {
			carried[r.Key] = r
		}
	}

	for _, e := range entries {
		if failed[e.Key] {
			selected = append(selected, e)
		}
	}
	return selected, carried
}

// processEntry runs the fetch, write, verify sequence for one entry. Every
// error path produces a failed WriteResult; nothing escapes.
func (s *Session) processEntry(ctx context.Context, entry model.SavePlanEntry, opts Options) model.WriteResult {
	filename := naming.ForceExtension(entry.TargetFilename, opts.Format.Extension())

	result := model.WriteResult{
		Key:      entry.Key,
		Filename: filename,
		Status:   model.StatusPending,
	}

	// Only transient backend errors are worth retrying inline; anything
	// else fails the entry and waits for an explicit retry run.
	var artifact *service.Artifact
	err := common.WithRetry(ctx, func() error {
		fetched, fetchErr := s.fetcher.FetchArtifact(ctx, opts.Format, entry.MemberItemIDs, opts.ListingType)
		if fetchErr != nil {
			if !common.IsRetryable(fetchErr) {
				return &common.RetryableError{Err: fetchErr, Retryable: false}
			}
			return fetchErr
		}
		artifact = fetched
		return nil
	}, opts.FetchRetry)
	if err != nil {
		result.Status = model.StatusFailed
		result.ErrorMessage = err.Error()
		slog.Warn("Artifact fetch failed", "key", entry.Key, "error", err)
		return result
	}

	path, err := s.root.WriteFile(entry.TargetFolder, filename, artifact.Bytes)
	if err != nil {
		result.Status = model.StatusFailed
		result.ErrorMessage = err.Error()
		slog.Warn("Artifact write failed", "key", entry.Key, "error", err)
		return result
	}

	verification := integrity.Verify(artifact.Bytes, artifact.Signature, artifact.TemplateVersion, opts.ExpectedTemplateVersion)

	result.Status = model.StatusSuccess
	result.Verified = verification.Verified
	result.VerificationReason = verification.Reason
	if !verification.Verified {
		result.Warning = verification.Reason
	}

	slog.Debug("Entry written",
		"key", entry.Key,
		"path", path,
		"bytes", len(artifact.Bytes),
		"verified", verification.Verified)

	return result
}

// mergeResults returns one result per plan entry in plan order: freshly
// processed results where present, carried prior results otherwise.
func mergeResults(entries []model.SavePlanEntry, fresh []model.WriteResult, carried map[string]model.WriteResult) []model.WriteResult {
	freshByKey := make(map[string]model.WriteResult, len(fresh))
	for _, r := range fresh {
		freshByKey[r.Key] = r
	}

	merged := make([]model.WriteResult, 0, len(entries))
	for _, e := range entries {
		if r, ok := freshByKey[e.Key]; ok {
			merged = append(merged, r)
			continue
		}
		if r, ok := carried[e.Key]; ok {
			merged = append(merged, r)
		}
	}
	return merged
}
