package search

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"chsearch/internal/search/models"
)

// The enrichment pipeline applies predicates the upstream API cannot. It
// walks the candidate list in fixed-size batches, fans each batch out
// concurrently, joins, and only then moves on, so peak upstream load is
// bounded and deterministic. Candidate order is preserved in the output.
//
// Per-entity failures are absorbed: a candidate whose fetch fails is treated
// as non-matching and logged at warning level; the pipeline never aborts for
// one company.

// enrichProfiles replaces each candidate with its full profile and keeps the
// ones matching the local filter predicates.
func (s *Service) enrichProfiles(ctx context.Context, candidates []models.CompanyRecord, filters models.SearchFilters, onProgress models.ProgressSink) ([]models.CompanyRecord, error) {
	return s.runBatches(ctx, candidates, profileBatchSize, onProgress,
		func(ctx context.Context, c models.CompanyRecord) (models.CompanyRecord, bool, error) {
			profile, err := s.companyProfile(ctx, c.CompanyNumber)
			if err != nil {
				return models.CompanyRecord{}, false, err
			}
			return profile, filters.MatchesLocal(profile), nil
		})
}

// filterByOfficers keeps candidates with at least one active officer whose
// known birth year is strictly less than birthYearBefore.
func (s *Service) filterByOfficers(ctx context.Context, candidates []models.CompanyRecord, birthYearBefore int, onProgress models.ProgressSink) ([]models.CompanyRecord, error) {
	return s.runBatches(ctx, candidates, officerBatchSize, onProgress,
		func(ctx context.Context, c models.CompanyRecord) (models.CompanyRecord, bool, error) {
			officers, err := s.companyOfficers(ctx, c.CompanyNumber)
			if err != nil {
				return models.CompanyRecord{}, false, err
			}
			return c, officers.HasActiveOfficerBornBefore(birthYearBefore), nil
		})
}

// batchOutcome is one candidate's evaluation result, slot-indexed so batch
// concurrency cannot reorder the output.
type batchOutcome struct {
	record  models.CompanyRecord
	matched bool
}

// runBatches drives the pipeline. check evaluates one candidate and returns
// the (possibly enriched) record plus whether it matches.
//
// Cancellation is honored between batches: in-flight fetches of the current
// batch complete, no further batch starts, and the error propagates so no
// snapshot or token is produced for the aborted request.
func (s *Service) runBatches(
	ctx context.Context,
	candidates []models.CompanyRecord,
	batchSize int,
	onProgress models.ProgressSink,
	check func(context.Context, models.CompanyRecord) (models.CompanyRecord, bool, error),
) ([]models.CompanyRecord, error) {
	total := len(candidates)
	matched := make([]models.CompanyRecord, 0, total)

	for start := 0; start < total; start += batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if start > 0 && s.batchDelay > 0 {
			select {
			case <-time.After(s.batchDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		batch := candidates[start:min(start+batchSize, total)]
		outcomes := make([]batchOutcome, len(batch))

		var g errgroup.Group
		for i, candidate := range batch {
			g.Go(func() error {
				record, ok, err := check(ctx, candidate)
				if err != nil {
					// Absorbed: the entity is dropped, the batch lives on.
					s.logger.Warn("enrichment fetch failed, dropping candidate",
						"company_number", candidate.CompanyNumber,
						"error", err,
					)
					s.metrics.ObserveEnrichment("fetch_failed")
					return nil
				}
				outcomes[i] = batchOutcome{record: record, matched: ok}
				return nil
			})
		}
		// Join point: every fetch in this batch finishes, by success or
		// absorbed failure, before the next batch or progress event.
		_ = g.Wait()

		for _, out := range outcomes {
			if out.matched {
				matched = append(matched, out.record)
				s.metrics.ObserveEnrichment("matched")
			} else {
				s.metrics.ObserveEnrichment("filtered")
			}
		}

		if onProgress != nil {
			onProgress(models.Progress{
				Processed: min(start+batchSize, total),
				Total:     total,
			})
		}
	}

	return matched, nil
}
