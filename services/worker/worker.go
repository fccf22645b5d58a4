// Package worker drives one run: fetch every source, decide
// notify-or-skip per post, dispatch, persist the seen-set.
package worker

import (
	"context"

	"partsnotifier/internal/feed"
	"partsnotifier/internal/pricing"
	"partsnotifier/internal/rules"
	"partsnotifier/logger"
	"partsnotifier/services/notifier"
	"partsnotifier/services/seen"
)

// DecisionKind classifies the outcome for one post
type DecisionKind string

const (
	// DecisionNotify means the post matched a rule for the first time
	DecisionNotify DecisionKind = "notify"
	// DecisionSkipAlreadySeen means the post was notified in an earlier run
	DecisionSkipAlreadySeen DecisionKind = "skip_already_seen"
	// DecisionSkipNoMatch means no rule fired
	DecisionSkipNoMatch DecisionKind = "skip_no_match"
)

// Decision is the per-post outcome of the dedup engine
type Decision struct {
	Kind     DecisionKind
	PostID   string
	RuleName string
	Reason   string
	Price    pricing.Price
}

// RunStats summarizes one run
type RunStats struct {
	Fetched     int
	Notified    int
	AlreadySeen int
	NoMatch     int
	Errors      int
}

// Worker orchestrates one run over all configured feed sources
type Worker struct {
	sources  []feed.Source
	matcher  *rules.Matcher
	store    seen.Store
	notifier notifier.Notifier
	dryRun   bool
	log      *logger.Logger
}

// NewWorker creates a new worker. With dryRun set, decisions are still
// made against the loaded seen-set but nothing is marked seen and
// nothing is persisted.
func NewWorker(
	sources []feed.Source,
	matcher *rules.Matcher,
	store seen.Store,
	notif notifier.Notifier,
	dryRun bool,
) *Worker {
	return &Worker{
		sources:  sources,
		matcher:  matcher,
		store:    store,
		notifier: notif,
		dryRun:   dryRun,
		log:      logger.ForWorker(),
	}
}

// Run processes all sources sequentially. A failing source is skipped,
// the others still run. The seen-set is persisted once at the end, after
// every dispatch attempt, and a persist failure does not undo the run.
func (w *Worker) Run(ctx context.Context) RunStats {
	var stats RunStats

	for _, src := range w.sources {
		posts, err := src.Fetch(ctx)
		if err != nil {
			w.log.Error().Err(err).Str("source", src.Name()).Msg("Skipping source for this run")
			stats.Errors++
			continue
		}
		stats.Fetched += len(posts)

		for _, post := range posts {
			decision := w.processPost(ctx, src, post, &stats)

			w.log.Debug().
				Str("decision", string(decision.Kind)).
				Str("post_id", decision.PostID).
				Str("rule", decision.RuleName).
				Msg("Processed post")
		}
	}

	if !w.dryRun {
		if err := w.store.Persist(); err != nil {
			w.log.Error().Err(err).Msg("Failed to persist seen-set")
			stats.Errors++
		}
	}

	w.log.Info().
		Int("fetched", stats.Fetched).
		Int("notified", stats.Notified).
		Int("already_seen", stats.AlreadySeen).
		Int("no_match", stats.NoMatch).
		Int("errors", stats.Errors).
		Msg("Run complete")

	return stats
}

// processPost runs the dedup state machine for one post: seen-check,
// price extraction, rule match, mark seen, dispatch. The id is marked
// seen before dispatch and dispatch only happens when the store reports
// the mark as newly added, so a post gets at most one delivery attempt
// even when runs overlap on a shared store.
func (w *Worker) processPost(ctx context.Context, src feed.Source, post feed.Post, stats *RunStats) Decision {
	if w.store.Contains(post.ID) {
		stats.AlreadySeen++
		return Decision{Kind: DecisionSkipAlreadySeen, PostID: post.ID}
	}

	price := pricing.Extract(post.Title)
	result := w.matcher.Match(post, price)
	if !result.Matched {
		// Unmatched posts stay unmarked so a later price drop in an
		// edited repost can still fire.
		stats.NoMatch++
		return Decision{Kind: DecisionSkipNoMatch, PostID: post.ID, Price: price}
	}

	if !w.dryRun {
		added, err := w.store.Add(post.ID)
		if err != nil {
			// Without a durable mark, dispatching would break the
			// at-most-once promise. Skip and let the next run retry.
			w.log.Error().Err(err).Str("post_id", post.ID).Msg("Failed to mark post seen, suppressing dispatch")
			stats.Errors++
			return Decision{Kind: DecisionSkipAlreadySeen, PostID: post.ID, Price: price}
		}
		if !added {
			// A concurrent run claimed the post between our seen-check
			// and the add. Its add wins the dispatch.
			stats.AlreadySeen++
			return Decision{Kind: DecisionSkipAlreadySeen, PostID: post.ID, Price: price}
		}
	}

	err := w.notifier.Notify(ctx, notifier.Notification{
		Title:   post.Title,
		Link:    post.Link,
		Reason:  result.Reason,
		Excerpt: post.Excerpt,
		Source:  src.Name(),
	})
	if err != nil {
		// Best-effort delivery: the post stays marked seen.
		w.log.Error().Err(err).Str("post_id", post.ID).Str("rule", result.RuleName).Msg("Failed to dispatch notification")
		stats.Errors++
	}

	stats.Notified++
	return Decision{
		Kind:     DecisionNotify,
		PostID:   post.ID,
		RuleName: result.RuleName,
		Reason:   result.Reason,
		Price:    result.Price,
	}
}
