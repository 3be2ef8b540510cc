package scrobbler

import (
	"context"
	"errors"
	"fmt"

	"github.com/jfmyers9/lfm/pkg/lastfm"
	"github.com/rs/zerolog"
)

// ErrMissingResult is recorded on queued plays Last.fm returned no result for.
var ErrMissingResult = errors.New("no scrobble result returned by Last.fm")

// Submitter sends plays to Last.fm. *lastfm.ScrobbleService implements it.
type Submitter interface {
	ScrobbleMany(ctx context.Context, scrobbles []lastfm.Scrobble) (*lastfm.ScrobbleResult, error)
}

// Flusher drains a Queue into a Submitter.
type Flusher struct {
	queue  *Queue
	submit Submitter
	logger zerolog.Logger

	// Limit caps the entries submitted per Flush. Zero means no cap.
	Limit int
}

// FlushReport describes one Flush run.
type FlushReport struct {
	Submitted int
	Accepted  int
	Ignored   int
	Failed    int
}

// NewFlusher creates a Flusher. A nil logger disables logging.
func NewFlusher(queue *Queue, submit Submitter, logger *zerolog.Logger) *Flusher {
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "scrobbler").Logger()
	}
	return &Flusher{queue: queue, submit: submit, logger: l}
}

// Flush submits every pending entry. Accepted entries are marked scrobbled
// and entries Last.fm ignored are marked ignored. When a batch fails, the
// entries it did not confirm stay pending with the error recorded, and the
// error is returned alongside the report.
func (f *Flusher) Flush(ctx context.Context) (FlushReport, error) {
	var report FlushReport

	pending, err := f.queue.Pending(ctx, f.Limit)
	if err != nil {
		return report, err
	}
	if len(pending) == 0 {
		f.logger.Debug().Msg("queue is empty")
		return report, nil
	}

	plays := make([]lastfm.Scrobble, len(pending))
	for i, p := range pending {
		plays[i] = p.Scrobble
	}
	report.Submitted = len(plays)

	result, submitErr := f.submit.ScrobbleMany(ctx, plays)
	var entries []lastfm.ScrobbleEntry
	if result != nil {
		entries = result.Entries
	}
	if len(entries) > len(pending) {
		entries = entries[:len(pending)]
	}

	var accepted []int64
	ignored := map[string][]int64{}
	for i, e := range entries {
		id := pending[i].ID
		if e.IgnoredCode != 0 {
			reason := e.IgnoredMessage
			if reason == "" {
				reason = fmt.Sprintf("ignored (code %d)", e.IgnoredCode)
			}
			ignored[reason] = append(ignored[reason], id)
			report.Ignored++
			continue
		}
		accepted = append(accepted, id)
	}
	report.Accepted = len(accepted)

	if err := f.queue.MarkScrobbled(ctx, accepted...); err != nil {
		return report, errors.Join(submitErr, err)
	}
	for reason, ids := range ignored {
		if err := f.queue.MarkIgnored(ctx, reason, ids...); err != nil {
			return report, errors.Join(submitErr, err)
		}
	}

	// Entries without a result are retried on the next flush.
	var failed []int64
	for _, p := range pending[len(entries):] {
		failed = append(failed, p.ID)
	}
	report.Failed = len(failed)
	if len(failed) > 0 {
		reason := ErrMissingResult.Error()
		if submitErr != nil {
			reason = submitErr.Error()
		}
		if err := f.queue.MarkFailed(ctx, reason, failed...); err != nil {
			return report, errors.Join(submitErr, err)
		}
	}

	if submitErr != nil {
		f.logger.Warn().Err(submitErr).
			Int("accepted", report.Accepted).
			Int("failed", report.Failed).
			Msg("flush stopped early")
		return report, submitErr
	}
	if report.Failed > 0 {
		f.logger.Warn().
			Int("accepted", report.Accepted).
			Int("failed", report.Failed).
			Msg("Last.fm returned fewer results than plays submitted")
	}

	f.logger.Info().
		Int("accepted", report.Accepted).
		Int("ignored", report.Ignored).
		Msg("flushed queue")
	return report, nil
}
