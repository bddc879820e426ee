// Package aggregation assembles the per-user RawAggregate by fanning out to
// the ten independent data sources concurrently.
package aggregation

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/profile-consolidator/internal/errs"
	"github.com/jonathan/profile-consolidator/internal/result"
	"github.com/jonathan/profile-consolidator/internal/types"
)

// SourceStore exposes the ten per-source read queries. Each fetch returns its
// rows (or nil) for one user; implementations must not write.
type SourceStore interface {
	FetchResume(ctx context.Context, userID int64) (*types.ResumeData, error)
	FetchPhotos(ctx context.Context, userID int64) ([]types.PhotoData, error)
	FetchVoiceNotes(ctx context.Context, userID int64) ([]types.VoiceNoteData, error)
	FetchChatTranscripts(ctx context.Context, userID int64) ([]types.ChatTranscriptData, error)
	FetchCalendarEvents(ctx context.Context, userID int64) ([]types.CalendarEventData, error)
	FetchEmails(ctx context.Context, userID int64) ([]types.EmailData, error)
	FetchSocialPosts(ctx context.Context, userID int64) ([]types.SocialPostData, error)
	FetchBlogPosts(ctx context.Context, userID int64) ([]types.BlogPostData, error)
	FetchScreenshots(ctx context.Context, userID int64) ([]types.ScreenshotData, error)
	FetchSharedImages(ctx context.Context, userID int64) ([]types.SharedImageData, error)
}

// Aggregator reads all ten sources for one user and assembles a RawAggregate.
type Aggregator struct {
	store  SourceStore
	logger *zap.Logger
}

// New creates an Aggregator over the given source store.
func New(store SourceStore, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{store: store, logger: logger}
}

// Aggregate issues the ten source reads concurrently and joins before
// returning. An individual source failure is logged and degrades that one
// field to its empty representation; it never aborts the sibling reads. Only
// identifier validation can fail the whole call.
func (a *Aggregator) Aggregate(ctx context.Context, userID int64) result.Result[*types.RawAggregate] {
	if userID <= 0 {
		return result.Err[*types.RawAggregate](
			errs.InvalidArgument("user id must be a positive integer, got %d", userID))
	}

	agg := &types.RawAggregate{}

	// Each goroutine owns exactly one aggregate field, so no locking is needed.
	// Failures are swallowed into empty fields, so the group never cancels.
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		v, err := a.store.FetchResume(gCtx, userID)
		if err != nil {
			a.logSourceFailure("resume", userID, err)
			return nil
		}
		agg.Resume = v
		return nil
	})
	g.Go(func() error {
		v, err := a.store.FetchPhotos(gCtx, userID)
		if err != nil {
			a.logSourceFailure("photos", userID, err)
			return nil
		}
		agg.Photos = v
		return nil
	})
	g.Go(func() error {
		v, err := a.store.FetchVoiceNotes(gCtx, userID)
		if err != nil {
			a.logSourceFailure("voice_notes", userID, err)
			return nil
		}
		agg.VoiceNotes = v
		return nil
	})
	g.Go(func() error {
		v, err := a.store.FetchChatTranscripts(gCtx, userID)
		if err != nil {
			a.logSourceFailure("chat_transcripts", userID, err)
			return nil
		}
		agg.ChatTranscripts = v
		return nil
	})
	g.Go(func() error {
		v, err := a.store.FetchCalendarEvents(gCtx, userID)
		if err != nil {
			a.logSourceFailure("calendar_events", userID, err)
			return nil
		}
		agg.CalendarEvents = v
		return nil
	})
	g.Go(func() error {
		v, err := a.store.FetchEmails(gCtx, userID)
		if err != nil {
			a.logSourceFailure("emails", userID, err)
			return nil
		}
		agg.Emails = v
		return nil
	})
	g.Go(func() error {
		v, err := a.store.FetchSocialPosts(gCtx, userID)
		if err != nil {
			a.logSourceFailure("social_posts", userID, err)
			return nil
		}
		agg.SocialPosts = v
		return nil
	})
	g.Go(func() error {
		v, err := a.store.FetchBlogPosts(gCtx, userID)
		if err != nil {
			a.logSourceFailure("blog_posts", userID, err)
			return nil
		}
		agg.BlogPosts = v
		return nil
	})
	g.Go(func() error {
		v, err := a.store.FetchScreenshots(gCtx, userID)
		if err != nil {
			a.logSourceFailure("screenshots", userID, err)
			return nil
		}
		agg.Screenshots = v
		return nil
	})
	g.Go(func() error {
		v, err := a.store.FetchSharedImages(gCtx, userID)
		if err != nil {
			a.logSourceFailure("shared_images", userID, err)
			return nil
		}
		agg.SharedImages = v
		return nil
	})

	// Workers never return errors; Wait is only a join point.
	_ = g.Wait()

	return result.Ok(agg)
}

func (a *Aggregator) logSourceFailure(source string, userID int64, err error) {
	a.logger.Warn("source read failed, degrading to empty",
		zap.String("source", source),
		zap.Int64("user_id", userID),
		zap.Error(err),
	)
}
