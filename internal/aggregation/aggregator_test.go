package aggregation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/profile-consolidator/internal/errs"
	"github.com/jonathan/profile-consolidator/internal/types"
)

// fakeStore returns canned data per source and can fail selected sources.
type fakeStore struct {
	fail map[string]error
}

func (f *fakeStore) failFor(source string) error {
	if f.fail == nil {
		return nil
	}
	return f.fail[source]
}

func (f *fakeStore) FetchResume(ctx context.Context, userID int64) (*types.ResumeData, error) {
	if err := f.failFor("resume"); err != nil {
		return nil, err
	}
	return &types.ResumeData{FullText: "engineer resume", Skills: []string{"go"}}, nil
}

func (f *fakeStore) FetchPhotos(ctx context.Context, userID int64) ([]types.PhotoData, error) {
	if err := f.failFor("photos"); err != nil {
		return nil, err
	}
	return []types.PhotoData{{Caption: "hiking photo"}}, nil
}

func (f *fakeStore) FetchVoiceNotes(ctx context.Context, userID int64) ([]types.VoiceNoteData, error) {
	if err := f.failFor("voice_notes"); err != nil {
		return nil, err
	}
	return []types.VoiceNoteData{{Transcription: "remember to call mom"}}, nil
}

func (f *fakeStore) FetchChatTranscripts(ctx context.Context, userID int64) ([]types.ChatTranscriptData, error) {
	if err := f.failFor("chat_transcripts"); err != nil {
		return nil, err
	}
	return []types.ChatTranscriptData{{Content: "hey, dinner friday?"}}, nil
}

func (f *fakeStore) FetchCalendarEvents(ctx context.Context, userID int64) ([]types.CalendarEventData, error) {
	if err := f.failFor("calendar_events"); err != nil {
		return nil, err
	}
	return []types.CalendarEventData{{Title: "standup"}}, nil
}

func (f *fakeStore) FetchEmails(ctx context.Context, userID int64) ([]types.EmailData, error) {
	if err := f.failFor("emails"); err != nil {
		return nil, err
	}
	return []types.EmailData{{Subject: "offer letter"}}, nil
}

func (f *fakeStore) FetchSocialPosts(ctx context.Context, userID int64) ([]types.SocialPostData, error) {
	if err := f.failFor("social_posts"); err != nil {
		return nil, err
	}
	return []types.SocialPostData{{Content: "loved this trail"}}, nil
}

func (f *fakeStore) FetchBlogPosts(ctx context.Context, userID int64) ([]types.BlogPostData, error) {
	if err := f.failFor("blog_posts"); err != nil {
		return nil, err
	}
	return []types.BlogPostData{{Title: "on distributed systems"}}, nil
}

func (f *fakeStore) FetchScreenshots(ctx context.Context, userID int64) ([]types.ScreenshotData, error) {
	if err := f.failFor("screenshots"); err != nil {
		return nil, err
	}
	return []types.ScreenshotData{{ExtractedText: "recipe screenshot"}}, nil
}

func (f *fakeStore) FetchSharedImages(ctx context.Context, userID int64) ([]types.SharedImageData, error) {
	if err := f.failFor("shared_images"); err != nil {
		return nil, err
	}
	return []types.SharedImageData{{Caption: "concert poster"}}, nil
}

func TestAggregate_AllSourcesPresent(t *testing.T) {
	agg := New(&fakeStore{}, nil)

	res := agg.Aggregate(context.Background(), 42)
	require.True(t, res.IsOk())

	snapshot := res.Value()
	assert.NotNil(t, snapshot.Resume)
	assert.Len(t, snapshot.Photos, 1)
	assert.Len(t, snapshot.VoiceNotes, 1)
	assert.Len(t, snapshot.ChatTranscripts, 1)
	assert.Len(t, snapshot.CalendarEvents, 1)
	assert.Len(t, snapshot.Emails, 1)
	assert.Len(t, snapshot.SocialPosts, 1)
	assert.Len(t, snapshot.BlogPosts, 1)
	assert.Len(t, snapshot.Screenshots, 1)
	assert.Len(t, snapshot.SharedImages, 1)
	assert.True(t, snapshot.HasData())
}

func TestAggregate_InvalidUserID(t *testing.T) {
	agg := New(&fakeStore{}, nil)

	for _, id := range []int64{0, -1, -42} {
		res := agg.Aggregate(context.Background(), id)
		require.True(t, res.IsErr(), "user id %d", id)
		assert.True(t, errs.IsKind(res.ErrValue(), errs.KindInvalidArgument))
	}
}

func TestAggregate_PartialFailuresDegradeToEmpty(t *testing.T) {
	boom := errors.New("connection reset")
	store := &fakeStore{fail: map[string]error{
		"photos":      boom,
		"emails":      boom,
		"screenshots": boom,
	}}
	agg := New(store, nil)

	res := agg.Aggregate(context.Background(), 42)
	require.True(t, res.IsOk(), "source failures must not fail the aggregate")

	snapshot := res.Value()
	assert.Empty(t, snapshot.Photos)
	assert.Empty(t, snapshot.Emails)
	assert.Empty(t, snapshot.Screenshots)

	// The seven healthy sources still land.
	assert.NotNil(t, snapshot.Resume)
	assert.Len(t, snapshot.VoiceNotes, 1)
	assert.Len(t, snapshot.ChatTranscripts, 1)
	assert.Len(t, snapshot.CalendarEvents, 1)
	assert.Len(t, snapshot.SocialPosts, 1)
	assert.Len(t, snapshot.BlogPosts, 1)
	assert.Len(t, snapshot.SharedImages, 1)
}

func TestAggregate_AllSourcesFailing(t *testing.T) {
	boom := errors.New("database down")
	fail := map[string]error{}
	for _, s := range []string{
		"resume", "photos", "voice_notes", "chat_transcripts", "calendar_events",
		"emails", "social_posts", "blog_posts", "screenshots", "shared_images",
	} {
		fail[s] = boom
	}
	agg := New(&fakeStore{fail: fail}, nil)

	res := agg.Aggregate(context.Background(), 42)
	require.True(t, res.IsOk(), "even total source failure yields an empty aggregate")
	assert.False(t, res.Value().HasData())
}

func TestSourceCounts_Order(t *testing.T) {
	snapshot := &types.RawAggregate{
		Resume: &types.ResumeData{FullText: "x"},
		Emails: []types.EmailData{{Subject: "a"}, {Subject: "b"}},
	}

	counts := snapshot.SourceCounts()
	require.Len(t, counts, 10)

	wantOrder := []string{
		"resume", "photos", "voice_notes", "chat_transcripts", "calendar_events",
		"emails", "social_posts", "blog_posts", "screenshots", "shared_images",
	}
	for i, sc := range counts {
		assert.Equal(t, wantOrder[i], sc.Source)
	}
	assert.Equal(t, 1, counts[0].Count)
	assert.Equal(t, 2, counts[5].Count)
}
