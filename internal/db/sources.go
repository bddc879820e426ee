package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/profile-consolidator/internal/types"
)

// The ten source readers below satisfy aggregation.SourceStore. Each issues a
// single read-only query; an empty table degrades to nil rather than an error.

// FetchResume returns the user's most recently updated resume, or nil.
func (db *DB) FetchResume(ctx context.Context, userID int64) (*types.ResumeData, error) {
	var r types.ResumeData
	err := db.pool.QueryRow(ctx,
		`SELECT full_text, COALESCE(skills, '{}'), updated_at
		 FROM user_resumes WHERE user_id = $1
		 ORDER BY updated_at DESC LIMIT 1`,
		userID,
	).Scan(&r.FullText, &r.Skills, &r.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch resume: %w", err)
	}
	return &r, nil
}

// FetchPhotos returns vision captions for the user's photos.
func (db *DB) FetchPhotos(ctx context.Context, userID int64) ([]types.PhotoData, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT caption, taken_at FROM user_photos
		 WHERE user_id = $1 AND caption <> '' ORDER BY taken_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch photos: %w", err)
	}
	defer rows.Close()

	var photos []types.PhotoData
	for rows.Next() {
		var p types.PhotoData
		if err := rows.Scan(&p.Caption, &p.TakenAt); err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

// FetchVoiceNotes returns transcripts of the user's voice notes.
func (db *DB) FetchVoiceNotes(ctx context.Context, userID int64) ([]types.VoiceNoteData, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT transcription, recorded_at FROM user_voice_notes
		 WHERE user_id = $1 AND transcription <> '' ORDER BY recorded_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch voice notes: %w", err)
	}
	defer rows.Close()

	var notes []types.VoiceNoteData
	for rows.Next() {
		var n types.VoiceNoteData
		if err := rows.Scan(&n.Transcription, &n.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan voice note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// FetchChatTranscripts returns the user's imported chat conversations.
func (db *DB) FetchChatTranscripts(ctx context.Context, userID int64) ([]types.ChatTranscriptData, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT content, COALESCE(participant, ''), imported_at FROM user_chat_transcripts
		 WHERE user_id = $1 ORDER BY imported_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chat transcripts: %w", err)
	}
	defer rows.Close()

	var chats []types.ChatTranscriptData
	for rows.Next() {
		var c types.ChatTranscriptData
		if err := rows.Scan(&c.Content, &c.Participant, &c.ImportedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat transcript: %w", err)
		}
		chats = append(chats, c)
	}
	return chats, rows.Err()
}

// FetchCalendarEvents returns the user's parsed calendar events.
func (db *DB) FetchCalendarEvents(ctx context.Context, userID int64) ([]types.CalendarEventData, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT title, COALESCE(description, ''), COALESCE(location, ''), starts_at, ends_at
		 FROM user_calendar_events WHERE user_id = $1 ORDER BY starts_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar events: %w", err)
	}
	defer rows.Close()

	var events []types.CalendarEventData
	for rows.Next() {
		var e types.CalendarEventData
		if err := rows.Scan(&e.Title, &e.Description, &e.Location, &e.StartsAt, &e.EndsAt); err != nil {
			return nil, fmt.Errorf("failed to scan calendar event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// FetchEmails returns the user's ingested emails.
func (db *DB) FetchEmails(ctx context.Context, userID int64) ([]types.EmailData, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT subject, COALESCE(body, ''), sent_at FROM user_emails
		 WHERE user_id = $1 ORDER BY sent_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch emails: %w", err)
	}
	defer rows.Close()

	var emails []types.EmailData
	for rows.Next() {
		var e types.EmailData
		if err := rows.Scan(&e.Subject, &e.Body, &e.SentAt); err != nil {
			return nil, fmt.Errorf("failed to scan email: %w", err)
		}
		emails = append(emails, e)
	}
	return emails, rows.Err()
}

// FetchSocialPosts returns the user's social media posts.
func (db *DB) FetchSocialPosts(ctx context.Context, userID int64) ([]types.SocialPostData, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT content, COALESCE(platform, ''), posted_at FROM user_social_posts
		 WHERE user_id = $1 ORDER BY posted_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch social posts: %w", err)
	}
	defer rows.Close()

	var posts []types.SocialPostData
	for rows.Next() {
		var p types.SocialPostData
		if err := rows.Scan(&p.Content, &p.Platform, &p.PostedAt); err != nil {
			return nil, fmt.Errorf("failed to scan social post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// FetchBlogPosts returns the user's blog posts.
func (db *DB) FetchBlogPosts(ctx context.Context, userID int64) ([]types.BlogPostData, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT title, COALESCE(body, ''), published_at FROM user_blog_posts
		 WHERE user_id = $1 ORDER BY published_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch blog posts: %w", err)
	}
	defer rows.Close()

	var posts []types.BlogPostData
	for rows.Next() {
		var p types.BlogPostData
		if err := rows.Scan(&p.Title, &p.Body, &p.PublishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan blog post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// FetchScreenshots returns OCR text extracted from the user's screenshots.
func (db *DB) FetchScreenshots(ctx context.Context, userID int64) ([]types.ScreenshotData, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT extracted_text, captured_at FROM user_screenshots
		 WHERE user_id = $1 AND extracted_text <> '' ORDER BY captured_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch screenshots: %w", err)
	}
	defer rows.Close()

	var shots []types.ScreenshotData
	for rows.Next() {
		var s types.ScreenshotData
		if err := rows.Scan(&s.ExtractedText, &s.CapturedAt); err != nil {
			return nil, fmt.Errorf("failed to scan screenshot: %w", err)
		}
		shots = append(shots, s)
	}
	return shots, rows.Err()
}

// FetchSharedImages returns captions for images the user shared.
func (db *DB) FetchSharedImages(ctx context.Context, userID int64) ([]types.SharedImageData, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT caption, shared_at FROM user_shared_images
		 WHERE user_id = $1 AND caption <> '' ORDER BY shared_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shared images: %w", err)
	}
	defer rows.Close()

	var images []types.SharedImageData
	for rows.Next() {
		var img types.SharedImageData
		if err := rows.Scan(&img.Caption, &img.SharedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shared image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}
