// Package types provides type definitions for the structured data flowing through
// the profile consolidation pipeline.
package types

import "time"

// ResumeData is the parsed text of a user's uploaded resume.
type ResumeData struct {
	FullText  string    `json:"full_text"`
	Skills    []string  `json:"skills,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// PhotoData is a vision-generated caption for one user photo.
type PhotoData struct {
	Caption string    `json:"caption"`
	TakenAt time.Time `json:"taken_at,omitempty"`
}

// VoiceNoteData is the transcript of one voice note.
type VoiceNoteData struct {
	Transcription string    `json:"transcription"`
	RecordedAt    time.Time `json:"recorded_at,omitempty"`
}

// ChatTranscriptData is one imported chat conversation.
type ChatTranscriptData struct {
	Content     string    `json:"content"`
	Participant string    `json:"participant,omitempty"`
	ImportedAt  time.Time `json:"imported_at,omitempty"`
}

// CalendarEventData is one parsed calendar event.
type CalendarEventData struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	StartsAt    time.Time `json:"starts_at,omitempty"`
	EndsAt      time.Time `json:"ends_at,omitempty"`
}

// EmailData is one ingested email.
type EmailData struct {
	Subject string    `json:"subject"`
	Body    string    `json:"body,omitempty"`
	SentAt  time.Time `json:"sent_at,omitempty"`
}

// SocialPostData is one social media post.
type SocialPostData struct {
	Content  string    `json:"content"`
	Platform string    `json:"platform,omitempty"`
	PostedAt time.Time `json:"posted_at,omitempty"`
}

// BlogPostData is one blog post.
type BlogPostData struct {
	Title       string    `json:"title"`
	Body        string    `json:"body,omitempty"`
	PublishedAt time.Time `json:"published_at,omitempty"`
}

// ScreenshotData is the OCR text extracted from one screenshot.
type ScreenshotData struct {
	ExtractedText string    `json:"extracted_text"`
	CapturedAt    time.Time `json:"captured_at,omitempty"`
}

// SharedImageData is a caption for one image the user shared.
type SharedImageData struct {
	Caption  string    `json:"caption"`
	SharedAt time.Time `json:"shared_at,omitempty"`
}

// RawAggregate is the unified per-user snapshot of all ten raw data sources
// before synthesis. Every field is independently optional; an aggregate with
// all fields empty is a valid value.
type RawAggregate struct {
	Resume          *ResumeData          `json:"resume,omitempty"`
	Photos          []PhotoData          `json:"photos,omitempty"`
	VoiceNotes      []VoiceNoteData      `json:"voice_notes,omitempty"`
	ChatTranscripts []ChatTranscriptData `json:"chat_transcripts,omitempty"`
	CalendarEvents  []CalendarEventData  `json:"calendar_events,omitempty"`
	Emails          []EmailData          `json:"emails,omitempty"`
	SocialPosts     []SocialPostData     `json:"social_posts,omitempty"`
	BlogPosts       []BlogPostData       `json:"blog_posts,omitempty"`
	Screenshots     []ScreenshotData     `json:"screenshots,omitempty"`
	SharedImages    []SharedImageData    `json:"shared_images,omitempty"`
}

// HasData reports whether at least one source contributed anything.
func (a *RawAggregate) HasData() bool {
	if a == nil {
		return false
	}
	return a.Resume != nil ||
		len(a.Photos) > 0 ||
		len(a.VoiceNotes) > 0 ||
		len(a.ChatTranscripts) > 0 ||
		len(a.CalendarEvents) > 0 ||
		len(a.Emails) > 0 ||
		len(a.SocialPosts) > 0 ||
		len(a.BlogPosts) > 0 ||
		len(a.Screenshots) > 0 ||
		len(a.SharedImages) > 0
}

// SourceCount pairs a source name with how many records it contributed.
type SourceCount struct {
	Source string
	Count  int
}

// SourceCounts returns the per-source record counts in a fixed order, used to
// build the deterministic prompt summary.
func (a *RawAggregate) SourceCounts() []SourceCount {
	resumeCount := 0
	if a.Resume != nil {
		resumeCount = 1
	}
	return []SourceCount{
		{Source: "resume", Count: resumeCount},
		{Source: "photos", Count: len(a.Photos)},
		{Source: "voice_notes", Count: len(a.VoiceNotes)},
		{Source: "chat_transcripts", Count: len(a.ChatTranscripts)},
		{Source: "calendar_events", Count: len(a.CalendarEvents)},
		{Source: "emails", Count: len(a.Emails)},
		{Source: "social_posts", Count: len(a.SocialPosts)},
		{Source: "blog_posts", Count: len(a.BlogPosts)},
		{Source: "screenshots", Count: len(a.Screenshots)},
		{Source: "shared_images", Count: len(a.SharedImages)},
	}
}
