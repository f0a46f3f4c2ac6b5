package models

// CaptionTrack describes one subtitle stream available for a video.
// It is produced by the YouTube collaborator per request and never
// mutated after creation.
type CaptionTrack struct {
	BaseURL        string `json:"base_url"`
	Name           string `json:"name"`
	VssID          string `json:"vss_id"`
	LanguageCode   string `json:"language_code"`
	Kind           string `json:"kind,omitempty"`
	IsTranslatable bool   `json:"is_translatable"`
}

// IsAutoGenerated reports whether the track was produced by speech
// recognition rather than authored by a human. YouTube marks ASR tracks
// with kind "asr" and a VssID prefixed "a.".
func (t CaptionTrack) IsAutoGenerated() bool {
	if t.Kind == "asr" {
		return true
	}
	return len(t.VssID) >= 2 && t.VssID[:2] == "a."
}

// CaptionSegment is one decoded unit of spoken text. Offsets are
// milliseconds from the start of the video. Segments are ordered
// chronologically as decoded.
type CaptionSegment struct {
	Text       string `json:"text"`
	StartMs    int64  `json:"start_ms"`
	DurationMs int64  `json:"duration_ms"`
}

// EndMs returns the segment's end offset.
func (s CaptionSegment) EndMs() int64 {
	return s.StartMs + s.DurationMs
}

// VideoMetadata holds the display metadata for a resolved video.
type VideoMetadata struct {
	Title        string `json:"title"`
	Channel      string `json:"channel"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// TranscriptResult is the pipeline's output. On success Transcript and
// Language are populated; on failure Error carries a human-readable
// message. Metadata may be present either way, so a caller can show
// "video found, but no subtitles" instead of a bare failure.
type TranscriptResult struct {
	Success    bool           `json:"success"`
	Transcript string         `json:"transcript,omitempty"`
	Language   string         `json:"language,omitempty"`
	Metadata   *VideoMetadata `json:"metadata,omitempty"`
	Error      string         `json:"error,omitempty"`
}
