package youtube

import (
	"context"
	"fmt"
	"net/http"

	yt "github.com/kkdai/youtube/v2"

	"github.com/ymatsuda/captionize/pkg/models"
)

// thumbnailTemplate builds a fallback thumbnail URL when the
// collaborator provides none.
const thumbnailTemplate = "https://i.ytimg.com/vi/%s/hqdefault.jpg"

// VideoInfo is what the collaborator yields for one video ID: display
// metadata plus the available caption tracks.
type VideoInfo struct {
	Metadata models.VideoMetadata
	Tracks   []models.CaptionTrack
}

// VideoProvider resolves a video ID into metadata and caption tracks.
// The pipeline and its tests depend on this interface, never on the
// YouTube library directly.
type VideoProvider interface {
	ResolveVideo(ctx context.Context, videoID string) (*VideoInfo, error)
}

// innertubeProvider backs VideoProvider with the kkdai/youtube client,
// which speaks YouTube's internal API.
type innertubeProvider struct {
	client *yt.Client
}

// NewProvider creates a VideoProvider backed by a fresh YouTube
// session.
func NewProvider() (VideoProvider, error) {
	return &innertubeProvider{
		client: &yt.Client{
			HTTPClient: &http.Client{Transport: userAgentTransport{http.DefaultTransport}},
		},
	}, nil
}

func (p *innertubeProvider) ResolveVideo(ctx context.Context, videoID string) (*VideoInfo, error) {
	video, err := p.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve video %s: %w", videoID, err)
	}

	info := &VideoInfo{
		Metadata: models.VideoMetadata{
			Title:        video.Title,
			Channel:      video.Author,
			Description:  video.Description,
			ThumbnailURL: bestThumbnail(video.Thumbnails, videoID),
		},
	}

	for _, track := range video.CaptionTracks {
		info.Tracks = append(info.Tracks, models.CaptionTrack{
			BaseURL:        track.BaseURL,
			Name:           track.Name.SimpleText,
			VssID:          track.VssID,
			LanguageCode:   track.LanguageCode,
			Kind:           track.Kind,
			IsTranslatable: track.IsTranslatable,
		})
	}

	return info, nil
}

// bestThumbnail returns the largest thumbnail the collaborator knows
// about, or the fixed fallback URL for the video.
func bestThumbnail(thumbs yt.Thumbnails, videoID string) string {
	var url string
	var best uint
	for _, t := range thumbs {
		if t.URL != "" && t.Width >= best {
			url = t.URL
			best = t.Width
		}
	}
	if url == "" {
		return fmt.Sprintf(thumbnailTemplate, videoID)
	}
	return url
}

// userAgentTransport pins a browser user-agent on every outgoing
// request.
type userAgentTransport struct {
	base http.RoundTripper
}

func (t userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", browserUserAgent)
	return t.base.RoundTrip(req)
}
