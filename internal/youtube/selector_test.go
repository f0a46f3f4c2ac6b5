package youtube

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ymatsuda/captionize/pkg/models"
)

func manualTrack(lang string) models.CaptionTrack {
	return models.CaptionTrack{
		BaseURL:      "https://example.invalid/timedtext?lang=" + lang,
		LanguageCode: lang,
		VssID:        "." + lang,
	}
}

func autoTrack(lang string) models.CaptionTrack {
	return models.CaptionTrack{
		BaseURL:      "https://example.invalid/timedtext?lang=" + lang,
		LanguageCode: lang,
		VssID:        "a." + lang,
		Kind:         "asr",
	}
}

func TestSelectTrack_LanguageRankDominates(t *testing.T) {
	// A ja auto track outranks an en manual track when ja is preferred
	// first: the language rank wins over manual-vs-auto.
	tracks := []models.CaptionTrack{manualTrack("en"), autoTrack("ja")}

	got := SelectTrack(tracks, []string{"ja", "en"})
	if assert.NotNil(t, got) {
		assert.Equal(t, "ja", got.LanguageCode)
		assert.True(t, got.IsAutoGenerated())
	}
}

func TestSelectTrack_ManualBeforeAutoSameLanguage(t *testing.T) {
	tracks := []models.CaptionTrack{autoTrack("ja"), manualTrack("ja")}

	got := SelectTrack(tracks, []string{"ja"})
	if assert.NotNil(t, got) {
		assert.Equal(t, "ja", got.LanguageCode)
		assert.False(t, got.IsAutoGenerated())
	}
}

func TestSelectTrack_SecondPreferenceUsed(t *testing.T) {
	tracks := []models.CaptionTrack{manualTrack("en"), autoTrack("en")}

	got := SelectTrack(tracks, []string{"ja", "en"})
	if assert.NotNil(t, got) {
		assert.Equal(t, "en", got.LanguageCode)
		assert.False(t, got.IsAutoGenerated())
	}
}

func TestSelectTrack_FallbackToFirstInputTrack(t *testing.T) {
	tracks := []models.CaptionTrack{autoTrack("ko"), manualTrack("de")}

	got := SelectTrack(tracks, []string{"ja", "en"})
	if assert.NotNil(t, got) {
		assert.Equal(t, "ko", got.LanguageCode)
	}
}

func TestSelectTrack_EmptyInput(t *testing.T) {
	assert.Nil(t, SelectTrack(nil, []string{"ja"}))
	assert.Nil(t, SelectTrack([]models.CaptionTrack{}, nil))
}

func TestIsAutoGenerated(t *testing.T) {
	assert.True(t, models.CaptionTrack{Kind: "asr"}.IsAutoGenerated())
	assert.True(t, models.CaptionTrack{VssID: "a.en"}.IsAutoGenerated())
	assert.False(t, models.CaptionTrack{VssID: ".en"}.IsAutoGenerated())
	assert.False(t, models.CaptionTrack{}.IsAutoGenerated())
}
