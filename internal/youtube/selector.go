package youtube

import "github.com/ymatsuda/captionize/pkg/models"

// SelectTrack picks one caption track given an ordered language
// preference list.
//
// Languages are ranked strictly: for each preferred language in order,
// a manually authored track for that language wins outright, then an
// auto-generated one. A manual track for a later-preferred language
// never outranks any track for an earlier-preferred language. When no
// preferred language matches at all, the first track in input order is
// the fallback; nil when the list is empty.
func SelectTrack(tracks []models.CaptionTrack, preferred []string) *models.CaptionTrack {
	if len(tracks) == 0 {
		return nil
	}

	for _, lang := range preferred {
		for i := range tracks {
			if tracks[i].LanguageCode == lang && !tracks[i].IsAutoGenerated() {
				return &tracks[i]
			}
		}
		for i := range tracks {
			if tracks[i].LanguageCode == lang && tracks[i].IsAutoGenerated() {
				return &tracks[i]
			}
		}
	}

	return &tracks[0]
}
