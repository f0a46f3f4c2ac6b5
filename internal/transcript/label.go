package transcript

import "strings"

// autoGeneratedMarker is the localized marker shown for ASR tracks.
const autoGeneratedMarker = "（自動生成）"

// autoGeneratedForms are the literal marker forms YouTube emits in
// track names, normalized to autoGeneratedMarker. The parenthesized
// form must be replaced first so the bare form does not split it.
var autoGeneratedForms = []string{
	"(auto-generated)",
	"auto-generated",
}

// languageNames maps YouTube's English language names to their
// localized display names. Order matters: the first entry that matches
// wins.
var languageNames = []struct {
	name      string
	localized string
}{
	{"Japanese", "日本語"},
	{"English (United States)", "英語（アメリカ）"},
	{"English (United Kingdom)", "英語（イギリス）"},
	{"English", "英語"},
	{"Korean", "韓国語"},
	{"Chinese (Simplified)", "中国語（簡体）"},
	{"Chinese (Traditional)", "中国語（繁体）"},
	{"Chinese", "中国語"},
	{"Spanish", "スペイン語"},
	{"French", "フランス語"},
	{"German", "ドイツ語"},
	{"Portuguese", "ポルトガル語"},
	{"Russian", "ロシア語"},
	{"Italian", "イタリア語"},
	{"Indonesian", "インドネシア語"},
	{"Vietnamese", "ベトナム語"},
	{"Thai", "タイ語"},
	{"Hindi", "ヒンディー語"},
	{"Arabic", "アラビア語"},
}

// TranslateLabel localizes a caption track's display name. The
// auto-generated marker is normalized in place, then the language name
// table is walked in order trying exact match, prefix-plus-space, and
// substring per entry; only the matched portion is replaced and the
// rest of the label is preserved. An unmatched label keeps only the
// marker normalization.
func TranslateLabel(raw string) string {
	label := raw
	for _, form := range autoGeneratedForms {
		label = strings.ReplaceAll(label, form, autoGeneratedMarker)
	}

	for _, entry := range languageNames {
		switch {
		case label == entry.name:
			return entry.localized
		case strings.HasPrefix(label, entry.name+" "):
			return entry.localized + label[len(entry.name):]
		case strings.Contains(label, entry.name):
			return strings.Replace(label, entry.name, entry.localized, 1)
		}
	}

	return label
}
