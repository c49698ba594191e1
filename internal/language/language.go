package language

import (
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Primary returns the primary language subtag of a BCP-47 or ISO 639-1
// tag, lowercased: "zh-CN" -> "zh", "pt-BR" -> "pt", "en" -> "en".
// Returns empty string for empty input.
func Primary(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ""
	}
	if parsed, err := language.Parse(tag); err == nil {
		base, conf := parsed.Base()
		if conf != language.No {
			return strings.ToLower(base.String())
		}
	}
	// Keep comparisons working for tags x/text rejects outright.
	if idx := strings.IndexAny(tag, "-_"); idx > 0 {
		tag = tag[:idx]
	}
	return strings.ToLower(tag)
}

// Match reports whether two tags denote the same language, comparing only
// primary subtags so regional variants ("zh-CN" vs "zh-TW") match.
// Empty input on either side never matches.
func Match(a, b string) bool {
	pa, pb := Primary(a), Primary(b)
	return pa != "" && pa == pb
}

// DisplayName returns the English name of a language tag ("fr" ->
// "French"). Unrecognized tags fall back to the uppercased input;
// empty input yields "Unknown".
func DisplayName(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return "Unknown"
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return strings.ToUpper(tag)
	}
	name := display.English.Languages().Name(parsed)
	if name == "" {
		return strings.ToUpper(tag)
	}
	return name
}

// countryToLanguage maps ISO 3166-1 country codes to the BCP-47 tag of
// the country's dominant production language. Countries with several
// film languages keep the variant most common in that country's output.
var countryToLanguage = map[string]string{
	"AE": "ar-AE", "BH": "ar-BH", "EG": "ar-EG", "IQ": "ar-IQ",
	"JO": "ar-JO", "LY": "ar-LY", "MA": "ar-MA", "QA": "ar-QA",
	"SA": "ar-SA", "TN": "ar-TN", "YE": "ar-YE",

	"BY": "be-BY", "BG": "bg-BG", "CZ": "cs-CZ", "DK": "da-DK",
	"DE": "de-DE", "AT": "de-AT", "CH": "de-CH",
	"GR": "el-GR", "CY": "el-CY",
	"GB": "en-GB", "IE": "en-IE", "US": "en-US", "CA": "en-CA",
	"AU": "en-AU", "NZ": "en-NZ", "ZA": "en-ZA", "JM": "en-JM",
	"KE": "en-KE", "NG": "en-NG", "PH": "en-PH", "SG": "en-SG",
	"ES": "es-ES", "MX": "es-MX", "AR": "es-AR", "CL": "es-CL",
	"CO": "es-CO", "CU": "es-CU", "DO": "es-DO", "EC": "es-EC",
	"GT": "es-GT", "PE": "es-PE", "PY": "es-PY", "UY": "es-UY",
	"VE": "es-VE", "BO": "es-BO",
	"FR": "fr-FR", "BE": "fr-BE", "LU": "fr-LU", "MC": "fr-MC",
	"CI": "fr-CI", "SN": "fr-SN", "CD": "fr-CD",
	"IT": "it-IT", "SM": "it-SM",
	"NL": "nl-NL",
	"PL": "pl-PL",
	"PT": "pt-PT", "BR": "pt-BR", "AO": "pt-AO", "MZ": "pt-MZ",
	"RO": "ro-RO", "MD": "ro-MD",
	"RU": "ru-RU",
	"SE": "sv-SE", "NO": "no-NO", "FI": "fi-FI", "IS": "is-IS",
	"HU": "hu-HU", "HR": "hr-HR", "SK": "sk-SK", "SI": "sl-SI",
	"RS": "sr-RS", "BA": "bs-BA", "MK": "mk-MK", "AL": "sq-AL",
	"LV": "lv-LV", "LT": "lt-LT", "EE": "et-EE",
	"UA": "uk-UA",

	"CN": "zh-CN", "HK": "zh-HK", "TW": "zh-TW", "MO": "zh-MO",
	"JP": "ja-JP",
	"KR": "ko-KR", "KP": "ko-KP",
	"IN": "hi-IN", "BD": "bn-BD", "PK": "ur-PK", "LK": "si-LK",
	"NP": "ne-NP",
	"TH": "th-TH",
	"VN": "vi-VN",
	"ID": "id-ID",
	"MY": "ms-MY",
	"KH": "km-KH", "LA": "lo-LA", "MM": "my-MM", "MN": "mn-MN",
	"IL": "he-IL",
	"IR": "fa-IR", "AF": "fa-AF",
	"TR": "tr-TR",
	"GE": "ka-GE", "AM": "hy-AM", "AZ": "az-AZ",
	"KZ": "kk-KZ", "UZ": "uz-UZ", "KG": "ky-KG",

	"ET": "am-ET", "TZ": "sw-TZ",
}

// ForCountry maps an ISO 3166-1 country code to a language tag. Unknown
// or empty codes return ok=false so callers fall through to the next
// resolution step rather than defaulting to English.
func ForCountry(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", false
	}
	tag, ok := countryToLanguage[code]
	return tag, ok
}

// DetectFromTitle runs a script heuristic over a title's original text,
// returning an ISO 639-1 code or empty when no telling script appears.
// Only scripts that identify a language unambiguously are reported;
// Latin text stays unknown.
func DetectFromTitle(title string) string {
	var han, kana, hangul, cyrillic, arabic, hebrew, thai, greek bool
	for _, r := range title {
		switch {
		case unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r):
			kana = true
		case unicode.Is(unicode.Han, r):
			han = true
		case unicode.Is(unicode.Hangul, r):
			hangul = true
		case unicode.Is(unicode.Cyrillic, r):
			cyrillic = true
		case unicode.Is(unicode.Arabic, r):
			arabic = true
		case unicode.Is(unicode.Hebrew, r):
			hebrew = true
		case unicode.Is(unicode.Thai, r):
			thai = true
		case unicode.Is(unicode.Greek, r):
			greek = true
		}
	}
	switch {
	// Kana outranks Han: Japanese titles mix both scripts.
	case kana:
		return "ja"
	case hangul:
		return "ko"
	case han:
		return "zh"
	case cyrillic:
		return "ru"
	case arabic:
		return "ar"
	case hebrew:
		return "he"
	case thai:
		return "th"
	case greek:
		return "el"
	default:
		return ""
	}
}

// NormalizeList deduplicates a list of language tags by primary subtag,
// preserving first-seen order. Used when merging preferred-language lists
// from configuration.
func NormalizeList(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	normalized := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		primary := Primary(tag)
		if primary == "" {
			continue
		}
		if _, ok := seen[primary]; ok {
			continue
		}
		seen[primary] = struct{}{}
		normalized = append(normalized, primary)
	}
	return normalized
}
