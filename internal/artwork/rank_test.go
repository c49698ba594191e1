package artwork

import (
	"testing"
)

func TestOriginalLanguageFirstPrefersMatchingTag(t *testing.T) {
	candidates := []Candidate{
		{Kind: KindPoster, Path: "/en.jpg", Language: "en", VoteAverage: 6.0},
		{Kind: KindPoster, Path: "/ja.jpg", Language: "ja", VoteAverage: 5.0},
		{Kind: KindPoster, Path: "/null.jpg", Language: "", VoteAverage: 7.0},
	}

	ranked := Rank(candidates, "ja", OriginalLanguageFirst)
	// ja: 5+20=25, untagged: 7+10=17, en: 6+0=6
	want := []string{"/ja.jpg", "/null.jpg", "/en.jpg"}
	for i, path := range want {
		if ranked[i].Path != path {
			t.Fatalf("rank[%d] = %q, want %q (full order %v)", i, ranked[i].Path, path, ranked)
		}
	}
}

func TestNoTextPosterFirstPrefersUntagged(t *testing.T) {
	candidates := []Candidate{
		{Kind: KindPoster, Path: "/fr.jpg", Language: "fr", VoteAverage: 9.0},
		{Kind: KindPoster, Path: "/en.jpg", Language: "en", VoteAverage: 7.0},
		{Kind: KindPoster, Path: "/null.jpg", Language: "", VoteAverage: 8.0},
	}

	ranked := Rank(candidates, "en", NoTextPosterFirst)
	// untagged: 8+20=28, en: 7+10=17, fr: 9+0=9
	want := []string{"/null.jpg", "/en.jpg", "/fr.jpg"}
	for i, path := range want {
		if ranked[i].Path != path {
			t.Fatalf("rank[%d] = %q, want %q", i, ranked[i].Path, path)
		}
	}
}

func TestHighestRatingFirstIgnoresLanguage(t *testing.T) {
	candidates := []Candidate{
		{Kind: KindPoster, Path: "/ja.jpg", Language: "ja", VoteAverage: 6.0},
		{Kind: KindPoster, Path: "/en.jpg", Language: "en", VoteAverage: 8.0},
	}

	ranked := Rank(candidates, "ja", HighestRatingFirst)
	if ranked[0].Path != "/en.jpg" {
		t.Fatalf("rating order violated: %v", ranked)
	}
}

func TestRegionalVariantsMatchByPrimarySubtag(t *testing.T) {
	candidates := []Candidate{
		{Kind: KindPoster, Path: "/tw.jpg", Language: "zh-TW", VoteAverage: 5.0},
		{Kind: KindPoster, Path: "/en.jpg", Language: "en", VoteAverage: 9.0},
	}

	ranked := Rank(candidates, "zh-CN", OriginalLanguageFirst)
	if ranked[0].Path != "/tw.jpg" {
		t.Fatalf("zh-TW should match zh-CN target: %v", ranked)
	}
}

func TestTieBreakByVoteCountIsDeterministic(t *testing.T) {
	candidates := []Candidate{
		{Kind: KindPoster, Path: "/few.jpg", Language: "en", VoteAverage: 7.0, VoteCount: 10},
		{Kind: KindPoster, Path: "/many.jpg", Language: "en", VoteAverage: 7.0, VoteCount: 500},
		{Kind: KindPoster, Path: "/same-a.jpg", Language: "en", VoteAverage: 7.0, VoteCount: 10},
	}

	for i := 0; i < 5; i++ {
		ranked := Rank(candidates, "en", OriginalLanguageFirst)
		if ranked[0].Path != "/many.jpg" {
			t.Fatalf("vote count tie-break violated: %v", ranked)
		}
		// Equal score and count preserves input order.
		if ranked[1].Path != "/few.jpg" || ranked[2].Path != "/same-a.jpg" {
			t.Fatalf("stable order violated: %v", ranked)
		}
	}
}

func TestEmptyPathsAreDropped(t *testing.T) {
	candidates := []Candidate{
		{Kind: KindPoster, Path: "", Language: "en", VoteAverage: 9.0},
		{Kind: KindPoster, Path: "/real.jpg", Language: "en", VoteAverage: 1.0},
	}

	ranked := Rank(candidates, "en", HighestRatingFirst)
	if len(ranked) != 1 || ranked[0].Path != "/real.jpg" {
		t.Fatalf("empty path should be dropped: %v", ranked)
	}
}

func TestParseStrategy(t *testing.T) {
	if ParseStrategy("Original-Language-First") != OriginalLanguageFirst {
		t.Error("case-insensitive parse failed")
	}
	if ParseStrategy("whatever") != HighestRatingFirst {
		t.Error("unknown strategy should degrade to rating order")
	}
	if ParseStrategy("") != HighestRatingFirst {
		t.Error("empty strategy should degrade to rating order")
	}
}

func TestDisplayLanguage(t *testing.T) {
	if got := DisplayLanguage("en", "ja", "ko"); got != "en" {
		t.Errorf("preferred should win, got %q", got)
	}
	if got := DisplayLanguage("", "ja", "ko"); got != "ja" {
		t.Errorf("candidate tag should win over original, got %q", got)
	}
	if got := DisplayLanguage("", "", "ko"); got != "ko" {
		t.Errorf("original language fallback failed, got %q", got)
	}
}
