package media

import "testing"

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"movie":      KindMovie,
		"Movie":      KindMovie,
		"tv":         KindTV,
		"series":     KindTV,
		"season":     KindSeason,
		"collection": KindCollection,
		"boxset":     KindCollection,
	}
	for input, want := range cases {
		got, ok := ParseKind(input)
		if !ok {
			t.Fatalf("ParseKind(%q) not ok", input)
		}
		if got != want {
			t.Errorf("ParseKind(%q) = %q, want %q", input, got, want)
		}
	}
	if _, ok := ParseKind("episode"); ok {
		t.Error("ParseKind should reject unsupported kinds")
	}
}

func TestIDsPrimary(t *testing.T) {
	if got := (IDs{TMDB: "550", IMDB: "tt0137523"}).Primary(); got != "550" {
		t.Errorf("expected tmdb id preferred, got %q", got)
	}
	if got := (IDs{IMDB: "tt0137523", TVDB: "81189"}).Primary(); got != "tt0137523" {
		t.Errorf("expected imdb fallback, got %q", got)
	}
	if got := (IDs{TVDB: "81189"}).Primary(); got != "81189" {
		t.Errorf("expected tvdb fallback, got %q", got)
	}
	if !(IDs{}).Empty() {
		t.Error("empty IDs should report Empty")
	}
	if (IDs{TMDB: " 550 "}).Empty() {
		t.Error("IDs with tmdb id should not report Empty")
	}
}

func TestCacheKeys(t *testing.T) {
	if got := CacheKey(KindMovie, "550"); got != "movie_550" {
		t.Errorf("movie key = %q", got)
	}
	if got := SeasonCacheKey("1396", 1); got != "tv_1396_S1" {
		t.Errorf("season key = %q", got)
	}

	season := Item{Kind: KindSeason, SeasonNumber: 2, SeriesIDs: IDs{TMDB: "1396"}}
	if got := season.CacheKey(); got != "tv_1396_S2" {
		t.Errorf("season item key = %q", got)
	}
	if got := season.DetailsKind(); got != KindTV {
		t.Errorf("season details kind = %q", got)
	}
	if got := season.DetailsIDs().Primary(); got != "1396" {
		t.Errorf("season details id = %q", got)
	}

	show := Item{Kind: KindTV, IDs: IDs{TMDB: "1396"}}
	if got := show.CacheKey(); got != "tv_1396" {
		t.Errorf("tv item key = %q", got)
	}
}
