package similar

import (
	"math"
	"testing"
)

func TestBestMatchTypo(t *testing.T) {
	m, ok := Default().BestMatch("player_naem", []string{"player_name", "gold"})
	if !ok || m.Candidate != "player_name" {
		t.Fatalf("BestMatch = %+v, %v", m, ok)
	}
	if m.Score <= 0.9 {
		t.Fatalf("score = %f, want > 0.9", m.Score)
	}
}

func TestNoMatchForUnrelated(t *testing.T) {
	if m, ok := Default().BestMatch("completely_different", []string{"player_name"}); ok {
		t.Fatalf("unexpected match %+v", m)
	}
}

func TestFindSimilarMultiple(t *testing.T) {
	got := New(0.6).FindSimilar("player", []string{"player_name", "player_health", "enemy_name"})
	seen := map[string]bool{}
	for i, m := range got {
		seen[m.Candidate] = true
		if i > 0 && got[i-1].Score < m.Score {
			t.Fatalf("results not sorted: %+v", got)
		}
	}
	if !seen["player_name"] || !seen["player_health"] {
		t.Fatalf("FindSimilar = %+v", got)
	}
}

func TestThresholdFilters(t *testing.T) {
	if _, ok := New(0.95).BestMatch("naem", []string{"name"}); ok {
		t.Fatalf("strict matcher accepted naem/name")
	}
	if _, ok := New(0.8).BestMatch("naem", []string{"name"}); !ok {
		t.Fatalf("loose matcher rejected naem/name")
	}
}

func TestThresholdIsInclusive(t *testing.T) {
	s := Score("playr_name", "player_name")
	if _, ok := New(s).BestMatch("playr_name", []string{"player_name"}); !ok {
		t.Fatalf("score equal to threshold was rejected")
	}
	if _, ok := New(math.Nextafter(s, 2)).BestMatch("playr_name", []string{"player_name"}); ok {
		t.Fatalf("score below threshold was accepted")
	}
}

func TestEmptyCandidates(t *testing.T) {
	if _, ok := Default().BestMatch("x", nil); ok {
		t.Fatalf("match from empty candidate list")
	}
	if got := Default().FindSimilar("x", nil); len(got) != 0 {
		t.Fatalf("FindSimilar(nil) = %+v", got)
	}
}

func TestTiesKeepFirst(t *testing.T) {
	m, ok := New(0).BestMatch("ab", []string{"ax", "ay"})
	if !ok || m.Candidate != "ax" {
		t.Fatalf("tie resolved to %+v", m)
	}
}

func TestScoreCountsRunesNotBytes(t *testing.T) {
	wide := Score("名x前", "名前x")
	narrow := Score("acb", "abc")
	if math.Abs(wide-narrow) > 1e-9 {
		t.Fatalf("Score(名x前, 名前x) = %f, want %f like its ASCII analogue", wide, narrow)
	}
	if _, ok := Default().BestMatch("名x前", []string{"名前x"}); ok {
		t.Fatalf("multi-byte names passed the default threshold")
	}
	if m, ok := Default().BestMatch("имя_игрка", []string{"имя_игрока", "золото"}); !ok || m.Candidate != "имя_игрока" {
		t.Fatalf("BestMatch = %+v, %v", m, ok)
	}
}
