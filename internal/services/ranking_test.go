package services

import (
	"testing"

	"movie-tracker/internal/models"
)

func ratingPtr(v float64) *float64 {
	return &v
}

// Movies are passed the way the repository returns them: ascending by
// rating, unrated first.
func sortedMovies() []models.Movie {
	return []models.Movie{
		{ID: 4, Title: "Unrated"},
		{ID: 3, Title: "Low", Rating: ratingPtr(3.1)},
		{ID: 2, Title: "Mid", Rating: ratingPtr(7.3)},
		{ID: 1, Title: "Top", Rating: ratingPtr(9.9)},
	}
}

func TestComputeRankingsPermutation(t *testing.T) {
	movies := sortedMovies()
	updates := ComputeRankings(movies)

	if len(updates) != len(movies) {
		t.Fatalf("expected %d updates, got %d", len(movies), len(updates))
	}

	seen := make(map[int]bool)
	for _, u := range updates {
		if u.Ranking < 1 || u.Ranking > len(movies) {
			t.Errorf("ranking %d out of range 1..%d", u.Ranking, len(movies))
		}
		if seen[u.Ranking] {
			t.Errorf("ranking %d assigned twice", u.Ranking)
		}
		seen[u.Ranking] = true
	}
}

func TestComputeRankingsHighestRatedIsFirst(t *testing.T) {
	updates := ComputeRankings(sortedMovies())

	for _, u := range updates {
		if u.MovieID == 1 && u.Ranking != 1 {
			t.Errorf("highest rated movie got ranking %d, want 1", u.Ranking)
		}
	}
}

func TestComputeRankingsUnratedRankedLast(t *testing.T) {
	movies := sortedMovies()
	updates := ComputeRankings(movies)

	for _, u := range updates {
		if u.MovieID == 4 && u.Ranking != len(movies) {
			t.Errorf("unrated movie got ranking %d, want %d", u.Ranking, len(movies))
		}
	}
}

func TestComputeRankingsIdempotent(t *testing.T) {
	movies := sortedMovies()

	first := ComputeRankings(movies)
	second := ComputeRankings(movies)

	for i := range first {
		if first[i] != second[i] {
			t.Errorf("update %d changed between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestComputeRankingsEmpty(t *testing.T) {
	if updates := ComputeRankings(nil); len(updates) != 0 {
		t.Errorf("expected no updates for empty list, got %d", len(updates))
	}
}
