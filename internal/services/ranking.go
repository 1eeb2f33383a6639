package services

import "movie-tracker/internal/models"

// ComputeRankings assigns display ranks to movies already sorted ascending by
// rating with unrated movies first. The last (highest rated) movie gets rank 1
// and unrated movies end up with the largest numbers. Pure function: the
// caller persists the result through BulkUpdateRankings.
func ComputeRankings(movies []models.Movie) []models.RankingUpdate {
	updates := make([]models.RankingUpdate, 0, len(movies))
	n := len(movies)
	for i := range movies {
		updates = append(updates, models.RankingUpdate{
			MovieID: movies[i].ID,
			Ranking: n - i,
		})
	}
	return updates
}
