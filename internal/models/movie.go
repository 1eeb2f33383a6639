package models

import (
	"time"
)

// Movie is the single persisted entity: one row per movie on the personal list.
// Title, year, description and img_url are fixed at ingestion time; rating and
// review come from the user, ranking is recomputed on every list view.
type Movie struct {
	ID          uint     `gorm:"primaryKey" json:"id" example:"1"`
	Title       string   `gorm:"uniqueIndex;not null;size:250" json:"title" example:"Phone Booth"`
	Year        int      `gorm:"not null" json:"year" example:"2002"`
	Description string   `gorm:"type:text;not null" json:"description"`
	Rating      *float64 `gorm:"index" json:"rating,omitempty" example:"7.3"`
	Ranking     *int     `json:"ranking,omitempty" example:"1"`
	Review      string   `gorm:"size:250" json:"review,omitempty"`
	ImgURL      string   `gorm:"not null;size:250" json:"img_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Movie) TableName() string {
	return "movies"
}

// RankingUpdate is one (id, ranking) pair computed by the ranking engine and
// applied in a single bulk transaction.
type RankingUpdate struct {
	MovieID uint
	Ranking int
}

// TMDBSearchResult is one candidate from the TMDB search endpoint. The shape is
// owned by TMDB; fields beyond these are ignored, none are validated here.
type TMDBSearchResult struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
	PosterPath  string `json:"poster_path"`
	Overview    string `json:"overview"`
}

type TMDBSearchResponse struct {
	Page         int                `json:"page"`
	Results      []TMDBSearchResult `json:"results"`
	TotalPages   int                `json:"total_pages"`
	TotalResults int                `json:"total_results"`
}

// TMDBMovieDetail holds the detail-by-id response. Pointer fields distinguish
// an absent field from an empty one so malformed responses can be rejected.
type TMDBMovieDetail struct {
	Title       *string `json:"title"`
	ReleaseDate *string `json:"release_date"`
	PosterPath  *string `json:"poster_path"`
	Overview    *string `json:"overview"`
}
