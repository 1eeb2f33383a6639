package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"movie-tracker/internal/models"
	"movie-tracker/internal/repository"

	"github.com/sirupsen/logrus"
)

type MovieService interface {
	// ListRanked returns every movie ordered ascending by rating with fresh
	// rankings assigned and persisted. Runs on every list view.
	ListRanked(ctx context.Context) ([]models.Movie, error)
	// SearchCatalog returns the catalog candidates for a title.
	SearchCatalog(ctx context.Context, title string) ([]models.TMDBSearchResult, error)
	// IngestFromCatalog fetches the detail record for a selected catalog id
	// and persists a new movie built from it.
	IngestFromCatalog(ctx context.Context, externalID int) (*models.Movie, error)
	GetMovie(ctx context.Context, id uint) (*models.Movie, error)
	// RateMovie parses and persists a submitted rating and review.
	RateMovie(ctx context.Context, id uint, rating, review string) error
	DeleteMovie(ctx context.Context, id uint) error
}

type movieService struct {
	repo    repository.MovieRepository
	catalog CatalogClient
	archive *PosterArchiveService
	logger  *logrus.Logger
}

// NewMovieService wires the workflows. archive may be nil, in which case
// poster images are hotlinked from the catalog CDN.
func NewMovieService(repo repository.MovieRepository, catalog CatalogClient, archive *PosterArchiveService, logger *logrus.Logger) MovieService {
	return &movieService{
		repo:    repo,
		catalog: catalog,
		archive: archive,
		logger:  logger,
	}
}

func (s *movieService) ListRanked(ctx context.Context) ([]models.Movie, error) {
	movies, err := s.repo.FindAllByRating(ctx)
	if err != nil {
		return nil, err
	}

	updates := ComputeRankings(movies)
	if err := s.repo.BulkUpdateRankings(ctx, updates); err != nil {
		return nil, err
	}

	for i := range movies {
		ranking := updates[i].Ranking
		movies[i].Ranking = &ranking
	}

	return movies, nil
}

func (s *movieService) SearchCatalog(ctx context.Context, title string) ([]models.TMDBSearchResult, error) {
	return s.catalog.SearchByTitle(ctx, title)
}

func (s *movieService) IngestFromCatalog(ctx context.Context, externalID int) (*models.Movie, error) {
	detail, err := s.catalog.GetDetailsByID(ctx, externalID)
	if err != nil {
		return nil, err
	}

	movie, err := movieFromDetail(detail)
	if err != nil {
		return nil, err
	}

	if s.archive != nil {
		archivedURL, err := s.archive.ArchivePoster(ctx, movie.Title, movie.ImgURL)
		if err != nil {
			s.logger.WithError(err).WithField("title", movie.Title).Warn("Poster archive failed, hotlinking catalog image")
		} else {
			movie.ImgURL = archivedURL
		}
	}

	// No duplicate pre-check: the unique index on title is the single source
	// of truth, so concurrent adds of the same title race at Create and the
	// loser gets ErrDuplicateTitle.
	if err := s.repo.Create(ctx, movie); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"id":          movie.ID,
		"title":       movie.Title,
		"external_id": externalID,
	}).Info("Movie ingested from catalog")

	return movie, nil
}

// movieFromDetail maps the four catalog fields onto a new movie. All four
// must be present; year is the release date up to the first dash.
func movieFromDetail(detail *models.TMDBMovieDetail) (*models.Movie, error) {
	switch {
	case detail.Title == nil:
		return nil, &MalformedResponseError{Field: "title"}
	case detail.ReleaseDate == nil:
		return nil, &MalformedResponseError{Field: "release_date"}
	case detail.PosterPath == nil:
		return nil, &MalformedResponseError{Field: "poster_path"}
	case detail.Overview == nil:
		return nil, &MalformedResponseError{Field: "overview"}
	}

	yearPart, _, _ := strings.Cut(*detail.ReleaseDate, "-")
	year, err := strconv.Atoi(yearPart)
	if err != nil {
		return nil, &MalformedResponseError{Field: "release_date"}
	}

	return &models.Movie{
		Title:       *detail.Title,
		Year:        year,
		Description: *detail.Overview,
		ImgURL:      tmdbImageBaseURL + *detail.PosterPath,
	}, nil
}

func (s *movieService) GetMovie(ctx context.Context, id uint) (*models.Movie, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *movieService) RateMovie(ctx context.Context, id uint, rating, review string) error {
	value, err := strconv.ParseFloat(strings.TrimSpace(rating), 64)
	if err != nil {
		return &InvalidRatingError{Value: rating, Err: err}
	}

	if err := s.repo.UpdateRating(ctx, id, value, review); err != nil {
		return fmt.Errorf("failed to update rating: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"id":     id,
		"rating": value,
	}).Info("Movie rated")

	return nil
}

func (s *movieService) DeleteMovie(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}
