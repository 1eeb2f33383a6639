package repository

import (
	"context"
	"errors"
	"time"

	"movie-tracker/internal/database"
	"movie-tracker/internal/models"

	"gorm.io/gorm"
)

type MovieRepository interface {
	Create(ctx context.Context, movie *models.Movie) error
	FindByID(ctx context.Context, id uint) (*models.Movie, error)
	Delete(ctx context.Context, id uint) error
	// FindAllByRating returns every movie ordered ascending by rating with
	// unrated movies first, the order the ranking engine expects.
	FindAllByRating(ctx context.Context) ([]models.Movie, error)
	UpdateRating(ctx context.Context, id uint, rating float64, review string) error
	// BulkUpdateRankings applies the computed rankings in one transaction.
	BulkUpdateRankings(ctx context.Context, updates []models.RankingUpdate) error
}

type movieRepository struct {
	db      *database.Database
	timeout time.Duration
}

func NewMovieRepository(db *database.Database) MovieRepository {
	return &movieRepository{
		db:      db,
		timeout: db.GetQueryTimeout(),
	}
}

func (r *movieRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *movieRepository) Create(ctx context.Context, movie *models.Movie) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := r.db.WithContext(ctx).Create(movie).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateTitle
	}
	return err
}

func (r *movieRepository) FindByID(ctx context.Context, id uint) (*models.Movie, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var movie models.Movie
	err := r.db.WithContext(ctx).First(&movie, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &movie, nil
}

func (r *movieRepository) Delete(ctx context.Context, id uint) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result := r.db.WithContext(ctx).Delete(&models.Movie{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *movieRepository) FindAllByRating(ctx context.Context) ([]models.Movie, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var movies []models.Movie
	// NULLS FIRST is sqlite's ascending default but not postgres', so it is
	// spelled out to keep the ranking order identical on both drivers.
	err := r.db.WithContext(ctx).Order("rating ASC NULLS FIRST").Find(&movies).Error
	return movies, err
}

func (r *movieRepository) UpdateRating(ctx context.Context, id uint, rating float64, review string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result := r.db.WithContext(ctx).Model(&models.Movie{}).Where("id = ?", id).Updates(map[string]interface{}{
		"rating": rating,
		"review": review,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *movieRepository) BulkUpdateRankings(ctx context.Context, updates []models.RankingUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			if err := tx.Model(&models.Movie{}).Where("id = ?", u.MovieID).Update("ranking", u.Ranking).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
