package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"movie-tracker/internal/config"
	"movie-tracker/internal/models"

	"github.com/sirupsen/logrus"
)

// TMDB endpoints are fixed, only the API key comes from configuration.
const (
	tmdbSearchURL    = "https://api.themoviedb.org/3/search/movie"
	tmdbDetailURL    = "https://api.themoviedb.org/3/movie"
	tmdbImageBaseURL = "https://image.tmdb.org/t/p/w300"
)

// CatalogClient is the read-only view of the external movie catalog used by
// the ingestion workflow.
type CatalogClient interface {
	SearchByTitle(ctx context.Context, title string) ([]models.TMDBSearchResult, error)
	GetDetailsByID(ctx context.Context, externalID int) (*models.TMDBMovieDetail, error)
}

type tmdbClient struct {
	apiKey     string
	searchURL  string
	detailURL  string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewCatalogClient(cfg config.TMDBConfig, logger *logrus.Logger) CatalogClient {
	return &tmdbClient{
		apiKey:    cfg.APIKey,
		searchURL: tmdbSearchURL,
		detailURL: tmdbDetailURL,
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		logger: logger,
	}
}

func (c *tmdbClient) SearchByTitle(ctx context.Context, title string) ([]models.TMDBSearchResult, error) {
	reqURL := fmt.Sprintf("%s?api_key=%s&query=%s", c.searchURL, url.QueryEscape(c.apiKey), url.QueryEscape(title))

	var searchResponse models.TMDBSearchResponse
	if err := c.getJSON(ctx, reqURL, &searchResponse); err != nil {
		return nil, err
	}

	// TMDB always sends "results" (possibly empty); a nil slice means the key
	// was absent and the payload is not the shape we were promised.
	if searchResponse.Results == nil {
		return nil, fmt.Errorf("%w: search response has no results key", ErrExternalService)
	}

	c.logger.WithFields(logrus.Fields{
		"query":   title,
		"results": len(searchResponse.Results),
	}).Debug("TMDB search completed")

	return searchResponse.Results, nil
}

func (c *tmdbClient) GetDetailsByID(ctx context.Context, externalID int) (*models.TMDBMovieDetail, error) {
	reqURL := fmt.Sprintf("%s/%d?api_key=%s&language=en-US", c.detailURL, externalID, url.QueryEscape(c.apiKey))

	var detail models.TMDBMovieDetail
	if err := c.getJSON(ctx, reqURL, &detail); err != nil {
		return nil, err
	}

	return &detail, nil
}

func (c *tmdbClient) getJSON(ctx context.Context, reqURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrExternalService, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExternalService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status %d: %s", ErrExternalService, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrExternalService, err)
	}

	return nil
}
