package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"movie-tracker/internal/models"
	"movie-tracker/internal/repository"
	"movie-tracker/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/sirupsen/logrus"
)

type stubService struct {
	movies    []models.Movie
	listErr   error
	results   []models.TMDBSearchResult
	searchErr error
	ingested  *models.Movie
	ingestErr error
	movie     *models.Movie
	getErr    error
	rateErr   error
	deleteErr error
}

func (s *stubService) ListRanked(context.Context) ([]models.Movie, error) {
	return s.movies, s.listErr
}

func (s *stubService) SearchCatalog(context.Context, string) ([]models.TMDBSearchResult, error) {
	return s.results, s.searchErr
}

func (s *stubService) IngestFromCatalog(context.Context, int) (*models.Movie, error) {
	return s.ingested, s.ingestErr
}

func (s *stubService) GetMovie(context.Context, uint) (*models.Movie, error) {
	return s.movie, s.getErr
}

func (s *stubService) RateMovie(context.Context, uint, string, string) error {
	return s.rateErr
}

func (s *stubService) DeleteMovie(context.Context, uint) error {
	return s.deleteErr
}

func newTestApp(svc services.MovieService) *fiber.App {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	app := fiber.New(fiber.Config{
		Views: html.New("../../views", ".html"),
	})

	h := NewWebHandler(svc, log)
	app.Get("/", h.Home)
	app.Get("/add", h.AddForm)
	app.Post("/add", h.AddSubmit)
	app.Get("/find", h.Find)
	app.Get("/edit", h.EditForm)
	app.Post("/edit", h.EditSubmit)
	app.Get("/delete", h.Delete)

	return app
}

func doRequest(t *testing.T, app *fiber.App, method, target string, form url.Values) (*http.Response, string) {
	t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func TestHomeRendersRankedList(t *testing.T) {
	ranking := 1
	rating := 7.3
	svc := &stubService{movies: []models.Movie{{
		ID: 1, Title: "Phone Booth", Year: 2002, Description: "trapped in a booth",
		Rating: &rating, Ranking: &ranking, ImgURL: "https://image.tmdb.org/t/p/w300/x.jpg",
	}}}

	resp, body := doRequest(t, newTestApp(svc), http.MethodGet, "/", nil)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(body, "Phone Booth") {
		t.Error("list does not show the movie title")
	}
	if !strings.Contains(body, "1. Phone Booth (2002)") {
		t.Error("list does not show the ranking")
	}
}

func TestAddSubmitEmptyTitleReRendersForm(t *testing.T) {
	resp, body := doRequest(t, newTestApp(&stubService{}), http.MethodPost, "/add", url.Values{"title": {"  "}})

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(body, "Title is required") {
		t.Error("missing inline validation error")
	}
}

func TestAddSubmitRendersCandidates(t *testing.T) {
	svc := &stubService{results: []models.TMDBSearchResult{
		{ID: 1920, Title: "Phone Booth", ReleaseDate: "2002-03-14"},
	}}

	resp, body := doRequest(t, newTestApp(svc), http.MethodPost, "/add", url.Values{"title": {"Phone Booth"}})

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(body, "/find?id=1920") {
		t.Error("selection list does not link the candidate's external id")
	}
}

func TestAddSubmitCatalogDownStaysOnTitleForm(t *testing.T) {
	svc := &stubService{searchErr: services.ErrExternalService}

	resp, body := doRequest(t, newTestApp(svc), http.MethodPost, "/add", url.Values{"title": {"Phone Booth"}})

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(body, "catalog is unavailable") {
		t.Error("catalog failure not surfaced on the title form")
	}
}

func TestFindRedirectsToEdit(t *testing.T) {
	svc := &stubService{ingested: &models.Movie{ID: 7, Title: "Phone Booth"}}

	resp, _ := doRequest(t, newTestApp(svc), http.MethodGet, "/find?id=1920", nil)

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status = %d, want 302", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/edit?id=7" {
		t.Errorf("Location = %q, want /edit?id=7", loc)
	}
}

func TestFindDuplicateTitleIsConflict(t *testing.T) {
	svc := &stubService{ingestErr: repository.ErrDuplicateTitle}

	resp, body := doRequest(t, newTestApp(svc), http.MethodGet, "/find?id=1920", nil)

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}
	if !strings.Contains(body, "already on your list") {
		t.Error("conflict page does not explain the duplicate")
	}
}

func TestFindCatalogFailureIsBadGateway(t *testing.T) {
	for name, err := range map[string]error{
		"transport": services.ErrExternalService,
		"malformed": &services.MalformedResponseError{Field: "overview"},
	} {
		svc := &stubService{ingestErr: err}
		resp, _ := doRequest(t, newTestApp(svc), http.MethodGet, "/find?id=1920", nil)
		if resp.StatusCode != http.StatusBadGateway {
			t.Errorf("%s: status = %d, want 502", name, resp.StatusCode)
		}
	}
}

func TestFindInvalidIDIsBadRequest(t *testing.T) {
	resp, _ := doRequest(t, newTestApp(&stubService{}), http.MethodGet, "/find?id=abc", nil)

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestEditFormPrefillsRating(t *testing.T) {
	rating := 7.3
	svc := &stubService{movie: &models.Movie{ID: 7, Title: "Phone Booth", Year: 2002, Rating: &rating, Review: "great"}}

	resp, body := doRequest(t, newTestApp(svc), http.MethodGet, "/edit?id=7", nil)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(body, `value="7.3"`) {
		t.Error("rating not pre-filled")
	}
	if !strings.Contains(body, `value="great"`) {
		t.Error("review not pre-filled")
	}
}

func TestEditUnknownMovieIs404(t *testing.T) {
	svc := &stubService{getErr: repository.ErrNotFound}

	resp, _ := doRequest(t, newTestApp(svc), http.MethodGet, "/edit?id=42", nil)

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestEditSubmitRedirectsHome(t *testing.T) {
	svc := &stubService{movie: &models.Movie{ID: 7, Title: "Phone Booth"}}

	resp, _ := doRequest(t, newTestApp(svc), http.MethodPost, "/edit?id=7",
		url.Values{"rating": {"7.3"}, "review": {"My favourite character was the caller."}})

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status = %d, want 302", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want /", loc)
	}
}

func TestEditSubmitInvalidRatingReRendersForm(t *testing.T) {
	svc := &stubService{
		movie:   &models.Movie{ID: 7, Title: "Phone Booth"},
		rateErr: &services.InvalidRatingError{Value: "seven"},
	}

	resp, body := doRequest(t, newTestApp(svc), http.MethodPost, "/edit?id=7", url.Values{"rating": {"seven"}})

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(body, "Rating must be a number") {
		t.Error("missing inline rating error")
	}
}

func TestDeleteRedirectsHome(t *testing.T) {
	resp, _ := doRequest(t, newTestApp(&stubService{}), http.MethodGet, "/delete?id=7", nil)

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status = %d, want 302", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want /", loc)
	}
}

func TestDeleteUnknownMovieIs404(t *testing.T) {
	svc := &stubService{deleteErr: repository.ErrNotFound}

	resp, _ := doRequest(t, newTestApp(svc), http.MethodGet, "/delete?id=42", nil)

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}
