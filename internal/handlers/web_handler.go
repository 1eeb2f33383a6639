package handlers

import (
	"errors"
	"strconv"

	"movie-tracker/internal/models"
	"movie-tracker/internal/repository"
	"movie-tracker/internal/services"
	"movie-tracker/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type WebHandler struct {
	service services.MovieService
	logger  *logrus.Logger
}

func NewWebHandler(service services.MovieService, logger *logrus.Logger) *WebHandler {
	return &WebHandler{
		service: service,
		logger:  logger,
	}
}

// Home renders the ranked list. Rankings are recomputed and persisted on
// every view.
func (h *WebHandler) Home(c *fiber.Ctx) error {
	movies, err := h.service.ListRanked(c.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list movies")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load movie list")
	}

	return c.Render("index", fiber.Map{
		"Movies": movies,
	})
}

// AddForm renders the title-entry form.
func (h *WebHandler) AddForm(c *fiber.Ctx) error {
	return c.Render("add", fiber.Map{
		"Form":      AddMovieForm{},
		"Errors":    map[string]string{},
		"CSRFToken": c.Locals("csrf"),
	})
}

// AddSubmit validates the submitted title and renders the candidate
// selection list. On a catalog failure the workflow stays on the title form
// with the error surfaced; nothing is persisted.
func (h *WebHandler) AddSubmit(c *fiber.Ctx) error {
	var form AddMovieForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid form submission")
	}

	if result := form.Validate(); !result.OK() {
		return c.Render("add", fiber.Map{
			"Form":      form,
			"Errors":    result.Errors,
			"CSRFToken": c.Locals("csrf"),
		})
	}

	options, err := h.service.SearchCatalog(c.Context(), form.Title)
	if err != nil {
		h.logger.WithError(err).WithField("title", form.Title).Error("Catalog search failed")
		return c.Render("add", fiber.Map{
			"Form":        form,
			"Errors":      map[string]string{},
			"ServiceDown": true,
			"CSRFToken":   c.Locals("csrf"),
		})
	}

	return c.Render("select", fiber.Map{
		"Query":   form.Title,
		"Options": options,
	})
}

// Find ingests the selected catalog movie and redirects to the rating form.
func (h *WebHandler) Find(c *fiber.Ctx) error {
	externalID, err := strconv.Atoi(c.Query("id"))
	if err != nil {
		return utils.RenderError(c, fiber.StatusBadRequest, "Invalid movie selection")
	}

	movie, err := h.service.IngestFromCatalog(c.Context(), externalID)
	if err != nil {
		return h.renderIngestError(c, externalID, err)
	}

	return c.Redirect("/edit?id=" + strconv.FormatUint(uint64(movie.ID), 10))
}

func (h *WebHandler) renderIngestError(c *fiber.Ctx, externalID int, err error) error {
	log := h.logger.WithError(err).WithField("external_id", externalID)

	var malformed *services.MalformedResponseError
	switch {
	case errors.Is(err, repository.ErrDuplicateTitle):
		log.Warn("Duplicate movie rejected")
		return utils.RenderError(c, fiber.StatusConflict, "That movie is already on your list")
	case errors.As(err, &malformed):
		log.Error("Malformed catalog response")
		return utils.RenderError(c, fiber.StatusBadGateway, "The movie catalog returned an unusable response")
	case errors.Is(err, services.ErrExternalService):
		log.Error("Catalog request failed")
		return utils.RenderError(c, fiber.StatusBadGateway, "The movie catalog is unavailable right now")
	default:
		log.Error("Failed to ingest movie")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to add movie")
	}
}

// EditForm renders the rating form pre-filled from the stored movie.
func (h *WebHandler) EditForm(c *fiber.Ctx) error {
	movie, err := h.loadMovieParam(c)
	if err != nil {
		return h.renderMovieError(c, err)
	}

	form := RateMovieForm{Review: movie.Review}
	if movie.Rating != nil {
		form.Rating = strconv.FormatFloat(*movie.Rating, 'f', -1, 64)
	}

	return c.Render("edit", fiber.Map{
		"Movie":     movie,
		"Form":      form,
		"Errors":    map[string]string{},
		"CSRFToken": c.Locals("csrf"),
	})
}

// EditSubmit persists the rating and review, then hands control back to the
// list view.
func (h *WebHandler) EditSubmit(c *fiber.Ctx) error {
	movie, err := h.loadMovieParam(c)
	if err != nil {
		return h.renderMovieError(c, err)
	}

	var form RateMovieForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid form submission")
	}

	if result := form.Validate(); !result.OK() {
		return c.Render("edit", fiber.Map{
			"Movie":     movie,
			"Form":      form,
			"Errors":    result.Errors,
			"CSRFToken": c.Locals("csrf"),
		})
	}

	if err := h.service.RateMovie(c.Context(), movie.ID, form.Rating, form.Review); err != nil {
		var invalid *services.InvalidRatingError
		if errors.As(err, &invalid) {
			return c.Render("edit", fiber.Map{
				"Movie":     movie,
				"Form":      form,
				"Errors":    map[string]string{"rating": "Rating must be a number, e.g. 7.5"},
				"CSRFToken": c.Locals("csrf"),
			})
		}
		if errors.Is(err, repository.ErrNotFound) {
			return utils.RenderError(c, fiber.StatusNotFound, "Movie not found")
		}
		h.logger.WithError(err).WithField("id", movie.ID).Error("Failed to rate movie")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to save rating")
	}

	return c.Redirect("/")
}

// Delete removes a movie and redirects to the list.
func (h *WebHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Query("id"), 10, 32)
	if err != nil {
		return utils.RenderError(c, fiber.StatusBadRequest, "Invalid movie ID")
	}

	if err := h.service.DeleteMovie(c.Context(), uint(id)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.RenderError(c, fiber.StatusNotFound, "Movie not found")
		}
		h.logger.WithError(err).WithField("id", id).Error("Failed to delete movie")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to delete movie")
	}

	return c.Redirect("/")
}

// errInvalidID marks an unparseable id query parameter.
var errInvalidID = errors.New("invalid movie id")

func (h *WebHandler) loadMovieParam(c *fiber.Ctx) (*models.Movie, error) {
	id, err := strconv.ParseUint(c.Query("id"), 10, 32)
	if err != nil {
		return nil, errInvalidID
	}

	return h.service.GetMovie(c.Context(), uint(id))
}

func (h *WebHandler) renderMovieError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, errInvalidID):
		return utils.RenderError(c, fiber.StatusBadRequest, "Invalid movie ID")
	case errors.Is(err, repository.ErrNotFound):
		return utils.RenderError(c, fiber.StatusNotFound, "Movie not found")
	default:
		h.logger.WithError(err).Error("Failed to load movie")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load movie")
	}
}
