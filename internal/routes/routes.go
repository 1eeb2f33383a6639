package routes

import (
	"movie-tracker/internal/handlers"

	"github.com/gofiber/fiber/v2"
)

func Setup(app *fiber.App, webHandler *handlers.WebHandler) {
	app.Get("/", webHandler.Home)
	app.Get("/add", webHandler.AddForm)
	app.Post("/add", webHandler.AddSubmit)
	app.Get("/find", webHandler.Find)
	app.Get("/edit", webHandler.EditForm)
	app.Post("/edit", webHandler.EditSubmit)
	app.Get("/delete", webHandler.Delete)
}
