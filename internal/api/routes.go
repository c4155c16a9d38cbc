package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)
	auth.Get("/profile", handler.AuthRequired, handler.GetProfile)
	auth.Patch("/profile", handler.AuthRequired, handler.UpdateProfile)
	auth.Delete("/account", handler.AuthRequired, handler.DeleteAccount)

	reminders := api.Group("/reminders", handler.AuthRequired)
	reminders.Get("", handler.ListReminders)
	reminders.Post("", handler.CreateReminder)
	reminders.Get("/today", handler.QueryReminders)
	reminders.Get("/notices", handler.ReminderNotices)
	reminders.Patch("/:id/slots/:slot", handler.UpdateReminderSlot)
	reminders.Post("/:id/slots/:slot/toggle", handler.ToggleReminderSlot)
	reminders.Delete("/:id", handler.DeleteReminder)

	donors := api.Group("/donors", handler.AuthRequired)
	donors.Get("", handler.FindDonors)

	records := api.Group("/records", handler.AuthRequired)
	records.Get("", handler.ListRecords)
	records.Post("", handler.CreateRecord)
	records.Get("/:id", handler.GetRecord)
	records.Delete("/:id", handler.DeleteRecord)

	recycle := api.Group("/recycle", handler.AuthRequired)
	recycle.Get("", handler.ListListings)
	recycle.Post("", handler.CreateListing)
	recycle.Delete("/:id", handler.DeleteListing)

	exercises := api.Group("/exercises", handler.AuthRequired)
	exercises.Get("", handler.ListExercises)

	analysisGroup := api.Group("/analysis", handler.AuthRequired)
	analysisGroup.Post("/report", handler.AnalyzeReport)
	analysisGroup.Post("/summary", handler.SummarizeAnalysis)
}
