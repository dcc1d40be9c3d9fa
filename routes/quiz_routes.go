package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/quizsecure/quizsecure/handlers"
	"github.com/quizsecure/quizsecure/middleware"
)

func QuizRoutes(app *fiber.App) {
	api := app.Group("/api")

	quizzes := api.Group("/quizzes", middleware.Protected())
	quizzes.Post("/create", middleware.TeacherRequired(), handlers.CreateQuiz)
	quizzes.Get("/all", handlers.ListQuizzes)
	quizzes.Post("/redeem/:paperCode", handlers.RedeemCode)
	quizzes.Get("/take/:paperCode", handlers.TakeQuiz)
	quizzes.Post("/submit", handlers.SubmitQuiz)
	quizzes.Get("/result/:quizId", handlers.GetResult)
	quizzes.Post("/flags/:submissionId", handlers.ReportFlag)
	quizzes.Get("/certificates", handlers.ListCertificates)

	questions := quizzes.Group("/questions")
	questions.Post("/create/:paperCode", handlers.CreateQuestion)
	questions.Get("/:paperCode", handlers.ListQuestions)
	questions.Put("/:paperCode/:questionId", handlers.UpdateQuestion)
	questions.Delete("/:paperCode/:questionId", handlers.DeleteQuestion)
}
