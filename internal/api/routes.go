package api

import (
	"net/http"

	"alcyxob/interval-trainer/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	workoutService service.WorkoutService,
	sessionService service.SessionService,
) {
	authHandler := NewAuthHandler(authService)
	workoutHandler := NewWorkoutHandler(workoutService)
	sessionHandler := NewSessionHandler(sessionService)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(jwtSecret))
	{
		protected.GET("/me", func(c *gin.Context) {
			userID, ok := userIDFromContext(c)
			if !ok {
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": userID.Hex()})
		})

		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.POST("", workoutHandler.CreateWorkout)
			workoutGroup.GET("", workoutHandler.GetWorkouts)
			workoutGroup.GET("/:id", workoutHandler.GetWorkout)
			workoutGroup.GET("/:id/plan", workoutHandler.GetPlan)
		}

		// One live run per user.
		runGroup := protected.Group("/run")
		{
			runGroup.POST("", sessionHandler.StartRun)
			runGroup.GET("", sessionHandler.GetRun)
			runGroup.DELETE("", sessionHandler.DiscardRun)
			runGroup.POST("/:action", sessionHandler.ControlRun)
		}

		sessionGroup := protected.Group("/sessions")
		{
			sessionGroup.GET("", sessionHandler.GetSessions)
			sessionGroup.GET("/:id", sessionHandler.GetSession)
			sessionGroup.POST("/:id/feedback", sessionHandler.SubmitFeedback)
			sessionGroup.POST("/:id/export", sessionHandler.ExportSession)
		}
	}
}
