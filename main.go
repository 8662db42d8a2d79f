package main

import (
	"log"
	"net/http"

	"codereview/config"
	"codereview/controllers"
	"codereview/jobs"
	"codereview/routes"
	"codereview/services"
	"codereview/services/notification"
	"codereview/validator"

	"github.com/gin-gonic/gin"
)

func main() {
	router, m, c, err := config.InitApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := validator.RegisterCustomValidations(); err != nil {
		log.Fatalf("Failed to register validations: %v", err)
	}

	notifier := notification.NewMelodyService(m)
	controllers.SetNotifier(notifier)
	controllers.SetAnalyzer(services.NewOpenAIAnalyzer())

	digest := services.NewDigestService(services.DigestServiceOptions{
		DB:       config.DB,
		Notifier: notifier,
	})
	jobs.SetDigestRunner(digest)
	if err := jobs.InitCronJobs(c); err != nil {
		log.Fatalf("Failed to start cron jobs: %v", err)
	}

	config.InitWebSocket(router, m)
	routes.SetupRoutes(router, config.RedisClient)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	port := config.GetEnvDefault("PORT", "8080")
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}
