package config

import (
	"fmt"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

var RedisClient *redis.Client

// InitApp builds the gin engine with CORS, connects the backing stores and
// returns the websocket hub and cron scheduler for the caller to wire up.
func InitApp() (*gin.Engine, *melody.Melody, *cron.Cron, error) {
	router := gin.Default()

	configCors := cors.DefaultConfig()
	configCors.AddAllowHeaders("Authorization")
	configCors.AllowCredentials = true
	configCors.AllowAllOrigins = false
	configCors.AllowOriginFunc = func(origin string) bool {
		return true
	}
	router.Use(cors.New(configCors))

	router.SetTrustedProxies(nil)

	if err := initComponents(); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize components: %v", err)
	}

	m := melody.New()
	c := cron.New()

	return router, m, c, nil
}

func initComponents() error {
	LoadEnv()

	ConnectDB()

	if err := MigrateDB(DB); err != nil {
		return fmt.Errorf("failed to migrate schema: %v", err)
	}

	var err error
	RedisClient, err = ConnectRedis()
	if err != nil {
		// Redis only backs caching and per-minute limits; the API still
		// works without it.
		log.Printf("Warning: redis unavailable, continuing without cache: %v", err)
		RedisClient = nil
	}

	if err := ConnectCloudinary(); err != nil {
		log.Printf("Warning: cloudinary unavailable, avatar uploads disabled: %v", err)
	}

	log.Println("All components initialized successfully")
	return nil
}

func InitWebSocket(router *gin.Engine, m *melody.Melody) {
	router.GET("/ws", func(c *gin.Context) {
		m.HandleRequest(c.Writer, c.Request)
	})
	log.Println("WebSocket initialized successfully")
}
