package controllers

import (
	"time"

	"codereview/config"
	"codereview/models"
	"codereview/response"
	"codereview/services"
	"codereview/utils"

	"github.com/gin-gonic/gin"
)

const tagCacheTTL = 10 * time.Minute

// GetTags lists every tag, serving from redis when possible.
func GetTags(c *gin.Context) {
	if config.RedisClient != nil {
		var cached []models.Tag
		if err := services.GetFromRedis(config.Ctx, config.RedisClient, tagCacheKey, &cached); err == nil && cached != nil {
			response.Success(c, cached)
			return
		}
	}

	var tags []models.Tag
	if err := config.DB.Order("name ASC").Find(&tags).Error; err != nil {
		response.ServerError(c)
		return
	}
	if tags == nil {
		tags = make([]models.Tag, 0)
	}

	if config.RedisClient != nil {
		if err := services.SetToRedis(config.Ctx, config.RedisClient, tagCacheKey, tags, tagCacheTTL); err != nil {
			utils.LogError("Failed to cache tags: %v", err)
		}
	}

	response.Success(c, tags)
}

func invalidateTagCache() {
	if config.RedisClient == nil {
		return
	}
	if err := services.DeleteFromRedis(config.Ctx, config.RedisClient, tagCacheKey); err != nil {
		utils.LogError("Failed to invalidate tag cache: %v", err)
	}
}
