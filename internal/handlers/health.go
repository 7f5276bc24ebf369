package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hyunwoo-kim/naver-shopping-collector/internal/database"
)

// HealthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API and its database
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func HealthCheck(db *database.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbStatus := "connected"
		if err := db.Ping(); err != nil {
			dbStatus = "disconnected"
		}

		return c.JSON(fiber.Map{
			"status":   "healthy",
			"database": dbStatus,
		})
	}
}

// APIRoot godoc
// @Summary API root info
// @Tags root
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api [get]
func APIRoot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Naver Shopping API Collector",
		"version": "1.0.0",
	})
}
