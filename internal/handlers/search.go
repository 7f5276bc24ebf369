package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hyunwoo-kim/naver-shopping-collector/internal/database"
	"github.com/hyunwoo-kim/naver-shopping-collector/internal/services"
	"github.com/hyunwoo-kim/naver-shopping-collector/internal/storage"
)

// SearchHandler serves the faceted listing endpoints.
type SearchHandler struct {
	products *services.ProductService
}

func NewSearchHandler(products *services.ProductService) *SearchHandler {
	return &SearchHandler{products: products}
}

func SetupSearchRoutes(router fiber.Router, db *database.DB) {
	products := services.NewProductService(storage.NewProductStore(db), storage.NewUsageStore(db))
	h := NewSearchHandler(products)
	h.Register(router)
}

func (h *SearchHandler) Register(router fiber.Router) {
	router.Get("/brands", h.Brands)
	router.Get("/categories", h.Categories)
	router.Get("/malls", h.Malls)
	router.Get("/tags", h.Tags)
}

// Brands godoc
// @Summary Most frequent brands among stored products
// @Tags search
// @Produce json
// @Success 200 {array} string
// @Router /search/brands [get]
func (h *SearchHandler) Brands(c *fiber.Ctx) error {
	brands, err := h.products.Brands(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(brands)
}

// Categories godoc
// @Summary Most frequent first-level categories
// @Tags search
// @Produce json
// @Success 200 {array} string
// @Router /search/categories [get]
func (h *SearchHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.products.Categories(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(categories)
}

// Malls godoc
// @Summary Most frequent mall names
// @Tags search
// @Produce json
// @Success 200 {array} string
// @Router /search/malls [get]
func (h *SearchHandler) Malls(c *fiber.Ctx) error {
	malls, err := h.products.Malls(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(malls)
}

// Tags godoc
// @Summary Most frequent tags
// @Tags search
// @Produce json
// @Success 200 {array} string
// @Router /search/tags [get]
func (h *SearchHandler) Tags(c *fiber.Ctx) error {
	tags, err := h.products.Tags(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(tags)
}
