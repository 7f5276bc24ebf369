package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hyunwoo-kim/naver-shopping-collector/internal/config"
	"github.com/hyunwoo-kim/naver-shopping-collector/internal/database"
	"github.com/hyunwoo-kim/naver-shopping-collector/internal/services"
	"github.com/hyunwoo-kim/naver-shopping-collector/internal/storage"
)

var (
	validSorts    = map[string]bool{"sim": true, "date": true, "asc": true, "dsc": true}
	validExcludes = map[string]bool{"used": true, "rental": true, "cbshop": true}
)

type ProductHandler struct {
	collector  *services.Collector
	products   *services.ProductService
	defaultMax int
}

func NewProductHandler(collector *services.Collector, products *services.ProductService, defaultMax int) *ProductHandler {
	return &ProductHandler{
		collector:  collector,
		products:   products,
		defaultMax: defaultMax,
	}
}

func SetupProductRoutes(router fiber.Router, db *database.DB, cfg *config.Config) {
	productStore := storage.NewProductStore(db)
	historyStore := storage.NewHistoryStore(db)
	usageStore := storage.NewUsageStore(db)

	naver := services.NewNaverClient(cfg, usageStore)
	collector := services.NewCollector(naver, productStore, historyStore)
	products := services.NewProductService(productStore, usageStore)

	h := NewProductHandler(collector, products, cfg.DefaultDisplay)

	h.Register(router)
}

// Register wires the product routes. The stats routes are registered
// before /:product_id so the literal segments are not captured by the
// path parameter.
func (h *ProductHandler) Register(router fiber.Router) {
	router.Post("/collect", h.Collect)
	router.Get("/search", h.Search)
	router.Get("/stats/summary", h.Stats)
	router.Get("/stats/api-usage", h.APIUsage)
	router.Get("/", h.List)
	router.Get("/:product_id", h.Get)
	router.Delete("/:product_id", h.Delete)
}

// Collect godoc
// @Summary Collect products from the Naver shopping API
// @Tags products
// @Accept json
// @Produce json
// @Param query query string true "Search keyword"
// @Param max_results query int false "Maximum items to collect (1-1000)"
// @Param sort query string false "Sort option (sim, date, asc, dsc)"
// @Param filter query string false "naverpay: Naver Pay linked items only"
// @Param exclude query string false "Colon-joined exclusions (used, rental, cbshop)"
// @Success 200 {object} map[string]interface{}
// @Router /products/collect [post]
func (h *ProductHandler) Collect(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		return &services.ValidationError{Field: "query", Message: "required"}
	}

	maxResults := c.QueryInt("max_results", h.defaultMax)
	if maxResults < 1 || maxResults > 1000 {
		return &services.ValidationError{Field: "max_results", Message: "must be between 1 and 1000"}
	}

	sort := c.Query("sort", "sim")
	if !validSorts[sort] {
		return &services.ValidationError{Field: "sort", Message: "must be one of sim, date, asc, dsc"}
	}

	opts := services.SearchOptions{}
	if filter := c.Query("filter"); filter != "" {
		if filter != "naverpay" {
			return &services.ValidationError{Field: "filter", Message: "must be naverpay"}
		}
		opts.Filter = filter
	}
	if exclude := c.Query("exclude"); exclude != "" {
		for _, token := range strings.Split(exclude, ":") {
			if !validExcludes[token] {
				return &services.ValidationError{Field: "exclude", Message: "tokens must be used, rental or cbshop"}
			}
			opts.Exclude = append(opts.Exclude, token)
		}
	}

	result, err := h.collector.Collect(c.UserContext(), query, maxResults, sort, opts)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"status":           "success",
		"query":            query,
		"total_collected":  result.TotalCollected,
		"new_products":     result.NewCount,
		"updated_products": result.UpdatedCount,
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
	})
}

// Search godoc
// @Summary Search stored products
// @Tags products
// @Accept json
// @Produce json
// @Param keyword query string false "Matches title, brand, maker or tags"
// @Param category1 query string false "First-level category (exact match)"
// @Param mall_name query string false "Mall name (substring match)"
// @Param min_price query int false "Minimum lprice"
// @Param max_price query int false "Maximum lprice"
// @Param limit query int false "Page size (1-500)"
// @Param skip query int false "Offset"
// @Success 200 {array} models.Product
// @Router /products/search [get]
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	minPrice, err := optionalIntQuery(c, "min_price")
	if err != nil {
		return err
	}
	maxPrice, err := optionalIntQuery(c, "max_price")
	if err != nil {
		return err
	}

	params := services.SearchParams{
		Keyword:   c.Query("keyword"),
		Category1: c.Query("category1"),
		MallName:  c.Query("mall_name"),
		MinPrice:  minPrice,
		MaxPrice:  maxPrice,
		Limit:     c.QueryInt("limit", 50),
		Skip:      c.QueryInt("skip", 0),
	}

	products, err := h.products.Search(c.UserContext(), params)
	if err != nil {
		return err
	}

	return c.JSON(products)
}

// List godoc
// @Summary List stored products (paginated)
// @Tags products
// @Produce json
// @Param limit query int false "Page size (1-500)"
// @Param skip query int false "Offset"
// @Success 200 {array} models.Product
// @Router /products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.products.List(c.UserContext(), c.QueryInt("limit", 50), c.QueryInt("skip", 0))
	if err != nil {
		return err
	}
	return c.JSON(products)
}

// Get godoc
// @Summary Get one product by its Naver product id
// @Tags products
// @Produce json
// @Param product_id path string true "Product ID"
// @Success 200 {object} models.Product
// @Router /products/{product_id} [get]
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	product, err := h.products.Get(c.UserContext(), c.Params("product_id"))
	if err != nil {
		return err
	}
	return c.JSON(product)
}

// Delete godoc
// @Summary Delete one product by its Naver product id
// @Tags products
// @Produce json
// @Param product_id path string true "Product ID"
// @Success 200 {object} map[string]string
// @Router /products/{product_id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	productID := c.Params("product_id")
	if err := h.products.Delete(c.UserContext(), productID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": fmt.Sprintf("product %s deleted", productID),
	})
}

// Stats godoc
// @Summary Stored product statistics
// @Tags products
// @Produce json
// @Success 200 {object} services.StatsSummary
// @Router /products/stats/summary [get]
func (h *ProductHandler) Stats(c *fiber.Ctx) error {
	summary, err := h.products.StatsSummary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

// APIUsage godoc
// @Summary Today's Naver API quota usage
// @Tags products
// @Produce json
// @Success 200 {object} services.APIUsageReport
// @Router /products/stats/api-usage [get]
func (h *ProductHandler) APIUsage(c *fiber.Ctx) error {
	report, err := h.products.APIUsageToday(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(report)
}

func optionalIntQuery(c *fiber.Ctx, key string) (*int, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return nil, &services.ValidationError{Field: key, Message: "must be a non-negative integer"}
	}
	return &value, nil
}
