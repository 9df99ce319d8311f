package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jykim/modacloset-backend/internal/app/model"
	"github.com/jykim/modacloset-backend/internal/app/repository"
	"github.com/jykim/modacloset-backend/internal/app/service"
	apperrors "github.com/jykim/modacloset-backend/internal/errors"
	"github.com/jykim/modacloset-backend/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

type CreateProductRequest struct {
	SKU           string   `json:"sku" binding:"required"`
	Name          string   `json:"name" binding:"required,max=100"`
	Price         int64    `json:"price" binding:"required,gt=0"`
	Category      string   `json:"category" binding:"required"`
	ImageURL      string   `json:"image_url"`
	Description   string   `json:"description" binding:"max=1000"`
	IsActive      *bool    `json:"is_active"`
	StockQuantity int      `json:"stock_quantity" binding:"gte=0"`
	Colors        []string `json:"colors"`
	Sizes         []string `json:"sizes"`
}

type UpdateProductRequest struct {
	Name          *string  `json:"name" binding:"omitempty,max=100"`
	Price         *int64   `json:"price" binding:"omitempty,gt=0"`
	ImageURL      *string  `json:"image_url"`
	Description   *string  `json:"description" binding:"omitempty,max=1000"`
	IsActive      *bool    `json:"is_active"`
	StockQuantity *int     `json:"stock_quantity" binding:"omitempty,gte=0"`
	Colors        []string `json:"colors"`
	Sizes         []string `json:"sizes"`
}

// ListProducts returns the product catalog with filters
// GET /api/v1/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	filter := repository.ProductFilter{
		Category:   model.ProductCategory(c.Query("category")),
		Keyword:    c.Query("keyword"),
		OnlyActive: c.DefaultQuery("only_active", "true") == "true",
		Page:       page,
		Limit:      limit,
	}

	if filter.Category != "" && !model.IsValidCategory(filter.Category) {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "유효하지 않은 카테고리입니다")
		return
	}

	products, total, err := ctrl.productService.GetProducts(filter)
	if err != nil {
		log.Error("Failed to fetch products", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// GetProduct returns a single product
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "유효하지 않은 상품 ID입니다")
		return
	}

	product, err := ctrl.productService.GetProductByID(productID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "상품을 찾을 수 없습니다")
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": productID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// CreateProduct registers a new product (admin)
// POST /api/v1/admin/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create product request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	product, err := ctrl.productService.CreateProduct(service.CreateProductInput{
		SKU:           req.SKU,
		Name:          req.Name,
		Price:         req.Price,
		Category:      model.ProductCategory(req.Category),
		ImageURL:      req.ImageURL,
		Description:   req.Description,
		IsActive:      req.IsActive,
		StockQuantity: req.StockQuantity,
		Colors:        req.Colors,
		Sizes:         req.Sizes,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSKU):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "SKU 형식이 올바르지 않습니다")
		case errors.Is(err, service.ErrInvalidCategory):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "유효하지 않은 카테고리입니다")
		case errors.Is(err, service.ErrSKUAlreadyExists):
			apperrors.Conflict(c, apperrors.ProductSKUExists, "이미 존재하는 SKU입니다")
		default:
			log.Error("Failed to create product", err, map[string]interface{}{
				"sku": req.SKU,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create product")
		}
		return
	}

	log.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"sku":        product.SKU,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"product": product,
	})
}

// UpdateProduct updates product fields (admin)
// PATCH /api/v1/admin/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "유효하지 않은 상품 ID입니다")
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	product, err := ctrl.productService.UpdateProduct(productID, service.UpdateProductInput{
		Name:          req.Name,
		Price:         req.Price,
		ImageURL:      req.ImageURL,
		Description:   req.Description,
		IsActive:      req.IsActive,
		StockQuantity: req.StockQuantity,
		Colors:        req.Colors,
		Sizes:         req.Sizes,
	})
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "상품을 찾을 수 없습니다")
			return
		}
		log.Error("Failed to update product", err, map[string]interface{}{
			"product_id": productID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"product": product,
	})
}

// DeleteProduct removes a product (admin)
// DELETE /api/v1/admin/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "유효하지 않은 상품 ID입니다")
		return
	}

	if err := ctrl.productService.DeleteProduct(productID); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "상품을 찾을 수 없습니다")
			return
		}
		log.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": productID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted successfully",
	})
}

// parseIDParam parses a positive uint path parameter
func parseIDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id parameter")
	}
	return uint(id), nil
}
