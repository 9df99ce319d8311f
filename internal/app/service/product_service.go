package service

import (
	"errors"
	"regexp"

	"github.com/jykim/modacloset-backend/internal/app/model"
	"github.com/jykim/modacloset-backend/internal/app/repository"
	"github.com/jykim/modacloset-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrProductInactive  = errors.New("product is not for sale")
	ErrInvalidSKU       = errors.New("invalid SKU format")
	ErrInvalidCategory  = errors.New("invalid product category")
	ErrSKUAlreadyExists = errors.New("SKU already exists")
)

// SKU: 대문자/숫자/하이픈, 3-30자
var skuPattern = regexp.MustCompile(`^[A-Z0-9-]{3,30}$`)

// CreateProductInput 상품 등록 입력 (IsActive nil이면 판매 중으로 등록)
type CreateProductInput struct {
	SKU           string
	Name          string
	Price         int64
	Category      model.ProductCategory
	ImageURL      string
	Description   string
	IsActive      *bool
	StockQuantity int
	Colors        []string
	Sizes         []string
}

// UpdateProductInput 상품 수정 입력 (nil 필드는 변경 없음)
type UpdateProductInput struct {
	Name          *string
	Price         *int64
	ImageURL      *string
	Description   *string
	IsActive      *bool
	StockQuantity *int
	Colors        []string
	Sizes         []string
}

type ProductService interface {
	CreateProduct(input CreateProductInput) (*model.Product, error)
	GetProductByID(productID uint) (*model.Product, error)
	GetProducts(filter repository.ProductFilter) ([]model.Product, int64, error)
	UpdateProduct(productID uint, input UpdateProductInput) (*model.Product, error)
	DeleteProduct(productID uint) error
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func (s *productService) CreateProduct(input CreateProductInput) (*model.Product, error) {
	logger.Info("Creating product", map[string]interface{}{
		"sku":      input.SKU,
		"name":     input.Name,
		"category": input.Category,
	})

	if !skuPattern.MatchString(input.SKU) {
		return nil, ErrInvalidSKU
	}
	if !model.IsValidCategory(input.Category) {
		return nil, ErrInvalidCategory
	}

	_, err := s.productRepo.FindBySKU(input.SKU)
	if err == nil {
		logger.Warn("Product creation failed: SKU already exists", map[string]interface{}{
			"sku": input.SKU,
		})
		return nil, ErrSKUAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	product := &model.Product{
		SKU:           input.SKU,
		Name:          input.Name,
		Price:         input.Price,
		Category:      input.Category,
		ImageURL:      input.ImageURL,
		Description:   input.Description,
		IsActive:      active,
		StockQuantity: input.StockQuantity,
		Colors:        input.Colors,
		Sizes:         input.Sizes,
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	logger.Info("Product created successfully", map[string]interface{}{
		"product_id": product.ID,
		"sku":        product.SKU,
	})
	return product, nil
}

func (s *productService) GetProductByID(productID uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) GetProducts(filter repository.ProductFilter) ([]model.Product, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.productRepo.FindWithFilter(filter)
}

func (s *productService) UpdateProduct(productID uint, input UpdateProductInput) (*model.Product, error) {
	logger.Info("Updating product", map[string]interface{}{
		"product_id": productID,
	})

	product, err := s.GetProductByID(productID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.ImageURL != nil {
		product.ImageURL = *input.ImageURL
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.StockQuantity != nil {
		product.StockQuantity = *input.StockQuantity
	}
	if input.Colors != nil {
		product.Colors = input.Colors
	}
	if input.Sizes != nil {
		product.Sizes = input.Sizes
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}

	logger.Info("Product updated successfully", map[string]interface{}{
		"product_id": product.ID,
	})
	return product, nil
}

func (s *productService) DeleteProduct(productID uint) error {
	logger.Info("Deleting product", map[string]interface{}{
		"product_id": productID,
	})

	if _, err := s.GetProductByID(productID); err != nil {
		return err
	}
	return s.productRepo.Delete(productID)
}
