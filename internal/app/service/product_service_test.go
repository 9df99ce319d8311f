package service

import (
	"testing"

	"github.com/jykim/modacloset-backend/internal/app/model"
	"github.com/jykim/modacloset-backend/internal/app/repository"
	"github.com/jykim/modacloset-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProductServiceTest(t *testing.T) ProductService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	productRepo := repository.NewProductRepository(testDB)
	return NewProductService(productRepo)
}

func TestProductService_CreateProduct_Success(t *testing.T) {
	productService := setupProductServiceTest(t)

	product, err := productService.CreateProduct(CreateProductInput{
		SKU:           "TOP-001",
		Name:          "오버핏 셔츠",
		Price:         45000,
		Category:      model.CategoryTop,
		StockQuantity: 20,
		Colors:        []string{"white", "black"},
		Sizes:         []string{"M", "L"},
	})
	require.NoError(t, err)
	assert.NotZero(t, product.ID)
	assert.True(t, product.IsActive)
}

func TestProductService_CreateProduct_InvalidSKU(t *testing.T) {
	productService := setupProductServiceTest(t)

	invalid := []string{"ab", "top-001", "TOP 001", "TOP_001", ""}
	for _, sku := range invalid {
		_, err := productService.CreateProduct(CreateProductInput{
			SKU: sku, Name: "셔츠", Price: 45000, Category: model.CategoryTop,
		})
		assert.ErrorIs(t, err, ErrInvalidSKU, sku)
	}
}

func TestProductService_CreateProduct_InvalidCategory(t *testing.T) {
	productService := setupProductServiceTest(t)

	_, err := productService.CreateProduct(CreateProductInput{
		SKU: "TOP-001", Name: "셔츠", Price: 45000, Category: "shoes",
	})
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestProductService_CreateProduct_DuplicateSKU(t *testing.T) {
	productService := setupProductServiceTest(t)

	_, err := productService.CreateProduct(CreateProductInput{
		SKU: "TOP-001", Name: "셔츠", Price: 45000, Category: model.CategoryTop,
	})
	require.NoError(t, err)

	_, err = productService.CreateProduct(CreateProductInput{
		SKU: "TOP-001", Name: "다른 셔츠", Price: 50000, Category: model.CategoryTop,
	})
	assert.ErrorIs(t, err, ErrSKUAlreadyExists)
}

func TestProductService_GetProductByID_NotFound(t *testing.T) {
	productService := setupProductServiceTest(t)

	_, err := productService.GetProductByID(999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_UpdateProduct_PartialFields(t *testing.T) {
	productService := setupProductServiceTest(t)

	product, err := productService.CreateProduct(CreateProductInput{
		SKU: "BTM-001", Name: "슬랙스", Price: 59000, Category: model.CategoryBottom,
		StockQuantity: 5,
	})
	require.NoError(t, err)

	newPrice := int64(49000)
	inactive := false
	updated, err := productService.UpdateProduct(product.ID, UpdateProductInput{
		Price:    &newPrice,
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, newPrice, updated.Price)
	assert.False(t, updated.IsActive)
	// Untouched fields keep their values
	assert.Equal(t, "슬랙스", updated.Name)
	assert.Equal(t, 5, updated.StockQuantity)
}

func TestProductService_CreateProduct_Inactive(t *testing.T) {
	productService := setupProductServiceTest(t)

	inactive := false
	product, err := productService.CreateProduct(CreateProductInput{
		SKU: "ACC-001", Name: "머플러", Price: 29000, Category: model.CategoryAcc,
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.False(t, product.IsActive)

	// 조회해도 비활성 상태가 유지되어야 한다
	found, err := productService.GetProductByID(product.ID)
	require.NoError(t, err)
	assert.False(t, found.IsActive)
}
