package repository

import (
	"testing"

	"github.com/jykim/modacloset-backend/internal/app/model"
	"github.com/jykim/modacloset-backend/internal/db"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductTest(t *testing.T) (*gorm.DB, ProductRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	return testDB, NewProductRepository(testDB)
}

func TestProductRepository_Create(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := &model.Product{
		SKU:           "TOP-001",
		Name:          "오버핏 셔츠",
		Price:         45000,
		Category:      model.CategoryTop,
		IsActive:      true,
		StockQuantity: 20,
		Colors:        pq.StringArray{"white", "black"},
		Sizes:         pq.StringArray{"S", "M", "L"},
	}

	err := repo.Create(product)
	assert.NoError(t, err)
	assert.NotZero(t, product.ID)
}

func TestProductRepository_Create_DuplicateSKU(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	require.NoError(t, repo.Create(&model.Product{
		SKU: "TOP-001", Name: "셔츠", Price: 45000, Category: model.CategoryTop,
	}))

	err := repo.Create(&model.Product{
		SKU: "TOP-001", Name: "다른 셔츠", Price: 50000, Category: model.CategoryTop,
	})
	assert.Error(t, err)
}

func TestProductRepository_Create_InactivePersisted(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	// false가 컬럼 기본값에 밀려 true로 저장되면 안 된다
	product := &model.Product{
		SKU: "TOP-009", Name: "단종 셔츠", Price: 45000, Category: model.CategoryTop,
		IsActive: false,
	}
	require.NoError(t, repo.Create(product))

	found, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.False(t, found.IsActive)
}

func TestProductRepository_FindByID(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := &model.Product{
		SKU: "ACC-001", Name: "머플러", Price: 29000, Category: model.CategoryAcc,
		Colors: pq.StringArray{"beige"},
	}
	require.NoError(t, repo.Create(product))

	found, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, "머플러", found.Name)
	assert.Equal(t, pq.StringArray{"beige"}, found.Colors)

	_, err = repo.FindByID(999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProductRepository_FindWithFilter(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	products := []*model.Product{
		{SKU: "TOP-001", Name: "셔츠", Price: 45000, Category: model.CategoryTop, IsActive: true},
		{SKU: "TOP-002", Name: "니트 셔츠", Price: 55000, Category: model.CategoryTop, IsActive: false},
		{SKU: "OUT-001", Name: "코트", Price: 128000, Category: model.CategoryOuter, IsActive: true},
	}
	for _, p := range products {
		require.NoError(t, repo.Create(p))
	}

	// Category filter
	found, total, err := repo.FindWithFilter(ProductFilter{Category: model.CategoryTop, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, found, 2)

	// Keyword filter
	found, total, err = repo.FindWithFilter(ProductFilter{Keyword: "셔츠", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	// OnlyActive filter
	found, total, err = repo.FindWithFilter(ProductFilter{OnlyActive: true, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, p := range found {
		assert.True(t, p.IsActive)
	}
}

func TestProductRepository_Update(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := &model.Product{
		SKU: "BTM-001", Name: "슬랙스", Price: 59000, Category: model.CategoryBottom,
		IsActive: true, StockQuantity: 5,
	}
	require.NoError(t, repo.Create(product))

	product.Price = 49000
	product.StockQuantity = 3
	require.NoError(t, repo.Update(product))

	found, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(49000), found.Price)
	assert.Equal(t, 3, found.StockQuantity)
}

func TestProductRepository_Delete(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := &model.Product{
		SKU: "ACC-002", Name: "벨트", Price: 19000, Category: model.CategoryAcc,
	}
	require.NoError(t, repo.Create(product))

	require.NoError(t, repo.Delete(product.ID))

	_, err := repo.FindByID(product.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
