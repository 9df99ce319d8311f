package main

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/jykim/modacloset-backend/config"
	"github.com/jykim/modacloset-backend/internal/app/model"
	"github.com/jykim/modacloset-backend/internal/app/repository"
	"github.com/jykim/modacloset-backend/internal/db"
	"github.com/lib/pq"
	"github.com/xuri/excelize/v2"
)

var skuPattern = regexp.MustCompile(`^[A-Z0-9-]{3,30}$`)

func main() {
	// 명령줄 인자 확인
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	// 설정 로드
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// DB 연결
	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	// Repository 생성
	productRepo := repository.NewProductRepository(db.GetDB())

	// XLSX 파일 읽기
	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, err := readProductsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total products to import: %d\n", len(products))

	// 사용자 확인
	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	// 배치로 저장
	batchSize := 500
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := productRepo.BulkCreate(products, batchSize); err != nil {
		log.Fatal("Failed to bulk create products:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d\n", len(products))
}

// readProductsFromXLSX 상품 카탈로그 xlsx 파싱
// 컬럼: SKU | 상품명 | 가격 | 카테고리 | 이미지URL | 설명 | 재고 | 색상(쉼표구분) | 사이즈(쉼표구분)
func readProductsFromXLSX(filePath string) ([]model.Product, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	// 첫 번째 시트 이름 가져오기
	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	// 모든 행 읽기
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var products []model.Product
	seenSKUs := make(map[string]bool) // 중복 제거용
	skippedCount := 0

	// 첫 행은 헤더이므로 스킵
	for i, row := range rows {
		if i == 0 {
			// 헤더 출력 (디버깅용)
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		// 필수 컬럼 수 확인 (최소 SKU/상품명/가격/카테고리)
		if len(row) < 4 {
			skippedCount++
			continue
		}

		sku := strings.ToUpper(strings.TrimSpace(row[0])) // SKU
		name := strings.TrimSpace(row[1])                 // 상품명
		priceStr := strings.TrimSpace(row[2])             // 가격
		category := strings.TrimSpace(row[3])             // 카테고리
		imageURL := cell(row, 4)                          // 이미지 URL
		description := cell(row, 5)                       // 설명
		stockStr := cell(row, 6)                          // 재고
		colorsStr := cell(row, 7)                         // 색상
		sizesStr := cell(row, 8)                          // 사이즈

		// 1. 기본 필수 항목 검사
		if sku == "" || name == "" || priceStr == "" || category == "" {
			skippedCount++
			continue
		}

		// 2. SKU 형식 검증
		if !skuPattern.MatchString(sku) {
			skippedCount++
			continue
		}

		// 3. 상품명 길이 검증
		if len([]rune(name)) > 100 {
			skippedCount++
			continue
		}

		// 4. 카테고리 검증
		if !model.IsValidCategory(model.ProductCategory(category)) {
			skippedCount++
			continue
		}

		// 5. 가격/재고 파싱
		price, err := strconv.ParseInt(priceStr, 10, 64)
		if err != nil || price < 0 {
			skippedCount++
			continue
		}

		stock := 0
		if stockStr != "" {
			stock, err = strconv.Atoi(stockStr)
			if err != nil || stock < 0 {
				skippedCount++
				continue
			}
		}

		// 중복 SKU 제거
		if seenSKUs[sku] {
			skippedCount++
			continue
		}
		seenSKUs[sku] = true

		product := model.Product{
			SKU:           sku,
			Name:          name,
			Price:         price,
			Category:      model.ProductCategory(category),
			ImageURL:      imageURL,
			Description:   description,
			IsActive:      true,
			StockQuantity: stock,
			Colors:        splitList(colorsStr),
			Sizes:         splitList(sizesStr),
		}

		products = append(products, product)

		// 진행 상황 출력 (500개마다)
		if len(products)%500 == 0 {
			fmt.Printf("Processed %d products...\n", len(products))
		}
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid products: %d\n", len(products))
	fmt.Printf("  Skipped rows: %d\n", skippedCount)

	return products, nil
}

// cell은 컬럼이 존재하면 trim한 값을, 없으면 빈 문자열을 반환합니다
func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// splitList는 쉼표 구분 문자열을 옵션 목록으로 변환합니다
func splitList(s string) pq.StringArray {
	if s == "" {
		return nil
	}

	var out pq.StringArray
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
