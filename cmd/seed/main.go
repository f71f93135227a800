package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/brewtab/coffeehouse-backend/config"
	"github.com/brewtab/coffeehouse-backend/internal/app/model"
	"github.com/brewtab/coffeehouse-backend/internal/app/repository"
	"github.com/brewtab/coffeehouse-backend/internal/db"
)

// Imports a product catalog workbook. Expected columns:
// name, description, category, subcategory, base_price, sizes,
// preparation_time, calories, ingredients, allergens, tags, featured
//
// sizes packs size:price pairs, e.g. "small:3.50|medium:4.00|large:4.75".
// List columns (ingredients, allergens, tags) are comma separated.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	productRepo := repository.NewProductRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, skipped, err := readProductsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Products to import: %d (skipped %d rows)\n", len(products), skipped)

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	imported := 0
	for i := range products {
		if err := productRepo.Create(&products[i]); err != nil {
			fmt.Printf("Failed to import %q: %v\n", products[i].Name, err)
			continue
		}
		imported++
	}

	fmt.Printf("Import completed: %d of %d products\n", imported, len(products))
}

func readProductsFromXLSX(filePath string) ([]model.Product, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	var products []model.Product
	seen := make(map[string]bool)
	skipped := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}
		if len(row) < 5 {
			skipped++
			continue
		}

		name := strings.TrimSpace(cell(row, 0))
		description := strings.TrimSpace(cell(row, 1))
		category := model.ProductCategory(strings.TrimSpace(cell(row, 2)))
		subcategory := strings.TrimSpace(cell(row, 3))
		basePriceStr := strings.TrimSpace(cell(row, 4))
		sizesStr := strings.TrimSpace(cell(row, 5))
		prepStr := strings.TrimSpace(cell(row, 6))
		caloriesStr := strings.TrimSpace(cell(row, 7))
		ingredients := splitList(cell(row, 8))
		allergens := splitList(cell(row, 9))
		tags := splitList(cell(row, 10))
		featured := strings.EqualFold(strings.TrimSpace(cell(row, 11)), "yes")

		if name == "" || !category.IsValid() {
			skipped++
			continue
		}
		if seen[name] {
			skipped++
			continue
		}

		basePrice, err := strconv.ParseFloat(basePriceStr, 64)
		if err != nil || basePrice < 0 {
			skipped++
			continue
		}

		sizes, err := parseSizes(sizesStr)
		if err != nil {
			fmt.Printf("Row %d: %v, skipping\n", i+1, err)
			skipped++
			continue
		}
		if category.RequiresSizes() && len(sizes) == 0 {
			fmt.Printf("Row %d: %s needs at least one size, skipping\n", i+1, name)
			skipped++
			continue
		}
		if !category.RequiresSizes() && len(sizes) > 0 {
			fmt.Printf("Row %d: %s cannot carry sizes, skipping\n", i+1, name)
			skipped++
			continue
		}

		product := model.Product{
			Name:            name,
			Description:     description,
			Category:        category,
			Subcategory:     subcategory,
			BasePrice:       basePrice,
			Ingredients:     ingredients,
			Allergens:       allergens,
			Tags:            tags,
			IsAvailable:     true,
			IsFeatured:      featured,
			PreparationTime: 5,
			Sizes:           sizes,
		}
		if prep, err := strconv.Atoi(prepStr); err == nil && prep >= 1 {
			product.PreparationTime = prep
		}
		if calories, err := strconv.Atoi(caloriesStr); err == nil && calories >= 0 {
			product.Calories = calories
		}

		seen[name] = true
		products = append(products, product)
	}

	return products, skipped, nil
}

// parseSizes unpacks "small:3.50|large:4.75" into size rows.
func parseSizes(packed string) ([]model.ProductSize, error) {
	if packed == "" {
		return nil, nil
	}

	var sizes []model.ProductSize
	for _, pair := range strings.Split(packed, "|") {
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed size entry %q", pair)
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil || price < 0 {
			return nil, fmt.Errorf("bad price in size entry %q", pair)
		}
		sizes = append(sizes, model.ProductSize{
			Size:  strings.TrimSpace(parts[0]),
			Price: price,
		})
	}
	return sizes, nil
}

func splitList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// cell is a bounds-safe row accessor. excelize trims trailing empty cells.
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
