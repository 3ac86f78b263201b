package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"field-kart/internal/scheme"
)

// generateSampleSchemes writes a gzipped JSON scheme catalog that exercises
// every rule type, for running the API with CATALOG_SOURCE=file.
func main() {
	dataDir := "data/schemes"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	rules := []scheme.PromotionRule{
		{
			ID:                 "SCH001",
			Name:               "Monsoon Cola Offer",
			Description:        "10% off Cola when buying 5 or more",
			Type:               "percentage",
			TargetProductID:    "P001",
			DiscountPercentage: 10,
			ConditionQuantity:  5,
			StartDate:          &start,
			EndDate:            &end,
		},
		{
			ID:             "SCH002",
			Name:           "Festival Flat 150",
			Description:    "Flat 150 off on orders above 800",
			Type:           "flat",
			DiscountAmount: 150,
			MinOrderValue:  800,
		},
		{
			ID:              "SCH003",
			Name:            "Buy 3 Get 1 Free Soap",
			Type:            "buyXGetYFree",
			TargetProductID: "P010",
			BuyQuantity:     3,
			FreeQuantity:    1,
			FreeProductID:   "P010",
			FreeProductName: "Soap Bar",
		},
		{
			ID:                 "SCH004",
			Name:               "Snack Bundle",
			Type:               "bundle",
			TargetProductID:    "P020",
			DiscountPercentage: 15,
			ConditionQuantity:  6,
		},
		{
			ID:                    "SCH005",
			Name:                  "Bulk Tier 20",
			Type:                  "tiered",
			TargetProductID:       "P030",
			DiscountPercentage:    20,
			ConditionQuantity:     12,
			QuantityConditionType: "gte",
		},
	}

	path := filepath.Join(dataDir, "catalog.json.gz")
	if err := writeCatalog(path, rules); err != nil {
		log.Fatalf("Failed to create %s: %v", path, err)
	}

	fmt.Printf("Created %s with %d schemes\n", path, len(rules))
}

func writeCatalog(path string, rules []scheme.PromotionRule) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	doc := struct {
		Schemes []scheme.PromotionRule `json:"schemes"`
	}{Schemes: rules}

	if err := json.NewEncoder(gzipWriter).Encode(doc); err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}

	return nil
}
