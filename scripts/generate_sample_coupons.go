//go:build ignore

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// generateSampleCoupons writes a seed file the coupon importer can load,
// either from local disk or after uploading to the seed bucket.
func main() {
	dataDir := "data"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	nextYear := time.Now().AddDate(1, 0, 0).UTC().Truncate(24 * time.Hour)

	seeds := []map[string]any{
		{
			"code":          "SAVE10",
			"discountType":  "percentage",
			"discountValue": 10,
			"minPurchase":   500,
			"expiresAt":     nextYear.Format(time.RFC3339),
			"isActive":      true,
		},
		{
			"code":          "FLAT150",
			"discountType":  "fixed",
			"discountValue": 150,
			"minPurchase":   1000,
			"expiresAt":     nextYear.Format(time.RFC3339),
			"isActive":      true,
		},
		{
			"code":          "WELCOME20",
			"discountType":  "percentage",
			"discountValue": 20,
			"minPurchase":   2000,
			"expiresAt":     nextYear.Format(time.RFC3339),
			"isActive":      true,
		},
		{
			"code":          "EXPIRED5",
			"discountType":  "percentage",
			"discountValue": 5,
			"minPurchase":   0,
			"expiresAt":     time.Now().AddDate(0, -1, 0).UTC().Format(time.RFC3339),
			"isActive":      true,
		},
	}

	payload, err := json.MarshalIndent(seeds, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal seeds: %v", err)
	}

	filePath := filepath.Join(dataDir, "coupons.json")
	if err := os.WriteFile(filePath, payload, 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", filePath, err)
	}

	fmt.Printf("Created %s with %d coupons\n", filePath, len(seeds))
	fmt.Println("\nLoad it locally with COUPON_SEED_ENABLED=true COUPON_SEED_FILE_PATH=data/coupons.json,")
	fmt.Println("or upload to the seed bucket and set COUPON_SEED_S3_BUCKET / COUPON_SEED_S3_KEY.")
}
