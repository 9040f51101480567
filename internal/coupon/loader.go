package coupon

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for local JSON seed files.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based coupon seed loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "coupon-loader").Logger(),
	}
}

// Load reads a JSON coupon seed file from local disk.
func (l *fileLoader) Load(ctx context.Context, filePath string) ([]SeedCoupon, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	l.logger.Info().Str("file", filePath).Msg("loading coupon seed file")

	raw, err := os.ReadFile(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to read coupon seed file")
		return nil, fmt.Errorf("failed to read coupon seed file %s: %w", filePath, err)
	}

	var coupons []SeedCoupon
	if err := json.Unmarshal(raw, &coupons); err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to parse coupon seed file")
		return nil, fmt.Errorf("failed to parse coupon seed file %s: %w", filePath, err)
	}

	l.logger.Info().
		Str("file", filePath).
		Int("coupons_loaded", len(coupons)).
		Msg("coupon seed file loaded")

	return coupons, nil
}
