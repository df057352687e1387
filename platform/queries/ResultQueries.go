package queries

import (
	"github.com/go-pg/pg/v10"

	"github.com/DedS3t/monopoly-engine/app/models"
)

// SaveGameResult records a finished game. A nil db means persistence is
// disabled and the result is dropped.
func SaveGameResult(result *models.GameResult, db *pg.DB) error {
	if db == nil {
		return nil
	}
	_, err := db.Model(result).Insert()
	return err
}

// RecentResults returns the latest finished games, newest first.
func RecentResults(limit int, db *pg.DB) ([]models.GameResult, error) {
	if db == nil {
		return []models.GameResult{}, nil
	}
	var results []models.GameResult
	err := db.Model(&results).Order("finished_at DESC").Limit(limit).Select()
	if err != nil {
		return nil, err
	}
	return results, nil
}
