package store

import (
	"database/sql"
	"fmt"

	"github.com/baria-bot/baria/internal/models"
)

// scanReports drains a report result set. Shared by the SQLite and Postgres
// backends; both select columns in the same order.
func scanReports(rows *sql.Rows) ([]models.IntakeReport, error) {
	var reports []models.IntakeReport
	for rows.Next() {
		var r models.IntakeReport
		var gender string
		if err := rows.Scan(&r.ID, &r.UserID, &r.Name, &r.Age, &gender,
			&r.HeightCm, &r.WeightKg, &r.BMI, &r.Category, &r.Tier, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		r.Gender = models.Gender(gender)
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate report rows: %w", err)
	}
	return reports, nil
}
