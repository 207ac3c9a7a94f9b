package summary

import (
	"context"

	"gorm.io/gorm"
)

// LoadLedgerRows returns one row per account that has a budget in fiscalYear, with the year's
// realizations summed and the remaining budget computed by the query.
func LoadLedgerRows(ctx context.Context, db *gorm.DB, fiscalYear int) ([]LedgerRow, error) {
	query := `
		SELECT
			p.code AS program_code,
			p.name AS program_name,
			act.code AS activity_code,
			act.name AS activity_name,
			acc.code AS account_code,
			acc.name AS account_name,
			b.amount AS budget_amount,
			COALESCE(SUM(r.amount), 0) AS total_realization,
			b.amount - COALESCE(SUM(r.amount), 0) AS remaining_budget
		FROM budgets b
		JOIN accounts acc ON acc.id = b.account_id
		JOIN activities act ON act.id = acc.activity_id
		JOIN programs p ON p.id = act.program_id
		LEFT JOIN realizations r ON r.budget_id = b.id
		WHERE b.fiscal_year = ?
		GROUP BY p.code, p.name, act.code, act.name, acc.code, acc.name, b.id, b.amount
		ORDER BY p.code, act.code, acc.code
	`

	var rows []LedgerRow
	if err := db.WithContext(ctx).Raw(query, fiscalYear).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
