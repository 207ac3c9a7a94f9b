package models_test

import (
	"context"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/portal_backend/models"
	"bitbucket.org/mmdatafocus/portal_backend/testutil"
	"bitbucket.org/mmdatafocus/portal_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *models.Store {
	t.Helper()
	db := testutil.OpenSQLite(t, "target")
	require.NoError(t, models.MigrateTable(db))
	return models.NewStore(db)
}

func TestStore_UserIDsByEmail(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	id, err := s.CreateUser(ctx, &models.User{Name: "Ayu", Email: "ayu@dinas.go.id", Password: "x", IsActive: utils.NewTrue()})
	require.NoError(t, err)
	require.NotZero(t, id)

	ids, err := s.UserIDsByEmail(ctx, []string{"ayu@dinas.go.id", "nobody@dinas.go.id", "ayu@dinas.go.id"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"ayu@dinas.go.id": id}, ids)
}

func TestStore_UniqueEmailRejectsSecondInsert(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.CreateUser(ctx, &models.User{Name: "Ayu", Email: "ayu@dinas.go.id", Password: "x"})
	require.NoError(t, err)
	_, err = s.CreateUser(ctx, &models.User{Name: "Ayu 2", Email: "ayu@dinas.go.id", Password: "y"})
	require.Error(t, err)
}

func TestStore_ReportIDsByKeyMatchesOnDay(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	userID, err := s.CreateUser(ctx, &models.User{Name: "Ayu", Email: "ayu@dinas.go.id", Password: "x"})
	require.NoError(t, err)
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	reportID, err := s.CreateDailyReport(ctx, &models.DailyReport{UserId: userID, ReportDate: day, Title: "Rapat", Status: models.ReportStatusDraft})
	require.NoError(t, err)

	ids, err := s.ReportIDsByKey(ctx, []models.ReportKey{
		{UserId: userID, ReportDate: "2024-03-05", Title: "Rapat"},
		{UserId: userID, ReportDate: "2024-03-06", Title: "Rapat"},
	})
	require.NoError(t, err)
	assert.Equal(t, reportID, ids[models.ReportKey{UserId: userID, ReportDate: "2024-03-05", Title: "Rapat"}])
	_, found := ids[models.ReportKey{UserId: userID, ReportDate: "2024-03-06", Title: "Rapat"}]
	assert.False(t, found)
}

func TestStore_ResolvesAccountsAndBudgetsByNaturalCodes(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	programID, err := s.CreateProgram(ctx, &models.Program{Code: "1.01", Name: "Pelayanan"})
	require.NoError(t, err)
	act1, err := s.CreateActivity(ctx, &models.Activity{ProgramId: programID, Code: "1.01.01", Name: "A"})
	require.NoError(t, err)
	act2, err := s.CreateActivity(ctx, &models.Activity{ProgramId: programID, Code: "1.01.02", Name: "B"})
	require.NoError(t, err)

	// Same account code under two activities.
	acc1, err := s.CreateAccount(ctx, &models.Account{ActivityId: act1, Code: "5.1.02", Name: "Barang"})
	require.NoError(t, err)
	acc2, err := s.CreateAccount(ctx, &models.Account{ActivityId: act2, Code: "5.1.02", Name: "Barang"})
	require.NoError(t, err)

	refs, err := s.AccountIDsByRef(ctx, []models.AccountRef{
		{ActivityCode: "1.01.01", AccountCode: "5.1.02"},
		{ActivityCode: "1.01.02", AccountCode: "5.1.02"},
		{ActivityCode: "1.01.03", AccountCode: "5.1.02"},
	})
	require.NoError(t, err)
	assert.Equal(t, map[models.AccountRef]int{
		{ActivityCode: "1.01.01", AccountCode: "5.1.02"}: acc1,
		{ActivityCode: "1.01.02", AccountCode: "5.1.02"}: acc2,
	}, refs)

	keys, err := s.AccountIDsByKey(ctx, []models.AccountKey{{ActivityId: act2, Code: "5.1.02"}})
	require.NoError(t, err)
	assert.Equal(t, acc2, keys[models.AccountKey{ActivityId: act2, Code: "5.1.02"}])

	budgetID, err := s.CreateBudget(ctx, &models.Budget{AccountId: acc2, FiscalYear: 2024, Amount: decimal.NewFromInt(750)})
	require.NoError(t, err)

	budgets, err := s.BudgetIDsByRef(ctx, []models.BudgetRef{
		{ActivityCode: "1.01.02", AccountCode: "5.1.02", FiscalYear: 2024},
		{ActivityCode: "1.01.02", AccountCode: "5.1.02", FiscalYear: 2025},
	})
	require.NoError(t, err)
	assert.Equal(t, map[models.BudgetRef]int{
		{ActivityCode: "1.01.02", AccountCode: "5.1.02", FiscalYear: 2024}: budgetID,
	}, budgets)

	realizationID, err := s.CreateRealization(ctx, &models.Realization{BudgetId: budgetID, Month: 3, Amount: decimal.NewFromInt(50)})
	require.NoError(t, err)
	realizations, err := s.RealizationIDsByKey(ctx, []models.RealizationKey{{BudgetId: budgetID, Month: 3}, {BudgetId: budgetID, Month: 4}})
	require.NoError(t, err)
	assert.Equal(t, map[models.RealizationKey]int{{BudgetId: budgetID, Month: 3}: realizationID}, realizations)
}

func TestStore_EmptyLookupsReturnEmptyMaps(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	ids, err := s.ProgramIDsByCode(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, ids)

	budgets, err := s.BudgetIDsByKey(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, budgets)
}

func TestParseUserRoleAndReportStatus(t *testing.T) {
	assert.Equal(t, models.UserRoleAdmin, models.ParseUserRole(" Administrator "))
	assert.Equal(t, models.UserRoleOperator, models.ParseUserRole("op"))
	assert.Equal(t, models.UserRoleStaff, models.ParseUserRole("pegawai"))

	assert.Equal(t, models.ReportStatusApproved, models.ParseReportStatus("Disetujui"))
	assert.Equal(t, models.ReportStatusSubmitted, models.ParseReportStatus("diajukan"))
	assert.Equal(t, models.ReportStatusDraft, models.ParseReportStatus(""))
}
