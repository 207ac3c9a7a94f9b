package legacy_test

import (
	"context"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/portal_backend/legacy"
	"bitbucket.org/mmdatafocus/portal_backend/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLegacyStore(t *testing.T, rows ...interface{}) *legacy.Store {
	t.Helper()
	db := testutil.OpenSQLite(t, "legacy", legacy.AllTables()...)
	for _, r := range rows {
		require.NoError(t, db.Create(r).Error)
	}
	return legacy.NewStore(db)
}

func TestStore_UsersNormalizesEmail(t *testing.T) {
	s := newLegacyStore(t,
		&legacy.Pegawai{ID: 1, Nama: "Ayu", Email: " Ayu@Dinas.GO.id ", Password: "x", Aktif: true},
	)

	users, err := s.Users(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "ayu@dinas.go.id", users[0].Email)
	assert.True(t, users[0].IsActive)
}

func TestStore_DailyReportsJoinParentAndDropClock(t *testing.T) {
	s := newLegacyStore(t,
		&legacy.Pegawai{ID: 1, Nama: "Ayu", Email: "ayu@dinas.go.id", Password: "x"},
		&legacy.LaporanHarian{ID: 1, PegawaiId: 1, Tanggal: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), Judul: "Apel pagi"},
		&legacy.LaporanHarian{ID: 2, PegawaiId: 42, Tanggal: time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC), Judul: "Orphan"},
	)

	reports, err := s.DailyReports(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "ayu@dinas.go.id", reports[0].UserEmail)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), reports[0].ReportDate)
	assert.Empty(t, reports[1].UserEmail)
}

func TestStore_BudgetChainExposesNaturalCodes(t *testing.T) {
	s := newLegacyStore(t,
		&legacy.ProgramRow{ID: 1, Kode: "1.01", Nama: "Pelayanan"},
		&legacy.Kegiatan{ID: 1, ProgramId: 1, Kode: " 1.01.01 ", Nama: "Administrasi"},
		&legacy.Rekening{ID: 1, KegiatanId: 1, Kode: "5.1.02", Nama: "Barang"},
		&legacy.Anggaran{ID: 1, RekeningId: 1, Tahun: 2024, Pagu: decimal.NewFromInt(1500)},
		&legacy.Anggaran{ID: 2, RekeningId: 7, Tahun: 2024, Pagu: decimal.NewFromInt(10)},
		&legacy.Realisasi{ID: 1, AnggaranId: 1, Bulan: 6, Jumlah: decimal.NewFromInt(300), Keterangan: "ATK"},
	)
	ctx := context.Background()

	activities, err := s.Activities(ctx)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, "1.01", activities[0].ProgramCode)
	assert.Equal(t, "1.01.01", activities[0].Code)

	budgets, err := s.Budgets(ctx)
	require.NoError(t, err)
	require.Len(t, budgets, 2)
	assert.Equal(t, "1.01.01", budgets[0].ActivityCode)
	assert.Equal(t, "5.1.02", budgets[0].AccountCode)
	assert.True(t, decimal.NewFromInt(1500).Equal(budgets[0].Amount))
	assert.Empty(t, budgets[1].AccountCode)

	realizations, err := s.Realizations(ctx)
	require.NoError(t, err)
	require.Len(t, realizations, 1)
	assert.Equal(t, 2024, realizations[0].FiscalYear)
	assert.Equal(t, 6, realizations[0].Month)
	assert.Equal(t, "ATK", realizations[0].Description)
}

func TestValidator_Records(t *testing.T) {
	v := legacy.NewValidator()

	assert.NoError(t, v.Struct(legacy.Budget{FiscalYear: 2024, Amount: decimal.NewFromInt(10)}))
	assert.Error(t, v.Struct(legacy.Budget{FiscalYear: 2024, Amount: decimal.NewFromInt(-1)}))
	assert.Error(t, v.Struct(legacy.Budget{FiscalYear: 1999, Amount: decimal.Zero}))

	assert.Error(t, v.Struct(legacy.Realization{Month: 13, Amount: decimal.Zero}))
	assert.Error(t, v.Struct(legacy.User{Name: "A", Email: "not-an-email", Password: "x"}))
	assert.Error(t, v.Struct(legacy.Assessment{Period: "2024-13", Service: 1, Integrity: 1, Commitment: 1, Discipline: 1, Teamwork: 1, Leadership: 1, Initiative: 1}))
	assert.NoError(t, v.Struct(legacy.Assessment{Period: "2024-12", Service: 5, Integrity: 1, Commitment: 1, Discipline: 1, Teamwork: 1, Leadership: 1, Initiative: 1}))
}
