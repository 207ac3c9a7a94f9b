package models

import (
	"context"

	"bitbucket.org/mmdatafocus/portal_backend/utils"
	"gorm.io/gorm"
)

// lookupChunk bounds the size of IN (...) lists sent to MySQL.
const lookupChunk = 500

// Store is the new portal database. Lookups are bulk and keyed by natural key so the importer
// can resolve a whole entity family in one pass.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

type idCode struct {
	ID   int
	Code string
}

func (s *Store) idsByColumn(ctx context.Context, model interface{}, column string, values []string) (map[string]int, error) {
	out := make(map[string]int, len(values))
	for _, part := range utils.Chunk(utils.UniqueSlice(values), lookupChunk) {
		var rows []idCode
		err := s.db.WithContext(ctx).Model(model).
			Select("id, " + column + " AS code").
			Where(column+" IN ?", part).
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			out[r.Code] = r.ID
		}
	}
	return out, nil
}

func (s *Store) UserIDsByEmail(ctx context.Context, emails []string) (map[string]int, error) {
	return s.idsByColumn(ctx, &User{}, "email", emails)
}

func (s *Store) ProgramIDsByCode(ctx context.Context, codes []string) (map[string]int, error) {
	return s.idsByColumn(ctx, &Program{}, "code", codes)
}

func (s *Store) ActivityIDsByCode(ctx context.Context, codes []string) (map[string]int, error) {
	return s.idsByColumn(ctx, &Activity{}, "code", codes)
}

func (s *Store) ReportIDsByKey(ctx context.Context, keys []ReportKey) (map[ReportKey]int, error) {
	userIds := make([]int, 0, len(keys))
	for _, k := range keys {
		userIds = append(userIds, k.UserId)
	}
	out := make(map[ReportKey]int, len(keys))
	for _, part := range utils.Chunk(utils.UniqueSlice(userIds), lookupChunk) {
		var rows []DailyReport
		err := s.db.WithContext(ctx).Model(&DailyReport{}).
			Select("id, user_id, report_date, title").
			Where("user_id IN ?", part).
			Find(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			out[ReportKey{UserId: r.UserId, ReportDate: utils.DateKey(r.ReportDate), Title: r.Title}] = r.ID
		}
	}
	return out, nil
}

func (s *Store) AssessmentIDsByKey(ctx context.Context, keys []AssessmentKey) (map[AssessmentKey]int, error) {
	userIds := make([]int, 0, len(keys))
	for _, k := range keys {
		userIds = append(userIds, k.UserId)
	}
	out := make(map[AssessmentKey]int, len(keys))
	for _, part := range utils.Chunk(utils.UniqueSlice(userIds), lookupChunk) {
		var rows []Assessment
		err := s.db.WithContext(ctx).Model(&Assessment{}).
			Select("id, user_id, period").
			Where("user_id IN ?", part).
			Find(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			out[AssessmentKey{UserId: r.UserId, Period: r.Period}] = r.ID
		}
	}
	return out, nil
}

func (s *Store) AccountIDsByKey(ctx context.Context, keys []AccountKey) (map[AccountKey]int, error) {
	activityIds := make([]int, 0, len(keys))
	for _, k := range keys {
		activityIds = append(activityIds, k.ActivityId)
	}
	out := make(map[AccountKey]int, len(keys))
	for _, part := range utils.Chunk(utils.UniqueSlice(activityIds), lookupChunk) {
		var rows []Account
		err := s.db.WithContext(ctx).Model(&Account{}).
			Select("id, activity_id, code").
			Where("activity_id IN ?", part).
			Find(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			out[AccountKey{ActivityId: r.ActivityId, Code: r.Code}] = r.ID
		}
	}
	return out, nil
}

type accountRefRow struct {
	ID           int
	ActivityCode string
	AccountCode  string
}

// AccountIDsByRef resolves (activity code, account code) pairs through the activities table.
func (s *Store) AccountIDsByRef(ctx context.Context, refs []AccountRef) (map[AccountRef]int, error) {
	codes := make([]string, 0, len(refs))
	for _, r := range refs {
		codes = append(codes, r.ActivityCode)
	}
	out := make(map[AccountRef]int, len(refs))
	for _, part := range utils.Chunk(utils.UniqueSlice(codes), lookupChunk) {
		var rows []accountRefRow
		err := s.db.WithContext(ctx).Raw(`
			SELECT acc.id AS id, act.code AS activity_code, acc.code AS account_code
			FROM accounts acc
			JOIN activities act ON act.id = acc.activity_id
			WHERE act.code IN ?
		`, part).Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			out[AccountRef{ActivityCode: r.ActivityCode, AccountCode: r.AccountCode}] = r.ID
		}
	}
	return out, nil
}

func (s *Store) BudgetIDsByKey(ctx context.Context, keys []BudgetKey) (map[BudgetKey]int, error) {
	accountIds := make([]int, 0, len(keys))
	for _, k := range keys {
		accountIds = append(accountIds, k.AccountId)
	}
	out := make(map[BudgetKey]int, len(keys))
	for _, part := range utils.Chunk(utils.UniqueSlice(accountIds), lookupChunk) {
		var rows []Budget
		err := s.db.WithContext(ctx).Model(&Budget{}).
			Select("id, account_id, fiscal_year").
			Where("account_id IN ?", part).
			Find(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			out[BudgetKey{AccountId: r.AccountId, FiscalYear: r.FiscalYear}] = r.ID
		}
	}
	return out, nil
}

type budgetRefRow struct {
	ID           int
	ActivityCode string
	AccountCode  string
	FiscalYear   int
}

func (s *Store) BudgetIDsByRef(ctx context.Context, refs []BudgetRef) (map[BudgetRef]int, error) {
	codes := make([]string, 0, len(refs))
	for _, r := range refs {
		codes = append(codes, r.ActivityCode)
	}
	out := make(map[BudgetRef]int, len(refs))
	for _, part := range utils.Chunk(utils.UniqueSlice(codes), lookupChunk) {
		var rows []budgetRefRow
		err := s.db.WithContext(ctx).Raw(`
			SELECT b.id AS id, act.code AS activity_code, acc.code AS account_code, b.fiscal_year AS fiscal_year
			FROM budgets b
			JOIN accounts acc ON acc.id = b.account_id
			JOIN activities act ON act.id = acc.activity_id
			WHERE act.code IN ?
		`, part).Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			out[BudgetRef{ActivityCode: r.ActivityCode, AccountCode: r.AccountCode, FiscalYear: r.FiscalYear}] = r.ID
		}
	}
	return out, nil
}

func (s *Store) RealizationIDsByKey(ctx context.Context, keys []RealizationKey) (map[RealizationKey]int, error) {
	budgetIds := make([]int, 0, len(keys))
	for _, k := range keys {
		budgetIds = append(budgetIds, k.BudgetId)
	}
	out := make(map[RealizationKey]int, len(keys))
	for _, part := range utils.Chunk(utils.UniqueSlice(budgetIds), lookupChunk) {
		var rows []Realization
		err := s.db.WithContext(ctx).Model(&Realization{}).
			Select("id, budget_id, month").
			Where("budget_id IN ?", part).
			Find(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			out[RealizationKey{BudgetId: r.BudgetId, Month: r.Month}] = r.ID
		}
	}
	return out, nil
}

// Create inserts one row and returns the id the database assigned.
func Create[T any](ctx context.Context, s *Store, row *T, id func(*T) int) (int, error) {
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return 0, err
	}
	return id(row), nil
}

func (s *Store) CreateUser(ctx context.Context, u *User) (int, error) {
	return Create(ctx, s, u, func(u *User) int { return u.ID })
}

func (s *Store) CreateDailyReport(ctx context.Context, r *DailyReport) (int, error) {
	return Create(ctx, s, r, func(r *DailyReport) int { return r.ID })
}

func (s *Store) CreateAssessment(ctx context.Context, a *Assessment) (int, error) {
	return Create(ctx, s, a, func(a *Assessment) int { return a.ID })
}

func (s *Store) CreateProgram(ctx context.Context, p *Program) (int, error) {
	return Create(ctx, s, p, func(p *Program) int { return p.ID })
}

func (s *Store) CreateActivity(ctx context.Context, a *Activity) (int, error) {
	return Create(ctx, s, a, func(a *Activity) int { return a.ID })
}

func (s *Store) CreateAccount(ctx context.Context, a *Account) (int, error) {
	return Create(ctx, s, a, func(a *Account) int { return a.ID })
}

func (s *Store) CreateBudget(ctx context.Context, b *Budget) (int, error) {
	return Create(ctx, s, b, func(b *Budget) int { return b.ID })
}

func (s *Store) CreateRealization(ctx context.Context, r *Realization) (int, error) {
	return Create(ctx, s, r, func(r *Realization) int { return r.ID })
}
