package migration

import (
	"context"
	"fmt"
	"strings"

	"bitbucket.org/mmdatafocus/portal_backend/legacy"
	"bitbucket.org/mmdatafocus/portal_backend/models"
	"bitbucket.org/mmdatafocus/portal_backend/utils"
)

// Family names, in the only order that resolves every foreign reference.
const (
	FamilyUsers        = "users"
	FamilyDailyReports = "daily_reports"
	FamilyAssessments  = "assessments"
	FamilyPrograms     = "programs"
	FamilyActivities   = "activities"
	FamilyAccounts     = "accounts"
	FamilyBudgets      = "budgets"
	FamilyRealizations = "realizations"
)

var Order = []string{
	FamilyUsers, FamilyDailyReports, FamilyAssessments,
	FamilyPrograms, FamilyActivities, FamilyAccounts, FamilyBudgets, FamilyRealizations,
}

// Step is a family with its type parameters erased, so the runner can hold all of them.
type Step interface {
	Name() string
	Run(ctx context.Context, opts Options) (Result, error)
}

type familyStep[S any, P comparable, K comparable] struct {
	family Family[S, P, K]
}

func (s familyStep[S, P, K]) Name() string {
	return s.family.Name
}

func (s familyStep[S, P, K]) Run(ctx context.Context, opts Options) (Result, error) {
	records, err := s.family.Load(ctx)
	if err != nil {
		return Result{Family: s.family.Name}, newFamilyError(s.family.Name, LegacyStore, "read", err)
	}
	return Migrate(ctx, s.family, records, opts)
}

// NewStep wraps a family for the runner.
func NewStep[S any, P comparable, K comparable](f Family[S, P, K]) Step {
	return familyStep[S, P, K]{family: f}
}

// Steps returns the eight portal families in dependency order.
func Steps(src *legacy.Store, dst *models.Store) []Step {
	return []Step{
		NewStep(UsersFamily(src, dst)),
		NewStep(DailyReportsFamily(src, dst)),
		NewStep(AssessmentsFamily(src, dst)),
		NewStep(ProgramsFamily(src, dst)),
		NewStep(ActivitiesFamily(src, dst)),
		NewStep(AccountsFamily(src, dst)),
		NewStep(BudgetsFamily(src, dst)),
		NewStep(RealizationsFamily(src, dst)),
	}
}

type noParent struct{}

func UsersFamily(src *legacy.Store, dst *models.Store) Family[legacy.User, noParent, string] {
	return Family[legacy.User, noParent, string]{
		Name:     FamilyUsers,
		Load:     src.Users,
		Describe: func(u legacy.User) string { return u.Email },
		Key:      func(u legacy.User, _ int) string { return u.Email },
		LookupExisting: func(ctx context.Context, keys []string) (map[string]int, error) {
			return dst.UserIDsByEmail(ctx, keys)
		},
		Insert: func(ctx context.Context, u legacy.User, _ int) (int, error) {
			password, err := utils.EnsurePasswordHash(u.Password)
			if err != nil {
				return 0, fmt.Errorf("hash password of %s: %w", u.Email, err)
			}
			active := u.IsActive
			return dst.CreateUser(ctx, &models.User{
				Name:     strings.TrimSpace(u.Name),
				Email:    u.Email,
				Nip:      strings.TrimSpace(u.Nip),
				Password: password,
				Role:     models.ParseUserRole(u.Role),
				Position: strings.TrimSpace(u.Position),
				IsActive: &active,
			})
		},
	}
}

func DailyReportsFamily(src *legacy.Store, dst *models.Store) Family[legacy.DailyReport, string, models.ReportKey] {
	return Family[legacy.DailyReport, string, models.ReportKey]{
		Name: FamilyDailyReports,
		Load: src.DailyReports,
		Describe: func(r legacy.DailyReport) string {
			return fmt.Sprintf("%s %s %q", r.UserEmail, utils.DateKey(r.ReportDate), r.Title)
		},
		ParentKey: func(r legacy.DailyReport) (string, bool) { return r.UserEmail, r.UserEmail != "" },
		ResolveParents: func(ctx context.Context, keys []string) (map[string]int, error) {
			return dst.UserIDsByEmail(ctx, keys)
		},
		Key: func(r legacy.DailyReport, userID int) models.ReportKey {
			return models.ReportKey{UserId: userID, ReportDate: utils.DateKey(r.ReportDate), Title: strings.TrimSpace(r.Title)}
		},
		LookupExisting: dst.ReportIDsByKey,
		Insert: func(ctx context.Context, r legacy.DailyReport, userID int) (int, error) {
			return dst.CreateDailyReport(ctx, &models.DailyReport{
				UserId:      userID,
				ReportDate:  r.ReportDate,
				Title:       strings.TrimSpace(r.Title),
				Description: r.Description,
				Status:      models.ParseReportStatus(r.Status),
			})
		},
	}
}

// AssessmentTotal is the stored total score: the plain sum of the seven sub-scores.
func AssessmentTotal(a legacy.Assessment) int {
	return a.Service + a.Integrity + a.Commitment + a.Discipline + a.Teamwork + a.Leadership + a.Initiative
}

func AssessmentsFamily(src *legacy.Store, dst *models.Store) Family[legacy.Assessment, string, models.AssessmentKey] {
	return Family[legacy.Assessment, string, models.AssessmentKey]{
		Name:      FamilyAssessments,
		Load:      src.Assessments,
		Describe:  func(a legacy.Assessment) string { return a.UserEmail + " " + a.Period },
		ParentKey: func(a legacy.Assessment) (string, bool) { return a.UserEmail, a.UserEmail != "" },
		ResolveParents: func(ctx context.Context, keys []string) (map[string]int, error) {
			return dst.UserIDsByEmail(ctx, keys)
		},
		Key: func(a legacy.Assessment, userID int) models.AssessmentKey {
			return models.AssessmentKey{UserId: userID, Period: a.Period}
		},
		LookupExisting: dst.AssessmentIDsByKey,
		Insert: func(ctx context.Context, a legacy.Assessment, userID int) (int, error) {
			return dst.CreateAssessment(ctx, &models.Assessment{
				UserId:     userID,
				Period:     a.Period,
				Service:    a.Service,
				Integrity:  a.Integrity,
				Commitment: a.Commitment,
				Discipline: a.Discipline,
				Teamwork:   a.Teamwork,
				Leadership: a.Leadership,
				Initiative: a.Initiative,
				TotalScore: AssessmentTotal(a),
				Notes:      a.Notes,
			})
		},
	}
}

func ProgramsFamily(src *legacy.Store, dst *models.Store) Family[legacy.Program, noParent, string] {
	return Family[legacy.Program, noParent, string]{
		Name:           FamilyPrograms,
		Load:           src.Programs,
		Describe:       func(p legacy.Program) string { return p.Code },
		Key:            func(p legacy.Program, _ int) string { return p.Code },
		LookupExisting: dst.ProgramIDsByCode,
		Insert: func(ctx context.Context, p legacy.Program, _ int) (int, error) {
			return dst.CreateProgram(ctx, &models.Program{Code: p.Code, Name: strings.TrimSpace(p.Name)})
		},
	}
}

func ActivitiesFamily(src *legacy.Store, dst *models.Store) Family[legacy.Activity, string, string] {
	return Family[legacy.Activity, string, string]{
		Name:           FamilyActivities,
		Load:           src.Activities,
		Describe:       func(a legacy.Activity) string { return a.ProgramCode + "/" + a.Code },
		ParentKey:      func(a legacy.Activity) (string, bool) { return a.ProgramCode, a.ProgramCode != "" },
		ResolveParents: dst.ProgramIDsByCode,
		Key:            func(a legacy.Activity, _ int) string { return a.Code },
		LookupExisting: dst.ActivityIDsByCode,
		Insert: func(ctx context.Context, a legacy.Activity, programID int) (int, error) {
			return dst.CreateActivity(ctx, &models.Activity{ProgramId: programID, Code: a.Code, Name: strings.TrimSpace(a.Name)})
		},
	}
}

func AccountsFamily(src *legacy.Store, dst *models.Store) Family[legacy.Account, string, models.AccountKey] {
	return Family[legacy.Account, string, models.AccountKey]{
		Name:           FamilyAccounts,
		Load:           src.Accounts,
		Describe:       func(a legacy.Account) string { return a.ActivityCode + "/" + a.Code },
		ParentKey:      func(a legacy.Account) (string, bool) { return a.ActivityCode, a.ActivityCode != "" },
		ResolveParents: dst.ActivityIDsByCode,
		Key: func(a legacy.Account, activityID int) models.AccountKey {
			return models.AccountKey{ActivityId: activityID, Code: a.Code}
		},
		LookupExisting: dst.AccountIDsByKey,
		Insert: func(ctx context.Context, a legacy.Account, activityID int) (int, error) {
			return dst.CreateAccount(ctx, &models.Account{ActivityId: activityID, Code: a.Code, Name: strings.TrimSpace(a.Name)})
		},
	}
}

func BudgetsFamily(src *legacy.Store, dst *models.Store) Family[legacy.Budget, models.AccountRef, models.BudgetKey] {
	return Family[legacy.Budget, models.AccountRef, models.BudgetKey]{
		Name: FamilyBudgets,
		Load: src.Budgets,
		Describe: func(b legacy.Budget) string {
			return fmt.Sprintf("%s/%s %d", b.ActivityCode, b.AccountCode, b.FiscalYear)
		},
		ParentKey: func(b legacy.Budget) (models.AccountRef, bool) {
			ref := models.AccountRef{ActivityCode: b.ActivityCode, AccountCode: b.AccountCode}
			return ref, ref.ActivityCode != "" && ref.AccountCode != ""
		},
		ResolveParents: dst.AccountIDsByRef,
		Key: func(b legacy.Budget, accountID int) models.BudgetKey {
			return models.BudgetKey{AccountId: accountID, FiscalYear: b.FiscalYear}
		},
		LookupExisting: dst.BudgetIDsByKey,
		Insert: func(ctx context.Context, b legacy.Budget, accountID int) (int, error) {
			return dst.CreateBudget(ctx, &models.Budget{AccountId: accountID, FiscalYear: b.FiscalYear, Amount: b.Amount})
		},
	}
}

func RealizationsFamily(src *legacy.Store, dst *models.Store) Family[legacy.Realization, models.BudgetRef, models.RealizationKey] {
	return Family[legacy.Realization, models.BudgetRef, models.RealizationKey]{
		Name: FamilyRealizations,
		Load: src.Realizations,
		Describe: func(r legacy.Realization) string {
			return fmt.Sprintf("%s/%s %d-%02d", r.ActivityCode, r.AccountCode, r.FiscalYear, r.Month)
		},
		ParentKey: func(r legacy.Realization) (models.BudgetRef, bool) {
			ref := models.BudgetRef{ActivityCode: r.ActivityCode, AccountCode: r.AccountCode, FiscalYear: r.FiscalYear}
			return ref, ref.ActivityCode != "" && ref.AccountCode != "" && ref.FiscalYear != 0
		},
		ResolveParents: dst.BudgetIDsByRef,
		Key: func(r legacy.Realization, budgetID int) models.RealizationKey {
			return models.RealizationKey{BudgetId: budgetID, Month: r.Month}
		},
		LookupExisting: dst.RealizationIDsByKey,
		Insert: func(ctx context.Context, r legacy.Realization, budgetID int) (int, error) {
			return dst.CreateRealization(ctx, &models.Realization{BudgetId: budgetID, Month: r.Month, Amount: r.Amount, Description: r.Description})
		},
	}
}
