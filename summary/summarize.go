package summary

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LedgerRow is one account's budget and realization for a reporting period, as returned by the
// reporting query. RemainingBudget is precomputed upstream and passed through untouched.
type LedgerRow struct {
	ProgramCode      string          `json:"program_code"`
	ProgramName      string          `json:"program_name"`
	ActivityCode     string          `json:"activity_code"`
	ActivityName     string          `json:"activity_name"`
	AccountCode      string          `json:"account_code"`
	AccountName      string          `json:"account_name"`
	BudgetAmount     decimal.Decimal `json:"budget_amount"`
	TotalRealization decimal.Decimal `json:"total_realization"`
	RemainingBudget  decimal.Decimal `json:"remaining_budget"`
}

type AccountLeaf struct {
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	BudgetAmount     decimal.Decimal `json:"budget_amount"`
	TotalRealization decimal.Decimal `json:"total_realization"`
	RemainingBudget  decimal.Decimal `json:"remaining_budget"`
}

type ActivityNode struct {
	Code     string        `json:"code"`
	Name     string        `json:"name"`
	Accounts []AccountLeaf `json:"accounts"`
}

type ProgramNode struct {
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	Activities []*ActivityNode `json:"activities"`
}

// Summarize groups flat rows into program -> activity -> account in one pass.
//
// Nodes appear in order of first occurrence; nothing is sorted. Every row becomes one account
// leaf, duplicates included. The input is only read, so concurrent calls are safe.
func Summarize(rows []LedgerRow) []*ProgramNode {
	var programs []*ProgramNode
	programIdx := make(map[string]*ProgramNode)
	activityIdx := make(map[*ProgramNode]map[string]*ActivityNode)

	for _, row := range rows {
		program, ok := programIdx[row.ProgramCode]
		if !ok {
			program = &ProgramNode{Code: row.ProgramCode, Name: row.ProgramName}
			programIdx[row.ProgramCode] = program
			activityIdx[program] = make(map[string]*ActivityNode)
			programs = append(programs, program)
		}

		activity, ok := activityIdx[program][row.ActivityCode]
		if !ok {
			activity = &ActivityNode{Code: row.ActivityCode, Name: row.ActivityName}
			activityIdx[program][row.ActivityCode] = activity
			program.Activities = append(program.Activities, activity)
		}

		activity.Accounts = append(activity.Accounts, AccountLeaf{
			Code:             row.AccountCode,
			Name:             row.AccountName,
			BudgetAmount:     row.BudgetAmount,
			TotalRealization: row.TotalRealization,
			RemainingBudget:  row.RemainingBudget,
		})
	}
	return programs
}

// Percentage is realization / budget * 100, rounded to two places. A zero or negative budget
// yields zero rather than an infinite ratio.
func Percentage(budget, realization decimal.Decimal) decimal.Decimal {
	if !budget.IsPositive() {
		return decimal.Zero
	}
	return realization.Mul(hundred).DivRound(budget, 2)
}

// Remaining is budget - realization. Over-realization gives a negative value and is kept.
func Remaining(budget, realization decimal.Decimal) decimal.Decimal {
	return budget.Sub(realization)
}

func IsOverRealized(budget, realization decimal.Decimal) bool {
	return realization.GreaterThan(budget)
}

func (a AccountLeaf) Percentage() decimal.Decimal {
	return Percentage(a.BudgetAmount, a.TotalRealization)
}

func (a AccountLeaf) Remaining() decimal.Decimal {
	return Remaining(a.BudgetAmount, a.TotalRealization)
}

func (a AccountLeaf) IsOverRealized() bool {
	return IsOverRealized(a.BudgetAmount, a.TotalRealization)
}

type Totals struct {
	Budget      decimal.Decimal `json:"budget"`
	Realization decimal.Decimal `json:"realization"`
}

func (t Totals) Remaining() decimal.Decimal {
	return Remaining(t.Budget, t.Realization)
}

func (t Totals) Percentage() decimal.Decimal {
	return Percentage(t.Budget, t.Realization)
}

// GrandTotals sums the flat rows directly, independent of the tree, so the totals hold even if
// grouping is wrong.
func GrandTotals(rows []LedgerRow) Totals {
	t := Totals{Budget: decimal.Zero, Realization: decimal.Zero}
	for _, row := range rows {
		t.Budget = t.Budget.Add(row.BudgetAmount)
		t.Realization = t.Realization.Add(row.TotalRealization)
	}
	return t
}

// Subtotals of one node, for display. Computed on demand; the tree stores no derived values.
func (a *ActivityNode) Totals() Totals {
	t := Totals{Budget: decimal.Zero, Realization: decimal.Zero}
	for _, acc := range a.Accounts {
		t.Budget = t.Budget.Add(acc.BudgetAmount)
		t.Realization = t.Realization.Add(acc.TotalRealization)
	}
	return t
}

func (p *ProgramNode) Totals() Totals {
	t := Totals{Budget: decimal.Zero, Realization: decimal.Zero}
	for _, act := range p.Activities {
		at := act.Totals()
		t.Budget = t.Budget.Add(at.Budget)
		t.Realization = t.Realization.Add(at.Realization)
	}
	return t
}

// Mismatch is a row whose precomputed remaining budget disagrees with budget - realization.
type Mismatch struct {
	Row      LedgerRow       `json:"row"`
	Expected decimal.Decimal `json:"expected"`
}

// CheckRemaining reports rows whose RemainingBudget does not equal budget - realization. It only
// flags; Summarize keeps passing the upstream value through.
func CheckRemaining(rows []LedgerRow) []Mismatch {
	var out []Mismatch
	for _, row := range rows {
		expected := Remaining(row.BudgetAmount, row.TotalRealization)
		if !expected.Equal(row.RemainingBudget) {
			out = append(out, Mismatch{Row: row, Expected: expected})
		}
	}
	return out
}
