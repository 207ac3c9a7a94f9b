package summary

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Realisasi"

var excelHeadings = []string{"Program", "Activity", "Account", "Name", "Budget", "Realization", "Remaining", "%"}

// ExportExcel writes the tree as an indented sheet: a row per program and activity with
// subtotals, a row per account, and a grand total row taken from totals.
func ExportExcel(programs []*ProgramNode, totals Totals, filename string) error {
	f, err := BuildWorkbook(programs, totals)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(filename)
}

func BuildWorkbook(programs []*ProgramNode, totals Totals) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	for i, h := range excelHeadings {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, err
		}
	}

	rowNo := 2
	write := func(code1, code2, code3, name string, budget, realization, remaining, pct decimal.Decimal) error {
		values := []interface{}{code1, code2, code3, name,
			budget.InexactFloat64(), realization.InexactFloat64(), remaining.InexactFloat64(), pct.InexactFloat64()}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, rowNo)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return err
			}
		}
		rowNo++
		return nil
	}

	for _, p := range programs {
		pt := p.Totals()
		if err := write(p.Code, "", "", p.Name, pt.Budget, pt.Realization, pt.Remaining(), pt.Percentage()); err != nil {
			return nil, err
		}
		for _, a := range p.Activities {
			at := a.Totals()
			if err := write("", a.Code, "", a.Name, at.Budget, at.Realization, at.Remaining(), at.Percentage()); err != nil {
				return nil, err
			}
			for _, acc := range a.Accounts {
				if err := write("", "", acc.Code, acc.Name, acc.BudgetAmount, acc.TotalRealization, acc.RemainingBudget, acc.Percentage()); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := write("TOTAL", "", "", "", totals.Budget, totals.Realization, totals.Remaining(), totals.Percentage()); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheetName, "D", "D", 48); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}
	return f, nil
}
