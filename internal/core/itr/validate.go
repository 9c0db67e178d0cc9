// Package itr validates the consolidated filer-level ITR form against
// statutory-style limits and internal consistency rules.
package itr

import (
	"fmt"

	"github.com/taxdesk/taxdesk/internal/core/domain"
)

const ceiling80C = 150000

// Totals sums the income, deduction and taxes-paid sub-fields.
func Totals(form *domain.ItrForm) domain.ItrTotals {
	return domain.ItrTotals{
		TotalIncome: form.Income.Salary + form.Income.Interest +
			form.Income.RentalIncome + form.Income.OtherIncome,
		TotalDeductions: form.Deductions.Section80C + form.Deductions.Section80D +
			form.Deductions.CharitableDonations,
		TotalTaxesPaid: form.TaxesPaid.TDS + form.TaxesPaid.AdvanceTax +
			form.TaxesPaid.SelfAssessmentTax,
	}
}

// Validate is a pure function of form state: it emits zero or more advisory
// issues and never mutates the form. Issues do not block submission.
func Validate(form *domain.ItrForm) ([]domain.ValidationIssue, domain.ItrTotals) {
	totals := Totals(form)
	issues := []domain.ValidationIssue{}

	if form.Deductions.Section80C > ceiling80C {
		issues = append(issues, domain.ValidationIssue{
			Field:   "deductions.section80C",
			Code:    "LIMIT_80C",
			Message: fmt.Sprintf("section 80C deduction exceeds the %d ceiling", ceiling80C),
		})
	}
	if form.TaxesPaid.TDS > totals.TotalIncome {
		issues = append(issues, domain.ValidationIssue{
			Field:   "taxesPaid.tds",
			Code:    "TDS_GT_INCOME",
			Message: "TDS paid exceeds total declared income",
		})
	}
	if totals.TotalDeductions > totals.TotalIncome {
		issues = append(issues, domain.ValidationIssue{
			Field:   "deductions.section80C",
			Code:    "DEDUCTIONS_GT_INCOME",
			Message: "total deductions exceed total declared income",
		})
	}
	return issues, totals
}
