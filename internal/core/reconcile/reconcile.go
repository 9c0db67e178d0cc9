// Package reconcile compares equivalent figures across one filer's
// documents and folds them into filer-wide totals. Both operations are pure
// functions of the document snapshot they are given: documents that have not
// reached extracted status are treated as absent, never as zero-valued.
package reconcile

import (
	"fmt"

	"github.com/taxdesk/taxdesk/internal/core/domain"
)

const (
	salaryTolerance  = 0.02
	taxableTolerance = 0.05
)

// Findings checks a filer's documents for cross-source discrepancies.
// Document selection is first-of-type in insertion order. Findings are
// advisory only.
func Findings(docs []domain.Document) []domain.Finding {
	findings := []domain.Finding{}

	form16 := firstOfType(docs, domain.TypeForm16)
	slip := firstOfType(docs, domain.TypeSalarySlip)
	if form16 != nil && slip != nil {
		a := salaryFigure(form16)
		b := salaryFigure(slip)
		if a != 0 && b != 0 && relativeDiff(a, b) > salaryTolerance {
			findings = append(findings, domain.Finding{
				Code: domain.FindingSalaryMismatch,
				Message: fmt.Sprintf(
					"salary differs between Form 16 (%d) and salary slip (%d)", a, b),
				FirstDocID:   form16.ID,
				SecondDocID:  slip.ID,
				FirstAmount:  a,
				SecondAmount: b,
			})
		}
	}

	statement := firstOfType(docs, domain.TypeAnnualTaxStatement)
	if form16 != nil && statement != nil {
		a := taxableFigure(form16)
		b := taxableFigure(statement)
		if a != 0 && b != 0 && relativeDiff(a, b) > taxableTolerance {
			findings = append(findings, domain.Finding{
				Code: domain.FindingTaxableIncomeMismatch,
				Message: fmt.Sprintf(
					"taxable income differs between Form 16 (%d) and annual tax statement (%d)", a, b),
				FirstDocID:   form16.ID,
				SecondDocID:  statement.ID,
				FirstAmount:  a,
				SecondAmount: b,
			})
		}
	}
	return findings
}

func firstOfType(docs []domain.Document, t domain.DocumentType) *domain.Document {
	for i := range docs {
		d := &docs[i]
		if d.DeclaredType == t && d.Status == domain.StatusExtracted && d.Extracted != nil {
			return d
		}
	}
	return nil
}

// salaryFigure prefers the named Salary field, falling back to the derived
// summary income.
func salaryFigure(doc *domain.Document) int64 {
	if v, ok := doc.Extracted.AmountOf(domain.FieldSalary); ok {
		return v
	}
	return doc.Extracted.Summary.Income
}

func taxableFigure(doc *domain.Document) int64 {
	if v, ok := doc.Extracted.AmountOf(domain.FieldTaxableIncome); ok {
		return v
	}
	return doc.Extracted.Summary.TaxableIncome
}

func relativeDiff(a, b int64) float64 {
	maxAbs := absolute(a)
	if absolute(b) > maxAbs {
		maxAbs = absolute(b)
	}
	if maxAbs == 0 {
		return 0
	}
	return float64(absolute(a-b)) / float64(maxAbs)
}

func absolute(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
