// Package xlsx renders the filer report workbook: aggregate totals,
// cross-document findings, and the current ITR form.
package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/taxdesk/taxdesk/internal/core/domain"
	"github.com/taxdesk/taxdesk/internal/core/itr"
)

const (
	sheetSummary  = "Summary"
	sheetFindings = "Findings"
	sheetItrForm  = "ITR Form"
)

type ReportWriter struct{}

func NewReportWriter() *ReportWriter {
	return &ReportWriter{}
}

// Write renders a workbook for one filer. All amounts are whole rupees.
func (rw *ReportWriter) Write(w io.Writer, ownerID string, agg domain.FilerAggregate, findings []domain.Finding, form *domain.ItrForm) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}
	if err := writeSummary(f, ownerID, agg); err != nil {
		return err
	}
	if err := writeFindings(f, findings); err != nil {
		return err
	}
	if form != nil {
		if err := writeItrForm(f, form); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, ownerID string, agg domain.FilerAggregate) error {
	rows := [][]any{
		{"Filer", ownerID},
		{},
		{"Total Salary", agg.TotalSalary},
		{"Total Deductions", agg.TotalDeductions},
		{"Taxable Income", agg.TaxableIncome},
		{"Total TDS", agg.TotalTDS},
		{"Estimated Tax", agg.EstimatedTax},
		{"Refund", agg.Refund},
		{"Tax Payable", agg.TaxPayable},
	}
	return writeRows(f, sheetSummary, rows)
}

func writeFindings(f *excelize.File, findings []domain.Finding) error {
	if _, err := f.NewSheet(sheetFindings); err != nil {
		return fmt.Errorf("create findings sheet: %w", err)
	}

	rows := [][]any{{"Code", "Message", "First Document", "Second Document", "First Amount", "Second Amount"}}
	for _, finding := range findings {
		rows = append(rows, []any{
			string(finding.Code), finding.Message,
			finding.FirstDocID, finding.SecondDocID,
			finding.FirstAmount, finding.SecondAmount,
		})
	}
	if len(findings) == 0 {
		rows = append(rows, []any{"", "No discrepancies found"})
	}
	return writeRows(f, sheetFindings, rows)
}

func writeItrForm(f *excelize.File, form *domain.ItrForm) error {
	if _, err := f.NewSheet(sheetItrForm); err != nil {
		return fmt.Errorf("create itr sheet: %w", err)
	}

	totals := itr.Totals(form)
	rows := [][]any{
		{"Status", string(form.Status)},
		{},
		{"Income"},
		{"Salary", form.Income.Salary},
		{"Interest", form.Income.Interest},
		{"Rental Income", form.Income.RentalIncome},
		{"Other Income", form.Income.OtherIncome},
		{},
		{"Deductions"},
		{"Section 80C", form.Deductions.Section80C},
		{"Section 80D", form.Deductions.Section80D},
		{"Charitable Donations", form.Deductions.CharitableDonations},
		{},
		{"Taxes Paid"},
		{"TDS", form.TaxesPaid.TDS},
		{"Advance Tax", form.TaxesPaid.AdvanceTax},
		{"Self-Assessment Tax", form.TaxesPaid.SelfAssessmentTax},
		{},
		{"Total Income", totals.TotalIncome},
		{"Total Deductions", totals.TotalDeductions},
		{"Total Taxes Paid", totals.TotalTaxesPaid},
	}
	return writeRows(f, sheetItrForm, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("cell name for row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
