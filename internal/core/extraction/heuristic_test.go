package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxdesk/taxdesk/internal/core/domain"
)

const sampleForm16 = `Form 16 - Certificate under section 203
Employer: Acme Software Pvt Ltd
PAN: ABCDE1234F
Gross Salary: 12,00,000
Deductions under chapter VI-A: 1,50,000
Taxable Income: 10,50,000
TDS deducted: 1,10,000`

func TestExtractForm16(t *testing.T) {
	result := Extract(sampleForm16, domain.TypeForm16)

	require.NotNil(t, result)
	assert.Equal(t, domain.QualityGood, result.Quality)

	pan, ok := result.FindField(domain.FieldPAN)
	require.True(t, ok)
	assert.Equal(t, "ABCDE1234F", pan.Value.Text())
	assert.Equal(t, domain.SourceRegexRule, pan.Source)
	assert.InDelta(t, 0.95, pan.Confidence, 1e-9)

	employer, ok := result.FindField(domain.FieldEmployer)
	require.True(t, ok)
	assert.Equal(t, "Acme Software Pvt Ltd", employer.Value.Text())
	assert.Equal(t, domain.SourceLineRule, employer.Source)

	salary, ok := result.AmountOf(domain.FieldSalary)
	require.True(t, ok)
	assert.Equal(t, int64(1200000), salary)

	taxable, ok := result.AmountOf(domain.FieldTaxableIncome)
	require.True(t, ok)
	assert.Equal(t, int64(1050000), taxable)

	tds, ok := result.AmountOf(domain.FieldTDS)
	require.True(t, ok)
	assert.Equal(t, int64(110000), tds)

	assert.Equal(t, domain.Summary{
		Income:        1200000,
		Deductions:    150000,
		TaxableIncome: 1050000,
	}, result.Summary)
	assert.Empty(t, result.Messages)
}

func TestExtractTwoSignalsIsGood(t *testing.T) {
	text := `Some cover page text for padding
PAN number ABCDE1234F
Gross Salary: 12,00,000`

	result := Extract(text, domain.TypeForm16)
	assert.Equal(t, domain.QualityGood, result.Quality)
}

func TestExtractOneSignalIsLow(t *testing.T) {
	text := `This is a scanned page where only the salary line survived OCR.
Gross Salary: 9,00,000`

	result := Extract(text, domain.TypeSalarySlip)
	assert.Equal(t, domain.QualityLow, result.Quality)
	require.NotEmpty(t, result.Messages)
	assert.Contains(t, result.Messages[0], "Re-upload")
}

func TestExtractShortTextIsUnreadable(t *testing.T) {
	result := Extract("ABCDE1234F", domain.TypeForm16)

	assert.Equal(t, domain.QualityUnreadable, result.Quality)
	require.NotEmpty(t, result.Messages)
	assert.Contains(t, result.Messages[0], "unreadable")
}

func TestExtractEmptyTextIsUnreadable(t *testing.T) {
	result := Extract("", domain.TypeForm16)

	assert.Equal(t, domain.QualityUnreadable, result.Quality)
	assert.Empty(t, result.Fields)
	assert.Equal(t, domain.Summary{}, result.Summary)
}

func TestExtractFirstMatchWins(t *testing.T) {
	text := `Padding line so the text clears the unreadable threshold.
Basic Salary: 50,000
Salary (net): 45,000`

	result := Extract(text, domain.TypeSalarySlip)
	salary, ok := result.AmountOf(domain.FieldSalary)
	require.True(t, ok)
	assert.Equal(t, int64(50000), salary)
}

func TestExtractSalaryRuleSkipsTDSLines(t *testing.T) {
	text := `Padding line so the text clears the unreadable threshold.
TDS on salary: 10,000
Salary paid: 8,00,000`

	result := Extract(text, domain.TypeSalarySlip)
	salary, ok := result.AmountOf(domain.FieldSalary)
	require.True(t, ok)
	assert.Equal(t, int64(800000), salary)
}

func TestExtractRuleIgnoresLabelDigits(t *testing.T) {
	text := `Investment proof statement for the current financial year.
Section 80C eligible amount: 1,20,000`

	result := Extract(text, domain.TypeInvestmentProof)
	eligible, ok := result.AmountOf(domain.FieldEligible80C)
	require.True(t, ok)
	assert.Equal(t, int64(120000), eligible)
}

func TestExtractUnknownTypeOnlyIdentityFields(t *testing.T) {
	text := `Rent receipt for the month of March
Landlord PAN: ABCDE1234F
Rent amount: 25,000 towards income from house`

	result := Extract(text, domain.TypeRentReceipt)

	_, hasPAN := result.FindField(domain.FieldPAN)
	assert.True(t, hasPAN)
	_, hasSalary := result.AmountOf(domain.FieldSalary)
	assert.False(t, hasSalary)
}

func TestExtractAnnualStatementPrecedence(t *testing.T) {
	text := `Annual Tax Statement (Form 26AS equivalent)
PAN: ABCDE1234F
Total income reported: 11,00,000
Taxable income: 9,80,000
Total TDS: 95,000`

	result := Extract(text, domain.TypeAnnualTaxStatement)

	reported, ok := result.AmountOf(domain.FieldReportedIncome)
	require.True(t, ok)
	assert.Equal(t, int64(1100000), reported)
	assert.Equal(t, int64(1100000), result.Summary.Income)
	assert.Equal(t, int64(980000), result.Summary.TaxableIncome)
	assert.Equal(t, domain.QualityGood, result.Quality)
}

func TestExtractDerivedTaxableIncome(t *testing.T) {
	text := `Salary slip for March, includes deduction detail below.
PAN: ABCDE1234F
Net Salary: 6,00,000
Standard deduction applied: 50,000
TDS: 30,000`

	result := Extract(text, domain.TypeSalarySlip)
	assert.Equal(t, int64(550000), result.Summary.TaxableIncome)
}
