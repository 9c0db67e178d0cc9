package extraction

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/taxdesk/taxdesk/internal/core/domain"
)

// panPattern is the fixed PAN shape: 5 letters, 4 digits, 1 letter.
var panPattern = regexp.MustCompile(`[A-Z]{5}[0-9]{4}[A-Z]`)

var employerKeywords = []string{"employer", "company", "deductor"}

// financialKeywords gate the candidate pool for numeric extraction. Every
// fieldRule keyword must be covered here or its lines never enter the pool.
var financialKeywords = []string{"salary", "gross", "taxable", "tds", "deduction", "income", "interest", "80c"}

const unreadableTextThreshold = 20

// fieldRule locates one numeric field in the candidate pool. The first line
// containing keyword (and not containing exclude, when set) wins.
type fieldRule struct {
	name       string
	confidence float64
	keyword    string
	exclude    string
}

var salarySlipRules = []fieldRule{
	{name: domain.FieldSalary, confidence: 0.9, keyword: "salary", exclude: "tds"},
	{name: domain.FieldTaxableIncome, confidence: 0.85, keyword: "taxable"},
	{name: domain.FieldTDS, confidence: 0.8, keyword: "tds"},
	{name: domain.FieldDeductions, confidence: 0.7, keyword: "deduction"},
}

var rulesByType = map[domain.DocumentType][]fieldRule{
	domain.TypeForm16:     salarySlipRules,
	domain.TypeSalarySlip: salarySlipRules,
	domain.TypeAnnualTaxStatement: {
		{name: domain.FieldTDS, confidence: 0.9, keyword: "tds"},
		{name: domain.FieldReportedIncome, confidence: 0.8, keyword: "income", exclude: "taxable"},
		{name: domain.FieldTaxableIncome, confidence: 0.75, keyword: "taxable"},
	},
	domain.TypeInvestmentProof: {
		{name: domain.FieldEligible80C, confidence: 0.85, keyword: "80c"},
	},
	domain.TypeBankStatement: {
		{name: domain.FieldInterestIncome, confidence: 0.75, keyword: "interest"},
	},
	// Remaining declared types get PAN/Employer detection only.
}

// Extract runs the heuristic pipeline over raw text for a declared document
// type. It never fails: malformed or empty input degrades the quality
// verdict instead.
func Extract(text string, declaredType domain.DocumentType) *domain.ExtractionResult {
	result := &domain.ExtractionResult{
		DeclaredType: declaredType,
		Fields:       []domain.ExtractedField{},
		Messages:     []string{},
	}

	lines := splitLines(text)

	if pan := panPattern.FindString(strings.ToUpper(text)); pan != "" {
		result.Fields = append(result.Fields, domain.ExtractedField{
			Name:       domain.FieldPAN,
			Value:      domain.TextValue(pan),
			Confidence: 0.95,
			Source:     domain.SourceRegexRule,
		})
	}

	if employer, ok := findEmployer(lines); ok {
		result.Fields = append(result.Fields, domain.ExtractedField{
			Name:       domain.FieldEmployer,
			Value:      domain.TextValue(employer),
			Confidence: 0.8,
			Source:     domain.SourceLineRule,
		})
	}

	pool := candidateLines(lines)
	for _, rule := range rulesByType[declaredType] {
		amount, ok := rule.apply(pool)
		if !ok {
			continue
		}
		result.Fields = append(result.Fields, domain.ExtractedField{
			Name:       rule.name,
			Value:      domain.AmountValue(amount),
			Confidence: rule.confidence,
			Source:     domain.SourceLineRule,
		})
	}

	result.Summary = deriveSummary(result)
	result.Quality = assessQuality(text, result)
	if result.Quality != domain.QualityGood {
		result.Messages = append(result.Messages, QualityAdvisory(result.Quality))
	}
	return result
}

func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func findEmployer(lines []string) (string, bool) {
	for _, line := range lines {
		lower := strings.ToLower(line)
		for _, keyword := range employerKeywords {
			idx := strings.Index(lower, keyword)
			if idx < 0 {
				continue
			}
			rest := strings.TrimLeft(line[idx+len(keyword):], " \t:-–—")
			rest = strings.TrimSpace(rest)
			if containsLetter(rest) {
				return rest, true
			}
		}
	}
	return "", false
}

func containsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func candidateLines(lines []string) []string {
	pool := make([]string, 0, len(lines))
	for _, line := range lines {
		lower := strings.ToLower(line)
		if !strings.ContainsAny(line, "0123456789") {
			continue
		}
		for _, keyword := range financialKeywords {
			if strings.Contains(lower, keyword) {
				pool = append(pool, line)
				break
			}
		}
	}
	return pool
}

// apply scans the pool in order of appearance; the amount is parsed from the
// remainder of the line after the keyword so label digits (e.g. "80C") are
// not mistaken for the value.
func (r fieldRule) apply(pool []string) (int64, bool) {
	for _, line := range pool {
		lower := strings.ToLower(line)
		idx := strings.Index(lower, r.keyword)
		if idx < 0 {
			continue
		}
		if r.exclude != "" && strings.Contains(lower, r.exclude) {
			continue
		}
		if amount, ok := ParseAmount(line[idx+len(r.keyword):]); ok {
			return amount, true
		}
	}
	return 0, false
}

func deriveSummary(result *domain.ExtractionResult) domain.Summary {
	var s domain.Summary
	if v, ok := result.AmountOf(domain.FieldSalary); ok {
		s.Income = v
	} else if v, ok := result.AmountOf(domain.FieldReportedIncome); ok {
		s.Income = v
	}
	if v, ok := result.AmountOf(domain.FieldDeductions); ok {
		s.Deductions = v
	} else if v, ok := result.AmountOf(domain.FieldEligible80C); ok {
		s.Deductions = v
	}
	if v, ok := result.AmountOf(domain.FieldTaxableIncome); ok {
		s.TaxableIncome = v
	} else {
		s.TaxableIncome = max64(0, s.Income-s.Deductions)
	}
	return s
}

// assessQuality counts the critical signals PAN, income figure and TDS
// figure; fewer than two of three downgrades the verdict.
func assessQuality(text string, result *domain.ExtractionResult) domain.Quality {
	if len([]rune(strings.TrimSpace(text))) < unreadableTextThreshold {
		return domain.QualityUnreadable
	}

	signals := 0
	if _, ok := result.FindField(domain.FieldPAN); ok {
		signals++
	}
	if hasIncomeFigure(result) {
		signals++
	}
	if _, ok := result.AmountOf(domain.FieldTDS); ok {
		signals++
	}
	if signals < 2 {
		return domain.QualityLow
	}
	return domain.QualityGood
}

func hasIncomeFigure(result *domain.ExtractionResult) bool {
	if _, ok := result.AmountOf(domain.FieldSalary); ok {
		return true
	}
	_, ok := result.AmountOf(domain.FieldReportedIncome)
	return ok
}

// QualityAdvisory is the message every extractor attaches when quality ends
// up below good, so a degraded result always tells the filer what to do next.
func QualityAdvisory(quality domain.Quality) string {
	return fmt.Sprintf("Extraction quality is %s. Re-upload a clearer copy or enter the details manually.", quality)
}

// isReuploadAdvice recognizes the advisory emitted above so the correction
// merger can retire it once the user has filled the fields in.
func isReuploadAdvice(message string) bool {
	return strings.Contains(strings.ToLower(message), "re-upload")
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
