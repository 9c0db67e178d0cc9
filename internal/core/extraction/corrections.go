package extraction

import (
	"fmt"
	"strings"

	"github.com/taxdesk/taxdesk/internal/core/domain"
)

// Correction is a single user-supplied field override.
type Correction struct {
	Name  string            `json:"name"`
	Value domain.FieldValue `json:"value"`
}

// numericFieldNames lists the fields whose values must be non-negative
// amounts, keyed by canonical name.
var numericFieldNames = map[string]struct{}{
	domain.CanonicalFieldName(domain.FieldSalary):         {},
	domain.CanonicalFieldName(domain.FieldTaxableIncome):  {},
	domain.CanonicalFieldName(domain.FieldTDS):            {},
	domain.CanonicalFieldName(domain.FieldDeductions):     {},
	domain.CanonicalFieldName(domain.FieldReportedIncome): {},
	domain.CanonicalFieldName(domain.FieldEligible80C):    {},
	domain.CanonicalFieldName(domain.FieldInterestIncome): {},
}

// ValidateCorrections checks a correction set against one document's current
// extraction. Issues are reported field-by-field; any issue means no field
// may be merged.
func ValidateCorrections(result *domain.ExtractionResult, corrections []Correction) []domain.ValidationIssue {
	issues := []domain.ValidationIssue{}
	if len(corrections) == 0 {
		issues = append(issues, domain.ValidationIssue{
			Field:   "",
			Code:    "EMPTY_SET",
			Message: "at least one correction is required",
		})
		return issues
	}

	normalized := make(map[string]domain.FieldValue, len(corrections))
	for _, c := range corrections {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			issues = append(issues, domain.ValidationIssue{
				Field:   c.Name,
				Code:    "REQUIRED",
				Message: "field name must not be blank",
			})
			continue
		}
		canonical := domain.CanonicalFieldName(name)
		value, issue := normalizeValue(name, canonical, c.Value)
		if issue != nil {
			issues = append(issues, *issue)
			continue
		}
		normalized[canonical] = value
	}

	salary, salaryKnown := effectiveAmount(result, normalized, domain.FieldSalary)

	if v, ok := normalized[domain.CanonicalFieldName(domain.FieldEligible80C)]; ok {
		if amount, isAmount := v.Amount(); isAmount && amount > Ceiling80C {
			issues = append(issues, domain.ValidationIssue{
				Field:   domain.FieldEligible80C,
				Code:    "LIMIT_80C",
				Message: fmt.Sprintf("eligible 80C cannot exceed %d", Ceiling80C),
			})
		}
	}
	if salaryKnown {
		if tds, ok := effectiveCorrected(normalized, domain.FieldTDS); ok && tds > salary {
			issues = append(issues, domain.ValidationIssue{
				Field:   domain.FieldTDS,
				Code:    "TDS_GT_SALARY",
				Message: "TDS cannot exceed salary",
			})
		}
		if taxable, ok := effectiveCorrected(normalized, domain.FieldTaxableIncome); ok && taxable > salary {
			issues = append(issues, domain.ValidationIssue{
				Field:   domain.FieldTaxableIncome,
				Code:    "TAXABLE_GT_SALARY",
				Message: "taxable income cannot exceed salary",
			})
		}
	}
	return issues
}

func normalizeValue(name, canonical string, value domain.FieldValue) (domain.FieldValue, *domain.ValidationIssue) {
	if amount, ok := value.Amount(); ok {
		if amount < 0 {
			return value, &domain.ValidationIssue{
				Field:   name,
				Code:    "NEGATIVE_AMOUNT",
				Message: "amount must be zero or positive",
			}
		}
		return value, nil
	}

	text := strings.TrimSpace(value.Text())
	if text == "" {
		return value, &domain.ValidationIssue{
			Field:   name,
			Code:    "REQUIRED",
			Message: "field value must not be blank",
		}
	}
	if _, numeric := numericFieldNames[canonical]; numeric {
		amount, ok := ParseAmount(text)
		if !ok {
			return value, &domain.ValidationIssue{
				Field:   name,
				Code:    "NOT_NUMERIC",
				Message: "field requires a numeric amount",
			}
		}
		if amount < 0 {
			return value, &domain.ValidationIssue{
				Field:   name,
				Code:    "NEGATIVE_AMOUNT",
				Message: "amount must be zero or positive",
			}
		}
		return domain.AmountValue(amount), nil
	}
	return domain.TextValue(text), nil
}

func effectiveAmount(result *domain.ExtractionResult, corrected map[string]domain.FieldValue, name string) (int64, bool) {
	if v, ok := effectiveCorrected(corrected, name); ok {
		return v, true
	}
	return result.AmountOf(name)
}

func effectiveCorrected(corrected map[string]domain.FieldValue, name string) (int64, bool) {
	v, ok := corrected[domain.CanonicalFieldName(name)]
	if !ok {
		return 0, false
	}
	return v.Amount()
}

// ApplyCorrections merges validated overrides into a copy of the result.
// Matching is case-insensitive by canonical name; matches are replaced in
// place, misses are appended. Merged fields always carry confidence 1.0 and
// the manual source tag. The summary is re-derived, quality is forced to
// good and the re-upload advisory is retired. Applying the same set twice
// yields the same result as applying it once.
func ApplyCorrections(result *domain.ExtractionResult, corrections []Correction) *domain.ExtractionResult {
	out := result.Clone()

	for _, c := range corrections {
		name := strings.TrimSpace(c.Name)
		canonical := domain.CanonicalFieldName(name)
		value := c.Value
		if _, numeric := numericFieldNames[canonical]; numeric && !value.IsAmount() {
			if amount, ok := ParseAmount(value.Text()); ok {
				value = domain.AmountValue(amount)
			}
		}
		field := domain.ExtractedField{
			Name:       name,
			Value:      value,
			Confidence: 1.0,
			Source:     domain.SourceManual,
		}
		replaced := false
		for i := range out.Fields {
			if domain.CanonicalFieldName(out.Fields[i].Name) == canonical {
				out.Fields[i] = field
				replaced = true
				break
			}
		}
		if !replaced {
			out.Fields = append(out.Fields, field)
		}
	}

	out.Summary = deriveSummary(out)
	out.Quality = domain.QualityGood

	kept := out.Messages[:0]
	for _, msg := range out.Messages {
		if !isReuploadAdvice(msg) {
			kept = append(kept, msg)
		}
	}
	out.Messages = kept
	return out
}
