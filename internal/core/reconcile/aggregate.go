package reconcile

import (
	"math"

	"github.com/taxdesk/taxdesk/internal/core/domain"
	"github.com/taxdesk/taxdesk/internal/core/extraction"
)

// Placeholder flat tax rate. Real slab computation is an external concern;
// every consumer of EstimatedTax must treat it as an estimate.
const flatTaxRate = 0.10

// Aggregate folds all extracted documents of one filer into totals. It keeps
// no state between calls, so recomputation after deletes or corrections is
// always consistent with the current document set.
func Aggregate(docs []domain.Document) domain.FilerAggregate {
	var agg domain.FilerAggregate

	for i := range docs {
		doc := &docs[i]
		if doc.Status != domain.StatusExtracted || doc.Extracted == nil {
			continue
		}
		for _, entry := range extraction.KeySummary(doc.Extracted) {
			switch entry.Label {
			case extraction.LabelSalary:
				agg.TotalSalary += entry.Amount
			case extraction.LabelTaxableIncome:
				agg.TaxableIncome += entry.Amount
			case extraction.LabelDeductions, extraction.LabelEligible80CEst:
				agg.TotalDeductions += entry.Amount
			}
		}
		if tds, ok := doc.Extracted.AmountOf(domain.FieldTDS); ok {
			agg.TotalTDS += tds
		}
	}

	taxable := agg.TaxableIncome
	if taxable < 0 {
		taxable = 0
	}
	agg.EstimatedTax = int64(math.Round(float64(taxable) * flatTaxRate))
	if agg.TotalTDS > agg.EstimatedTax {
		agg.Refund = agg.TotalTDS - agg.EstimatedTax
	} else {
		agg.TaxPayable = agg.EstimatedTax - agg.TotalTDS
	}
	return agg
}
