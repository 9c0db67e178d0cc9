package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FieldValue is a tagged union: either an integer amount (whole currency
// units, no minor units) or free text such as a PAN or an employer name.
type FieldValue struct {
	text     string
	amount   int64
	isAmount bool
}

func AmountValue(v int64) FieldValue {
	return FieldValue{amount: v, isAmount: true}
}

func TextValue(s string) FieldValue {
	return FieldValue{text: s}
}

func (v FieldValue) IsAmount() bool { return v.isAmount }

// Amount returns the numeric value. The second result is false for text
// values so callers can tell "absent" from "zero".
func (v FieldValue) Amount() (int64, bool) {
	if !v.isAmount {
		return 0, false
	}
	return v.amount, true
}

func (v FieldValue) Text() string {
	if v.isAmount {
		return fmt.Sprintf("%d", v.amount)
	}
	return v.text
}

func (v FieldValue) String() string { return v.Text() }

func (v FieldValue) MarshalJSON() ([]byte, error) {
	if v.isAmount {
		return json.Marshal(v.amount)
	}
	return json.Marshal(v.text)
}

func (v *FieldValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = TextValue(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*v = AmountValue(int64(f + 0.5*sign(f)))
		return nil
	}
	return fmt.Errorf("field value must be a string or a number: %s", string(data))
}

func sign(f float64) float64 {
	if f < 0 {
		return -1
	}
	return 1
}

// CanonicalFieldName is the name-folding rule used everywhere fields are
// matched by name: Unicode lower case with runs of whitespace collapsed to
// a single space. "Taxable  Income" and "taxable income" are the same field.
func CanonicalFieldName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
