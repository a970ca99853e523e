package models

const (
	LabelKeyFraud = "FRAUD"
	LabelKeyLegit = "LEGIT"
)

// LabelSchema maps the FRAUD and LEGIT classes to the raw label values that belong to them.
type LabelSchema map[string][]string

// Labels returns every label value, legit first.
func (s LabelSchema) Labels() []string {
	labels := make([]string, 0, len(s[LabelKeyLegit])+len(s[LabelKeyFraud]))
	labels = append(labels, s[LabelKeyLegit]...)
	labels = append(labels, s[LabelKeyFraud]...)
	return labels
}
