package domain

import "time"

// OrderRecord is a single order line pulled out of a sales-panel container.
type OrderRecord struct {
	Name     string `json:"nombre"`
	Link     string `json:"link"`
	Image    string `json:"imagen"`
	Price    string `json:"precio"`
	Quantity string `json:"cantidad"`
	SKU      string `json:"sku"`

	RawStatus     string        `json:"estado"`
	OrderID       string        `json:"order_id,omitempty"`
	OrderDate     *time.Time    `json:"order_date"`
	TemporalClass TemporalClass `json:"temporal_classification"`
}

// Complete reports whether the record carries the minimum fields to be shipped.
func (r OrderRecord) Complete() bool {
	return r.Name != "" && r.Price != ""
}

// IsUrgent backs the is_urgent flag of the JSON export.
func (r OrderRecord) IsUrgent() bool {
	return r.TemporalClass == TemporalUrgent
}

// IsToReview backs the is_to_review flag of the JSON export.
func (r OrderRecord) IsToReview() bool {
	return r.TemporalClass == TemporalReview
}

// TemporalClass splits "agree on delivery" orders around the run threshold.
type TemporalClass string

const (
	TemporalNone   TemporalClass = "none"
	TemporalUrgent TemporalClass = "urgent"
	TemporalReview TemporalClass = "to_review"
)

// Disposition is the final, mutually exclusive outcome for a record.
type Disposition string

const (
	DispositionFiltered       Disposition = "FILTERED"
	DispositionAcceptedUrgent Disposition = "ACCEPTED_URGENT"
	DispositionAcceptedNormal Disposition = "ACCEPTED_NORMAL"
	DispositionAcceptedReview Disposition = "ACCEPTED_TO_REVIEW"
	DispositionRejected       Disposition = "REJECTED"
)

// Accepted reports whether the disposition places the record in an output list.
func (d Disposition) Accepted() bool {
	switch d {
	case DispositionAcceptedUrgent, DispositionAcceptedNormal, DispositionAcceptedReview:
		return true
	default:
		return false
	}
}

// Decision is what the filter engine hands back for one record.
type Decision struct {
	Disposition   Disposition
	Reason        string
	TemporalClass TemporalClass
}

// FilteredRecord keeps a dropped record together with the rule that dropped it.
type FilteredRecord struct {
	OrderRecord
	Reason string `json:"filter_reason"`
}
