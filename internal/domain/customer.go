package domain

// Segment classifies a customer and selects which eligibility rule set
// applies when affiliating the customer to a product.
type Segment string

const (
	SegmentEnterprise Segment = "ENTERPRISE"
	SegmentPersonal   Segment = "PERSONAL"
)

func (s Segment) IsValid() bool {
	switch s {
	case SegmentEnterprise, SegmentPersonal:
		return true
	}
	return false
}

// Customer is a read-only snapshot fetched from the customer service per
// decision. It is never persisted on its own and never mutated here.
type Customer struct {
	ID      string  `json:"id"`
	Segment Segment `json:"segment"`
}
