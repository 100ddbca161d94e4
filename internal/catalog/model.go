package catalog

// ServiceOffering is a bookable treatment from the studio's catalog.
// Price is in whole USD. Unit-based services (e.g. fat dissolve injections)
// scale by the number of units; variable-pricing services have no fixed
// price and require a consultation before a charge can be computed.
type ServiceOffering struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Duration        int     `json:"duration"`
	Price           float64 `json:"price"`
	UnitBased       bool    `json:"unit_based"`
	VariablePricing bool    `json:"variable_pricing"`
}

// Complimentary reports whether the service is free of charge.
func (s ServiceOffering) Complimentary() bool {
	return !s.VariablePricing && s.Price == 0
}
