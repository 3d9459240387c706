package products

import "fmt"

// VATRates maps a VAT percentage to the ID the back office uses for it.
var VATRates = map[float64]int{
	0:  1,
	5:  2,
	20: 5,
}

func VATRateID(percent float64) (int, error) {
	id, ok := VATRates[percent]
	if !ok {
		return 0, fmt.Errorf("unsupported VAT rate %v%%", percent)
	}
	return id, nil
}
