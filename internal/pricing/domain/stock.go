package domain

// StockLevel records a product's stock before and after a change.
type StockLevel struct {
	ProductID int64
	Name      string
	Before    int
	After     int
}

// StockAlert classifies a stock change against the low-stock threshold.
type StockAlert int

const (
	StockAlertNone StockAlert = iota
	StockAlertRupture
	StockAlertLow
	StockAlertRestock
)

// Alert reports the transition the change crossed, if any. Rupture is a drop
// to zero from positive stock, Low a drop to or under threshold from above it,
// and Restock a rise from zero.
func (l StockLevel) Alert(threshold int) StockAlert {
	switch {
	case l.After == 0 && l.Before > 0:
		return StockAlertRupture
	case l.After > 0 && l.After <= threshold && l.Before > threshold:
		return StockAlertLow
	case l.Before == 0 && l.After > 0:
		return StockAlertRestock
	}
	return StockAlertNone
}
