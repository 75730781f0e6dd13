package domain

// UsageFilter contains filtering/pagination parameters for ledger listings.
type UsageFilter struct {
	ActionType *ActionType
	Limit      int
	Offset     int
}
