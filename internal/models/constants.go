package models

// Transaction directions
const (
	DirectionSpend  = "spend"
	DirectionIncome = "income"
)

// Categories
const (
	CategoryDining            = "dining"
	CategoryGroceries         = "groceries"
	CategoryTransitSubway     = "transit-subway"
	CategoryTransitBus        = "transit-bus"
	CategoryEntertainment     = "entertainment"
	CategoryUtilitiesElectric = "utilities-electric"
	CategoryOther             = "other"
)

// Statement defaults
const (
	DefaultAccountLabel = "CMB"
	DefaultAnchorID     = "reportPanel1"
	MinRowCells         = 8
)

// File permissions
const (
	PermissionConfigFile = 0600
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
)
