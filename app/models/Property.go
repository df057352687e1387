package models

const (
	PropertyTypeStreet   = "property"
	PropertyTypeRailroad = "railroad"
	PropertyTypeUtility  = "utility"
	PropertyTypeSpecial  = "special"
)

// Property is one of the 40 board positions. The static fields are seeded
// from platform/board and the mutable tail (Houses, OwnerId, IsMortgaged) is
// cloned fresh per game so concurrent games never alias a record.
type Property struct {
	Id            int    `json:"id"`
	Name          string `json:"name"`
	Price         int    `json:"price"`
	Rent          []int  `json:"rent"` // indexed by house count, 5 = hotel
	MortgageValue int    `json:"mortgageValue"`
	Color         string `json:"color"`
	ColorGroup    string `json:"colorGroup"`
	Type          string `json:"type"`
	HouseCost     int    `json:"houseCost"`
	Houses        int    `json:"houses"` // 0-4 houses, 5 = hotel
	OwnerId       string `json:"ownerId"`
	IsMortgaged   bool   `json:"isMortgaged"`
}
