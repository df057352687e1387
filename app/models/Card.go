package models

// CardAction tags what drawing a card does. Each action only reads the
// fields listed next to it; everything else stays zero.
type CardAction string

const (
	CardCollect     CardAction = "collect"     // Value: amount from bank
	CardPay         CardAction = "pay"         // Value: amount to bank
	CardPayAll      CardAction = "payAll"      // Value: amount to each player
	CardCollectAll  CardAction = "collectAll"  // Value: amount from each player
	CardBirthday    CardAction = "birthday"    // Value: amount from each player
	CardMove        CardAction = "move"        // Position: absolute target
	CardMoveBack    CardAction = "moveBack"    // Value: spaces backward
	CardMoveNearest CardAction = "moveNearest" // Value: 2 = railroad, 10 = utility
	CardJail        CardAction = "jail"
	CardJailFree    CardAction = "jailFree"
	CardRepairs     CardAction = "repairs" // PerHouse, PerHotel
)

const (
	CardTypeChance    = "chance"
	CardTypeCommunity = "community"
)

type Card struct {
	Id       int        `json:"id"`
	Type     string     `json:"type"`
	Text     string     `json:"text"`
	Action   CardAction `json:"action"`
	Value    int        `json:"value,omitempty"`
	Position int        `json:"position,omitempty"`
	PerHouse int        `json:"perHouse,omitempty"`
	PerHotel int        `json:"perHotel,omitempty"`
}
