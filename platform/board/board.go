// Package board holds the static Monopoly board tables: the 40 positions and
// the two 16-card decks. Everything here is immutable; games clone what they
// mutate.
package board

import (
	_ "embed"
	"encoding/json"
	"errors"

	"github.com/DedS3t/monopoly-engine/app/models"
)

//go:embed properties.json
var propertiesJSON []byte

//go:embed cards.json
var cardsJSON []byte

var (
	properties []models.Property
	cards      []models.Card
)

func init() {
	if err := json.Unmarshal(propertiesJSON, &properties); err != nil {
		panic(err)
	}
	if err := json.Unmarshal(cardsJSON, &cards); err != nil {
		panic(err)
	}
}

// Named positions and tile groups.
const (
	PosGo          = 0
	PosJail        = 10
	PosFreeParking = 20
	PosGoToJail    = 30
	PosIncomeTax   = 4
	PosLuxuryTax   = 38

	BoardSize = 40

	JailFine = 50
	GoBonus  = 200
)

var (
	ChancePositions    = []int{7, 22, 36}
	CommunityPositions = []int{2, 17, 33}
	RailroadPositions  = []int{5, 15, 25, 35}
	UtilityPositions   = []int{12, 28}
)

func contains(positions []int, pos int) bool {
	for _, p := range positions {
		if p == pos {
			return true
		}
	}
	return false
}

func IsChance(pos int) bool    { return contains(ChancePositions, pos) }
func IsCommunity(pos int) bool { return contains(CommunityPositions, pos) }

// CloneProperties deep-copies the templates into fresh mutable records for
// one game. Two games must never share a Property record.
func CloneProperties() []*models.Property {
	out := make([]*models.Property, len(properties))
	for i, template := range properties {
		p := template
		p.Rent = append([]int(nil), template.Rent...)
		out[i] = &p
	}
	return out
}

func GetByPos(pos int, properties []*models.Property) (*models.Property, error) {
	for _, property := range properties {
		if property.Id == pos {
			return property, nil
		}
	}
	return nil, errors.New("not found")
}

// GetCard looks a card up by id across both decks.
func GetCard(id int) (models.Card, error) {
	for _, card := range cards {
		if card.Id == id {
			return card, nil
		}
	}
	return models.Card{}, errors.New("not found")
}

// ChanceCardIds and CommunityCardIds return the unshuffled deck contents.
func ChanceCardIds() []int    { return cardIdsOfType(models.CardTypeChance) }
func CommunityCardIds() []int { return cardIdsOfType(models.CardTypeCommunity) }

func cardIdsOfType(cardType string) []int {
	var ids []int
	for _, card := range cards {
		if card.Type == cardType {
			ids = append(ids, card.Id)
		}
	}
	return ids
}
