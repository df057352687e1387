package models

// Coarse game phase.
const (
	PhaseLobby       = "lobby"
	PhaseColorSelect = "color-select"
	PhasePlaying     = "playing"
	PhaseAuction     = "auction"
	PhaseEnded       = "ended"
)

// Fine turn phase. jail-decision substitutes for roll while the mover is
// incarcerated.
const (
	TurnWaiting      = "waiting"
	TurnRoll         = "roll"
	TurnMoving       = "moving"
	TurnAction       = "action"
	TurnCard         = "card"
	TurnJailDecision = "jail-decision"
	TurnEnd          = "end"
)

type GameSettings struct {
	MaxPlayers       int  `json:"maxPlayers"`
	StartingMoney    int  `json:"startingMoney"`
	TurnTimeLimit    int  `json:"turnTimeLimit"` // seconds, 0 = unlimited
	FreeParking      bool `json:"freeParking"`
	DoubleOnGo       bool `json:"doubleOnGo"`
	AuctionEnabled   bool `json:"auctionEnabled"`
	EvenBuildRule    bool `json:"evenBuildRule"`
	MortgageInterest int  `json:"mortgageInterest"` // percent
}

func DefaultSettings() GameSettings {
	return GameSettings{
		MaxPlayers:       8,
		StartingMoney:    1500,
		TurnTimeLimit:    60,
		FreeParking:      false,
		DoubleOnGo:       false,
		AuctionEnabled:   true,
		EvenBuildRule:    true,
		MortgageInterest: 10,
	}
}

type Auction struct {
	PropertyId      int      `json:"propertyId"`
	CurrentBid      int      `json:"currentBid"` // 0 = no bid yet
	CurrentBidderId string   `json:"currentBidderId"`
	Participants    []string `json:"participants"`
	TimeRemaining   int      `json:"timeRemaining"` // seconds
	IsActive        bool     `json:"isActive"`
}

const (
	TradePending   = "pending"
	TradeAccepted  = "accepted"
	TradeRejected  = "rejected"
	TradeCancelled = "cancelled"
)

// TradeOffer is append-only: offers are never removed from the state, only
// status-transitioned.
type TradeOffer struct {
	Id                string `json:"id"`
	FromPlayerId      string `json:"fromPlayerId"`
	ToPlayerId        string `json:"toPlayerId"`
	OfferMoney        int    `json:"offerMoney"`
	OfferProperties   []int  `json:"offerProperties"`
	OfferJailCards    int    `json:"offerJailCards"`
	RequestMoney      int    `json:"requestMoney"`
	RequestProperties []int  `json:"requestProperties"`
	RequestJailCards  int    `json:"requestJailCards"`
	Status            string `json:"status"`
	CreatedAt         int64  `json:"createdAt"`
}

// GameState is the aggregate root for one room. It is owned exclusively by
// one engine instance and mutated only under that engine's lock.
type GameState struct {
	RoomId          string       `json:"roomId"`
	RoomCode        string       `json:"roomCode"`
	Players         []*Player    `json:"players"` // array order = turn order
	Properties      []*Property  `json:"properties"`
	CurrentPlayerId string       `json:"currentPlayerId"`
	GamePhase       string       `json:"gamePhase"`
	TurnPhase       string       `json:"turnPhase"`
	Settings        GameSettings `json:"settings"`

	Dice         [2]int `json:"dice"`
	LastRoll     int    `json:"lastRoll"`
	DoublesCount int    `json:"doublesCount"`

	// Shuffled card ids with wrapping draw cursors; decks never deplete.
	ChanceCards    []int `json:"chanceCards"`
	CommunityCards []int `json:"communityCards"`
	ChanceIndex    int   `json:"chanceIndex"`
	CommunityIndex int   `json:"communityIndex"`

	Auction *Auction      `json:"auction"`
	Trades  []*TradeOffer `json:"trades"`

	FreeParkingPot int `json:"freeParkingPot"`

	Winner *Player `json:"winner"`

	TurnStartTime int64 `json:"turnStartTime"`
	GameStartTime int64 `json:"gameStartTime"`
}
