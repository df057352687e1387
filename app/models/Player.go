package models

// PlayerColor is one of the selectable token colors. Each color may be held
// by at most one player per room.
type PlayerColor struct {
	Id   string `json:"id"`
	Hex  string `json:"hex"`
	Name string `json:"name"`
}

var PlayerColors = []PlayerColor{
	{Id: "red", Hex: "#ef4444", Name: "Red"},
	{Id: "blue", Hex: "#3b82f6", Name: "Blue"},
	{Id: "green", Hex: "#22c55e", Name: "Green"},
	{Id: "yellow", Hex: "#f59e0b", Name: "Yellow"},
	{Id: "purple", Hex: "#8b5cf6", Name: "Purple"},
	{Id: "pink", Hex: "#ec4899", Name: "Pink"},
	{Id: "cyan", Hex: "#06b6d4", Name: "Cyan"},
	{Id: "orange", Hex: "#f97316", Name: "Orange"},
}

func GetColor(colorId string) (PlayerColor, bool) {
	for _, c := range PlayerColors {
		if c.Id == colorId {
			return c, true
		}
	}
	return PlayerColor{}, false
}

// Player is one seat in a room. Money may go negative transiently while a
// debt is being settled; the engine decides bankruptcy afterwards.
type Player struct {
	Id            string `json:"id"`
	Name          string `json:"name"`
	ColorId       string `json:"colorId"`
	Color         string `json:"color"`
	Money         int    `json:"money"`
	Position      int    `json:"position"`
	Properties    []int  `json:"properties"`
	InJail        bool   `json:"inJail"`
	JailTurns     int    `json:"jailTurns"`
	JailFreeCards int    `json:"jailFreeCards"`
	IsBankrupt    bool   `json:"isBankrupt"`
	IsConnected   bool   `json:"isConnected"`
	IsReady       bool   `json:"isReady"`
	IsHost        bool   `json:"isHost"`
}
