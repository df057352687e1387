package models

type User struct {
	Id       string `json:"id"`
	Email    string `json:"email"`
	Password string `json:"-"`
}

type UserDto struct {
	Email string `json:"email"`
	Pass  string `json:"pass"`
}

// GameResult is the persisted record of a finished game.
type GameResult struct {
	Id          string `json:"id"`
	RoomCode    string `json:"roomCode"`
	WinnerId    string `json:"winnerId"`
	WinnerName  string `json:"winnerName"`
	PlayerCount int    `json:"playerCount"`
	DurationSec int64  `json:"durationSec"`
	FinishedAt  int64  `json:"finishedAt"`
}
