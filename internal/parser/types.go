package parser

// The types below mirror the parts of the NS2 round-stats JSON we read.
// Unknown fields are ignored by the decoder.

type rawRound struct {
	PlayerStats map[string]rawPlayer `json:"PlayerStats"` // keyed by steam id
	RoundInfo   rawRoundInfo         `json:"RoundInfo"`
	Buildings   []rawBuilding        `json:"Buildings"`
}

type rawRoundInfo struct {
	RoundDate   int64   `json:"roundDate"`
	WinningTeam int     `json:"winningTeam"`
	RoundLength float64 `json:"roundLength"`
	MapName     string  `json:"mapName"`
}

type rawPlayer struct {
	Marines    rawTeamStats `json:"1"`
	Aliens     rawTeamStats `json:"2"`
	LastTeam   int          `json:"lastTeam"`
	PlayerName string       `json:"playerName"`
	HiveSkill  int          `json:"hiveSkill"`
}

type rawTeamStats struct {
	Kills         int     `json:"kills"`
	Deaths        int     `json:"deaths"`
	Assists       int     `json:"assists"`
	Score         int     `json:"score"`
	Hits          int     `json:"hits"`
	Misses        int     `json:"misses"`
	TimePlayed    float64 `json:"timePlayed"`
	CommanderTime float64 `json:"commanderTime"`
}

type rawBuilding struct {
	Team      int     `json:"teamNumber"`
	TechID    string  `json:"techId"`
	GameTime  float64 `json:"gameTime"`
	Built     bool    `json:"built"`
	Destroyed bool    `json:"destroyed"`
	Recycled  bool    `json:"recycled"`
}
