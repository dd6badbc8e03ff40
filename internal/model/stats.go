package model

// NoGames is the LatestGame value of a Stats built from no games.
const NoGames int64 = 0

// Stat is a counter split by the team it was earned on. Total always equals Marines + Aliens.
type Stat struct {
	Total   int `json:"total"`
	Marines int `json:"marines"`
	Aliens  int `json:"aliens"`
}

// Add credits n to the given team's bucket.
func (s *Stat) Add(t Team, n int) {
	switch t {
	case TeamMarines:
		s.Marines += n
	case TeamAliens:
		s.Aliens += n
	default:
		return
	}
	s.Total += n
}

// Plus returns the field-wise sum of s and o.
func (s Stat) Plus(o Stat) Stat {
	return Stat{Total: s.Total + o.Total, Marines: s.Marines + o.Marines, Aliens: s.Aliens + o.Aliens}
}

// Side returns the bucket for one team.
func (s Stat) Side(t Team) int {
	switch t {
	case TeamMarines:
		return s.Marines
	case TeamAliens:
		return s.Aliens
	default:
		return s.Total
	}
}

// UserStats holds one player's counters accumulated across games.
type UserStats struct {
	Games     Stat `json:"games"`
	Commander Stat `json:"commander"`
	Wins      Stat `json:"wins"`
	Kills     Stat `json:"kills"`
	Assists   Stat `json:"assists"`
	Deaths    Stat `json:"deaths"`
	Score     Stat `json:"score"`
	Hits      Stat `json:"hits"`
	Misses    Stat `json:"misses"`
}

// Plus returns the field-wise sum of u and o.
func (u UserStats) Plus(o UserStats) UserStats {
	return UserStats{
		Games:     u.Games.Plus(o.Games),
		Commander: u.Commander.Plus(o.Commander),
		Wins:      u.Wins.Plus(o.Wins),
		Kills:     u.Kills.Plus(o.Kills),
		Assists:   u.Assists.Plus(o.Assists),
		Deaths:    u.Deaths.Plus(o.Deaths),
		Score:     u.Score.Plus(o.Score),
		Hits:      u.Hits.Plus(o.Hits),
		Misses:    u.Misses.Plus(o.Misses),
	}
}

func (u *UserStats) KD() float64 {
	if u.Deaths.Total == 0 {
		return float64(u.Kills.Total)
	}
	return float64(u.Kills.Total) / float64(u.Deaths.Total)
}

func (u *UserStats) KDA() float64 {
	if u.Deaths.Total == 0 {
		return float64(u.Kills.Total + u.Assists.Total)
	}
	return float64(u.Kills.Total+u.Assists.Total) / float64(u.Deaths.Total)
}

// Accuracy is hits over attacks, in percent.
func (u *UserStats) Accuracy() float64 {
	attacks := u.Hits.Total + u.Misses.Total
	if attacks == 0 {
		return 0
	}
	return float64(u.Hits.Total) / float64(attacks) * 100
}

func (u *UserStats) WinRate() float64 {
	if u.Games.Total == 0 {
		return 0
	}
	return float64(u.Wins.Total) / float64(u.Games.Total) * 100
}

// ScorePerGame is the average score on one side, or overall for TeamUnknown.
func (u *UserStats) ScorePerGame(t Team) float64 {
	games := u.Games.Side(t)
	if games == 0 {
		return 0
	}
	return float64(u.Score.Side(t)) / float64(games)
}

// MapStats holds per-map round outcomes. Draws count toward TotalGames only.
type MapStats struct {
	TotalGames int `json:"total_games"`
	MarineWins int `json:"marine_wins"`
	AlienWins  int `json:"alien_wins"`
}

// Plus returns the field-wise sum of m and o.
func (m MapStats) Plus(o MapStats) MapStats {
	return MapStats{
		TotalGames: m.TotalGames + o.TotalGames,
		MarineWins: m.MarineWins + o.MarineWins,
		AlienWins:  m.AlienWins + o.AlienWins,
	}
}

func (m *MapStats) MarineWinRate() float64 {
	if m.TotalGames == 0 {
		return 0
	}
	return float64(m.MarineWins) / float64(m.TotalGames) * 100
}

func (m *MapStats) Draws() int {
	return m.TotalGames - m.MarineWins - m.AlienWins
}

// Stats is an aggregated snapshot over a set of games.
type Stats struct {
	LatestGame int64                `json:"latest_game"` // NoGames when empty
	Users      map[string]UserStats `json:"users"`
	Maps       map[string]MapStats  `json:"maps"`
	TotalGames int                  `json:"total_games"`
	MarineWins int                  `json:"marine_wins"`
	AlienWins  int                  `json:"alien_wins"`
}

// NewStats returns an empty snapshot with non-nil maps.
func NewStats() Stats {
	return Stats{
		LatestGame: NoGames,
		Users:      make(map[string]UserStats),
		Maps:       make(map[string]MapStats),
	}
}

// Clone returns a deep copy of s.
func (s Stats) Clone() Stats {
	out := s
	out.Users = make(map[string]UserStats, len(s.Users))
	for k, v := range s.Users {
		out.Users[k] = v
	}
	out.Maps = make(map[string]MapStats, len(s.Maps))
	for k, v := range s.Maps {
		out.Maps[k] = v
	}
	return out
}

func (s *Stats) MarineWinRate() float64 {
	if s.TotalGames == 0 {
		return 0
	}
	return float64(s.MarineWins) / float64(s.TotalGames) * 100
}

// Snapshot is the cumulative Stats right after the game played at Timestamp.
type Snapshot struct {
	Timestamp int64 `json:"timestamp"`
	Stats     Stats `json:"stats"`
}
