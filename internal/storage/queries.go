package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pable/go-ns2-stats/internal/model"
)

const gameColumns = `id, round_date, winning_team, round_length, map_name, marine_com, alien_com, marine_played, alien_played`

// GameExists returns true if a game with the given id is already stored.
func (db *DB) GameExists(ctx context.Context, id string) (bool, error) {
	var count int
	err := db.conn.QueryRowContext(ctx, "SELECT COUNT(1) FROM games WHERE id = ?", id).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertGame stores a game with its players and RT graphs in one transaction.
// Re-inserting the same id replaces the previous rows.
func (db *DB) InsertGame(ctx context.Context, g *model.GameSummary, source string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"game_players", "rt_samples"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE game_id = ?", g.ID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO games(id, round_date, winning_team, round_length, map_name,
			marine_com, alien_com, marine_played, alien_played, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.RoundDate, int(g.WinningTeam), g.RoundLength, g.MapName,
		nullString(g.Marines.Commander), nullString(g.Aliens.Commander),
		g.Marines.Played, g.Aliens.Played, source,
	)
	if err != nil {
		return fmt.Errorf("insert game: %w", err)
	}

	players, err := tx.PrepareContext(ctx, `
		INSERT INTO game_players(game_id, name, team, kills, assists, deaths, score, hits, misses)
		VALUES (?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer players.Close()

	samples, err := tx.PrepareContext(ctx, `
		INSERT INTO rt_samples(game_id, team, seq, time, value) VALUES (?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer samples.Close()

	for _, team := range []model.Team{model.TeamMarines, model.TeamAliens} {
		side := g.Side(team)
		for name, p := range side.Players {
			_, err = players.ExecContext(ctx, g.ID, name, int(team),
				p.Kills, p.Assists, p.Deaths, p.Score, p.Hits, p.Misses)
			if err != nil {
				return fmt.Errorf("insert player %q: %w", name, err)
			}
		}
		for i, s := range side.RTGraph {
			if _, err = samples.ExecContext(ctx, g.ID, int(team), i, s.Time, s.Value); err != nil {
				return fmt.Errorf("insert rt sample: %w", err)
			}
		}
	}
	return tx.Commit()
}

// ListGames returns every stored game inside r, oldest first.
func (db *DB) ListGames(ctx context.Context, r model.Range) ([]model.GameSummary, error) {
	var (
		where []string
		args  []any
	)
	if r.From != nil {
		where = append(where, "round_date >= ?")
		args = append(args, *r.From)
	}
	if r.To != nil {
		where = append(where, "round_date <= ?")
		args = append(args, *r.To)
	}
	query := "SELECT " + gameColumns + " FROM games"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY round_date ASC, id ASC"

	games, err := db.queryGames(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if err := db.fillGames(ctx, games); err != nil {
		return nil, err
	}
	return games, nil
}

// LatestGame returns the game with the greatest round date, or nil when the store is empty.
func (db *DB) LatestGame(ctx context.Context) (*model.GameSummary, error) {
	return db.oneGame(ctx, "SELECT "+gameColumns+" FROM games ORDER BY round_date DESC, id DESC LIMIT 1")
}

// GetGameByPrefix finds the first game whose id starts with the given prefix.
func (db *DB) GetGameByPrefix(ctx context.Context, prefix string) (*model.GameSummary, error) {
	return db.oneGame(ctx, "SELECT "+gameColumns+" FROM games WHERE id LIKE ? ORDER BY id LIMIT 1", prefix+"%")
}

// CountGames returns the number of stored games.
func (db *DB) CountGames(ctx context.Context) (int, error) {
	var n int
	err := db.conn.QueryRowContext(ctx, "SELECT COUNT(1) FROM games").Scan(&n)
	return n, err
}

func (db *DB) oneGame(ctx context.Context, query string, args ...any) (*model.GameSummary, error) {
	games, err := db.queryGames(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, nil
	}
	if err := db.fillGames(ctx, games); err != nil {
		return nil, err
	}
	return &games[0], nil
}

func (db *DB) queryGames(ctx context.Context, query string, args ...any) ([]model.GameSummary, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.GameSummary
	for rows.Next() {
		var (
			g         model.GameSummary
			winner    int
			marineCom sql.NullString
			alienCom  sql.NullString
			marines   int
			aliens    int
		)
		if err := rows.Scan(&g.ID, &g.RoundDate, &winner, &g.RoundLength, &g.MapName,
			&marineCom, &alienCom, &marines, &aliens); err != nil {
			return nil, err
		}
		g.WinningTeam = model.WinningTeam(winner)
		g.Marines = model.TeamSummary{Players: map[string]model.PlayerSummary{}, Commander: stringPtr(marineCom), Played: marines}
		g.Aliens = model.TeamSummary{Players: map[string]model.PlayerSummary{}, Commander: stringPtr(alienCom), Played: aliens}
		out = append(out, g)
	}
	return out, rows.Err()
}

// fillGames loads players and RT samples for games. The game rows must already
// be closed so a single connection can serve both reads.
func (db *DB) fillGames(ctx context.Context, games []model.GameSummary) error {
	if len(games) == 0 {
		return nil
	}
	index := make(map[string]*model.GameSummary, len(games))
	ids := make([]any, 0, len(games))
	for i := range games {
		index[games[i].ID] = &games[i]
		ids = append(ids, games[i].ID)
	}

	// SQLite caps bound parameters, so large ranges are loaded in chunks.
	for start := 0; start < len(ids); start += maxParams {
		chunk := ids[start:min(start+maxParams, len(ids))]
		if err := db.fillPlayers(ctx, index, chunk); err != nil {
			return err
		}
		if err := db.fillSamples(ctx, index, chunk); err != nil {
			return err
		}
	}
	return nil
}

const maxParams = 500

func (db *DB) fillPlayers(ctx context.Context, index map[string]*model.GameSummary, ids []any) error {
	rows, err := db.conn.QueryContext(ctx, fmt.Sprintf(`
		SELECT game_id, name, team, kills, assists, deaths, score, hits, misses
		FROM game_players WHERE game_id IN (%s)`, placeholders(len(ids))), ids...)
	if err != nil {
		return fmt.Errorf("query players: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id, name string
			team     int
			p        model.PlayerSummary
		)
		if err := rows.Scan(&id, &name, &team, &p.Kills, &p.Assists, &p.Deaths, &p.Score, &p.Hits, &p.Misses); err != nil {
			return err
		}
		g := index[id]
		if model.Team(team) == model.TeamAliens {
			g.Aliens.Players[name] = p
		} else {
			g.Marines.Players[name] = p
		}
	}
	return rows.Err()
}

func (db *DB) fillSamples(ctx context.Context, index map[string]*model.GameSummary, ids []any) error {
	rows, err := db.conn.QueryContext(ctx, fmt.Sprintf(`
		SELECT game_id, team, time, value
		FROM rt_samples WHERE game_id IN (%s) ORDER BY game_id, team, seq`, placeholders(len(ids))), ids...)
	if err != nil {
		return fmt.Errorf("query rt samples: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id   string
			team int
			s    model.RTSample
		)
		if err := rows.Scan(&id, &team, &s.Time, &s.Value); err != nil {
			return err
		}
		g := index[id]
		if model.Team(team) == model.TeamAliens {
			g.Aliens.RTGraph = append(g.Aliens.RTGraph, s)
		} else {
			g.Marines.RTGraph = append(g.Marines.RTGraph, s)
		}
	}
	return rows.Err()
}

// PlayerGameCount holds how many stored games one player appears in.
type PlayerGameCount struct {
	Name  string
	Games int
}

// PlayerGameCounts returns, for each name, the number of stored games they
// played. Names with no games are included with a zero count.
func (db *DB) PlayerGameCounts(ctx context.Context, names []string) ([]PlayerGameCount, error) {
	if len(names) == 0 {
		return nil, nil
	}
	args := make([]any, len(names))
	for i, n := range names {
		args[i] = n
	}
	rows, err := db.conn.QueryContext(ctx, fmt.Sprintf(`
		SELECT name, COUNT(DISTINCT game_id) FROM game_players
		WHERE name IN (%s) GROUP BY name`, placeholders(len(names))), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int, len(names))
	for rows.Next() {
		var c PlayerGameCount
		if err := rows.Scan(&c.Name, &c.Games); err != nil {
			return nil, err
		}
		counts[c.Name] = c.Games
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]PlayerGameCount, len(names))
	for i, n := range names {
		out[i] = PlayerGameCount{Name: n, Games: counts[n]}
	}
	return out, nil
}

// QueryRaw runs an arbitrary query and returns column names and stringified rows.
func (db *DB) QueryRaw(ctx context.Context, query string) ([]string, [][]string, error) {
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

// GameSources maps every stored game id to the file it was ingested from.
func (db *DB) GameSources(ctx context.Context) (map[string]string, error) {
	rows, err := db.conn.QueryContext(ctx, "SELECT id, source FROM games")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var id, source string
		if err := rows.Scan(&id, &source); err != nil {
			return nil, err
		}
		out[id] = source
	}
	return out, rows.Err()
}

// DeleteGame removes a game and its child rows. It reports whether a game was removed.
func (db *DB) DeleteGame(ctx context.Context, id string) (bool, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	for _, table := range []string{"game_players", "rt_samples"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE game_id = ?", id); err != nil {
			return false, fmt.Errorf("delete %s: %w", table, err)
		}
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM games WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("delete game: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, tx.Commit()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}

// Overview summarizes what the store holds.
type Overview struct {
	Games     int
	Players   int
	Maps      int
	FirstGame int64 // unix seconds, 0 when empty
	LastGame  int64
}

// Overview returns store-wide counts.
func (db *DB) Overview(ctx context.Context) (Overview, error) {
	var (
		o           Overview
		first, last sql.NullInt64
	)
	err := db.conn.QueryRowContext(ctx, `
		SELECT COUNT(1), COUNT(DISTINCT map_name), MIN(round_date), MAX(round_date) FROM games`).
		Scan(&o.Games, &o.Maps, &first, &last)
	if err != nil {
		return o, fmt.Errorf("overview: %w", err)
	}
	o.FirstGame, o.LastGame = first.Int64, last.Int64
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(DISTINCT name) FROM game_players").Scan(&o.Players); err != nil {
		return o, fmt.Errorf("overview players: %w", err)
	}
	return o, nil
}
