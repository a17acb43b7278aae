package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/game-tracker/internal/domain/game"
	qb "github.com/riskibarqy/game-tracker/internal/platform/querybuilder"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) GetByID(ctx context.Context, gameID string) (game.Game, bool, error) {
	query, args, err := qb.Select("*").From(gamesTable).
		Where(qb.Eq("public_id", gameID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build select game query: %w", err)
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("select game: %w", err)
	}

	out, err := gameFromRow(row)
	if err != nil {
		return game.Game{}, false, err
	}
	return out, true, nil
}

func (r *GameRepository) Create(ctx context.Context, g game.Game) error {
	teams, err := encodeTeams(g.Teams)
	if err != nil {
		return err
	}
	matches, err := encodeMatches(g.Matches)
	if err != nil {
		return err
	}

	insertModel := gameInsertModel{
		PublicID:    g.ID,
		Name:        g.Name,
		Description: nullableString(g.Description),
		OwnerUserID: g.OwnerID,
		Status:      string(g.Status),
		Teams:       teams,
		Matches:     matches,
		Version:     1,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
	query, args, err := qb.InsertModel(gamesTable, insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert game query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

func (r *GameRepository) Update(ctx context.Context, gameID string, changes game.Changes, cond game.Condition) (game.Game, error) {
	query, args, err := buildConditionalUpdate(gameID, changes, cond)
	if err != nil {
		return game.Game{}, err
	}

	var row gameTableModel
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&row); err != nil {
		if isNotFound(err) {
			return game.Game{}, game.ErrConditionFailed
		}
		return game.Game{}, fmt.Errorf("update game: %w", err)
	}
	return gameFromRow(row)
}

func (r *GameRepository) ListByOwner(ctx context.Context, ownerID string, opts game.ListOptions) ([]game.Game, error) {
	query, args, err := buildListByOwner(ownerID, opts)
	if err != nil {
		return nil, err
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select games by owner: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		item, err := gameFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// buildConditionalUpdate renders the write so that zero affected rows means
// the condition did not hold.
func buildConditionalUpdate(gameID string, changes game.Changes, cond game.Condition) (string, []any, error) {
	if changes.IsEmpty() {
		return "", nil, fmt.Errorf("update game: no changes")
	}

	builder := qb.Update(gamesTable)
	if changes.Status != nil {
		builder.Set("status", string(*changes.Status))
	}
	if changes.Teams != nil {
		encoded, err := encodeTeams(*changes.Teams)
		if err != nil {
			return "", nil, err
		}
		builder.SetExpr("teams", "?::jsonb", encoded)
	}
	if changes.Matches != nil {
		encoded, err := encodeMatches(*changes.Matches)
		if err != nil {
			return "", nil, err
		}
		builder.SetExpr("matches", "?::jsonb", encoded)
	}
	builder.
		SetExpr("version", "version + 1").
		SetExpr("updated_at", "NOW()")

	where := []qb.Condition{qb.Eq("public_id", gameID)}
	if cond.Status != nil {
		where = append(where, qb.Eq("status", string(*cond.Status)))
	}
	if cond.Version != nil {
		where = append(where, qb.Eq("version", *cond.Version))
	}

	query, args, err := builder.Where(where...).Returning("*").ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build update game query: %w", err)
	}
	return query, args, nil
}

func buildListByOwner(ownerID string, opts game.ListOptions) (string, []any, error) {
	where := []qb.Condition{qb.Eq("owner_user_id", ownerID)}
	if !opts.After.IsZero() {
		where = append(where, qb.Gt("created_at", opts.After))
	}
	if !opts.Before.IsZero() {
		where = append(where, qb.Lt("created_at", opts.Before))
	}

	order := []string{"created_at ASC", "public_id ASC"}
	if opts.Descending {
		order = []string{"created_at DESC", "public_id DESC"}
	}

	query, args, err := qb.Select("*").From(gamesTable).
		Where(where...).
		OrderBy(order...).
		Limit(opts.Limit).
		ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build list games query: %w", err)
	}
	return query, args, nil
}

func gameFromRow(row gameTableModel) (game.Game, error) {
	teams, err := decodeTeams(row.Teams)
	if err != nil {
		return game.Game{}, fmt.Errorf("decode teams of game %s: %w", row.PublicID, err)
	}
	matches, err := decodeMatches(row.Matches)
	if err != nil {
		return game.Game{}, fmt.Errorf("decode matches of game %s: %w", row.PublicID, err)
	}

	return game.Game{
		ID:          row.PublicID,
		Name:        row.Name,
		Description: row.Description.String,
		OwnerID:     row.OwnerUserID,
		Status:      game.Status(row.Status),
		Teams:       teams,
		Matches:     matches,
		Version:     row.Version,
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}, nil
}

func encodeTeams(entries []game.TeamEntry) (string, error) {
	docs := make([]teamEntryDocument, 0, len(entries))
	for _, entry := range entries {
		docs = append(docs, teamEntryDocument{
			TeamID:   entry.Team.ID,
			TeamName: entry.Team.Name,
			TeamLogo: entry.Team.Logo,
			Player:   entry.Player,
		})
	}
	raw, err := sonic.MarshalString(docs)
	if err != nil {
		return "", fmt.Errorf("marshal teams: %w", err)
	}
	return raw, nil
}

func decodeTeams(raw []byte) ([]game.TeamEntry, error) {
	var docs []teamEntryDocument
	if len(raw) > 0 {
		if err := sonic.Unmarshal(raw, &docs); err != nil {
			return nil, err
		}
	}
	out := make([]game.TeamEntry, 0, len(docs))
	for _, doc := range docs {
		out = append(out, game.TeamEntry{
			Team:   game.Team{ID: doc.TeamID, Name: doc.TeamName, Logo: doc.TeamLogo},
			Player: doc.Player,
		})
	}
	return out, nil
}

func encodeMatches(entries []game.MatchEntry) (string, error) {
	docs := make([]matchEntryDocument, 0, len(entries))
	for _, entry := range entries {
		docs = append(docs, matchEntryDocument(entry))
	}
	raw, err := sonic.MarshalString(docs)
	if err != nil {
		return "", fmt.Errorf("marshal matches: %w", err)
	}
	return raw, nil
}

func decodeMatches(raw []byte) ([]game.MatchEntry, error) {
	var docs []matchEntryDocument
	if len(raw) > 0 {
		if err := sonic.Unmarshal(raw, &docs); err != nil {
			return nil, err
		}
	}
	out := make([]game.MatchEntry, 0, len(docs))
	for _, doc := range docs {
		out = append(out, game.MatchEntry(doc))
	}
	return out, nil
}

func nullableString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
