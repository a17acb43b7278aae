package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/game-tracker/internal/domain/game"
	"github.com/riskibarqy/game-tracker/internal/domain/gameevent"
	"github.com/riskibarqy/game-tracker/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/game-tracker/internal/platform/id"
	"github.com/riskibarqy/game-tracker/internal/platform/logging"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []gameevent.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event gameevent.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Events() []gameevent.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]gameevent.Event(nil), p.events...)
}

type recordingRecorder struct {
	mu       sync.Mutex
	outcomes map[string][]string
}

func (r *recordingRecorder) ObserveMutation(operation, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.outcomes == nil {
		r.outcomes = make(map[string][]string)
	}
	r.outcomes[operation] = append(r.outcomes[operation], outcome)
}

type gameServiceFixture struct {
	service   *GameService
	repo      *memory.GameRepository
	publisher *recordingPublisher
	recorder  *recordingRecorder
}

func newGameServiceFixture(ids ...string) gameServiceFixture {
	repo := memory.NewGameRepository()
	publisher := &recordingPublisher{}
	recorder := &recordingRecorder{}
	pipeline := NewPipeline(repo, recorder, logging.NewNop(), time.Second)
	service := NewGameService(repo, pipeline, publisher, idgen.NewSequence(ids...), logging.NewNop())
	service.now = func() time.Time { return time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC) }
	return gameServiceFixture{service: service, repo: repo, publisher: publisher, recorder: recorder}
}

func mustCreateGame(t *testing.T, s *GameService, name string) game.Game {
	t.Helper()
	created, err := s.CreateGame(context.Background(), CreateGameInput{OwnerID: "owner-1", Name: name})
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	return created
}

func mustAddTeam(t *testing.T, s *GameService, gameID, teamID string) {
	t.Helper()
	if _, err := s.AddTeam(context.Background(), AddTeamInput{GameID: gameID, TeamID: teamID, TeamName: "Team " + teamID}); err != nil {
		t.Fatalf("add team %s: %v", teamID, err)
	}
}

func TestGameService_CupFlowProducesStandings(t *testing.T) {
	ctx := context.Background()
	f := newGameServiceFixture("game-cup")
	svc := f.service

	created := mustCreateGame(t, svc, "Cup")
	if created.Status != game.StatusDraft || created.ID != "game-cup" {
		t.Fatalf("unexpected created game: %+v", created)
	}

	mustAddTeam(t, svc, created.ID, "A")
	mustAddTeam(t, svc, created.ID, "B")

	activated, err := svc.UpdateGameStatus(ctx, UpdateGameStatusInput{GameID: created.ID, Status: "active"})
	if err != nil {
		t.Fatalf("activate game: %v", err)
	}
	if activated.Status != game.StatusActive {
		t.Fatalf("expected active, got %s", activated.Status)
	}

	if _, err := svc.AddMatch(ctx, AddMatchInput{GameID: created.ID, HomeTeamID: "A", AwayTeamID: "B", HomeScore: 2, AwayScore: 1}); err != nil {
		t.Fatalf("add match: %v", err)
	}

	rows, err := svc.GetStandings(ctx, created.ID)
	if err != nil {
		t.Fatalf("get standings: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected two rows, got %d", len(rows))
	}
	a, b := rows[0], rows[1]
	if a.TeamID != "A" || a.Played != 1 || a.Won != 1 || a.Points != 3 {
		t.Fatalf("unexpected row for A: %+v", a)
	}
	if b.TeamID != "B" || b.Played != 1 || b.Lost != 1 || b.Points != 0 {
		t.Fatalf("unexpected row for B: %+v", b)
	}

	if got := len(f.publisher.Events()); got != 4 {
		t.Fatalf("expected one event per mutation, got %d", got)
	}
}

func TestGameService_ActivateWithOneTeamKeepsDraft(t *testing.T) {
	ctx := context.Background()
	f := newGameServiceFixture("game-1")
	svc := f.service

	created := mustCreateGame(t, svc, "Solo")
	mustAddTeam(t, svc, created.ID, "A")

	_, err := svc.UpdateGameStatus(ctx, UpdateGameStatusInput{GameID: created.ID, Status: "active"})
	if !errors.Is(err, game.ErrInsufficientTeams) {
		t.Fatalf("expected ErrInsufficientTeams, got %v", err)
	}
	if KindOf(err) != KindInsufficientTeams {
		t.Fatalf("unexpected kind: %s", KindOf(err))
	}

	stored, err := svc.GetGame(ctx, created.ID)
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if stored.Status != game.StatusDraft {
		t.Fatalf("expected draft, got %s", stored.Status)
	}
	if got := f.recorder.outcomes["update_status"]; len(got) != 1 || got[0] != OutcomeValidation {
		t.Fatalf("unexpected recorded outcomes: %v", got)
	}
}

func TestGameService_ConcurrentStatusUpdatesOneConflicts(t *testing.T) {
	ctx := context.Background()
	f := newGameServiceFixture("game-1")
	svc := f.service

	created := mustCreateGame(t, svc, "Race")
	mustAddTeam(t, svc, created.ID, "A")
	mustAddTeam(t, svc, created.ID, "B")
	if _, err := svc.UpdateGameStatus(ctx, UpdateGameStatusInput{GameID: created.ID, Status: "active"}); err != nil {
		t.Fatalf("activate: %v", err)
	}

	toStatus := func(target game.Status) Validator {
		return func(current game.Game) (game.Changes, game.Condition, error) {
			if err := game.ValidateStatusChange(current, target); err != nil {
				return game.Changes{}, game.Condition{}, err
			}
			return game.Changes{Status: &target}, game.StatusIs(current.Status), nil
		}
	}

	completeStash, err := svc.pipeline.Validate(ctx, "update_status", created.ID, toStatus(game.StatusCompleted))
	if err != nil {
		t.Fatalf("validate complete: %v", err)
	}
	deleteStash, err := svc.pipeline.Validate(ctx, "update_status", created.ID, toStatus(game.StatusDeleted))
	if err != nil {
		t.Fatalf("validate delete: %v", err)
	}
	if completeStash.Observed.Status != game.StatusActive || deleteStash.Observed.Status != game.StatusActive {
		t.Fatalf("both stashes should observe active")
	}

	if _, err := svc.pipeline.Commit(ctx, completeStash); err != nil {
		t.Fatalf("first commit should win: %v", err)
	}
	_, err = svc.pipeline.Commit(ctx, deleteStash)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if KindOf(err) != KindConflict {
		t.Fatalf("unexpected kind: %s", KindOf(err))
	}

	stored, _ := svc.GetGame(ctx, created.ID)
	if stored.Status != game.StatusCompleted {
		t.Fatalf("expected completed, got %s", stored.Status)
	}
}

func TestGameService_ConcurrentMatchAddsDoNotLoseUpdates(t *testing.T) {
	ctx := context.Background()
	f := newGameServiceFixture("game-1")
	svc := f.service

	created := mustCreateGame(t, svc, "Busy")
	mustAddTeam(t, svc, created.ID, "A")
	mustAddTeam(t, svc, created.ID, "B")
	if _, err := svc.UpdateGameStatus(ctx, UpdateGameStatusInput{GameID: created.ID, Status: "active"}); err != nil {
		t.Fatalf("activate: %v", err)
	}

	const workers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for {
				_, err := svc.AddMatch(ctx, AddMatchInput{GameID: created.ID, HomeTeamID: "A", AwayTeamID: "B", HomeScore: i})
				if errors.Is(err, ErrConflict) {
					continue
				}
				if err != nil {
					t.Errorf("add match: %v", err)
					return
				}
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
		}(i)
	}
	wg.Wait()

	stored, _ := svc.GetGame(ctx, created.ID)
	if len(stored.Matches) != succeeded || succeeded != workers {
		t.Fatalf("expected %d matches, got %d (succeeded=%d)", workers, len(stored.Matches), succeeded)
	}
}

func TestGameService_DeleteMatchOutOfRangeLeavesMatches(t *testing.T) {
	ctx := context.Background()
	f := newGameServiceFixture("game-1")
	svc := f.service

	created := mustCreateGame(t, svc, "League")
	mustAddTeam(t, svc, created.ID, "A")
	mustAddTeam(t, svc, created.ID, "B")
	if _, err := svc.UpdateGameStatus(ctx, UpdateGameStatusInput{GameID: created.ID, Status: "active"}); err != nil {
		t.Fatalf("activate: %v", err)
	}
	for _, score := range []int{1, 2} {
		if _, err := svc.AddMatch(ctx, AddMatchInput{GameID: created.ID, HomeTeamID: "A", AwayTeamID: "B", HomeScore: score}); err != nil {
			t.Fatalf("add match: %v", err)
		}
	}

	_, err := svc.DeleteMatch(ctx, DeleteMatchInput{GameID: created.ID, MatchIndex: 5})
	if !errors.Is(err, game.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}

	stored, _ := svc.GetGame(ctx, created.ID)
	if len(stored.Matches) != 2 || stored.Matches[0].HomeScore != 1 || stored.Matches[1].HomeScore != 2 {
		t.Fatalf("matches changed: %+v", stored.Matches)
	}

	updated, err := svc.DeleteMatch(ctx, DeleteMatchInput{GameID: created.ID, MatchIndex: 0})
	if err != nil {
		t.Fatalf("delete match: %v", err)
	}
	if len(updated.Matches) != 1 || updated.Matches[0].HomeScore != 2 {
		t.Fatalf("unexpected matches after delete: %+v", updated.Matches)
	}
}

func TestGameService_TeamEditsRequireDraft(t *testing.T) {
	ctx := context.Background()
	f := newGameServiceFixture("game-1")
	svc := f.service

	created := mustCreateGame(t, svc, "Locked")
	mustAddTeam(t, svc, created.ID, "A")

	_, err := svc.AddTeam(ctx, AddTeamInput{GameID: created.ID, TeamID: "A", TeamName: "Again"})
	if KindOf(err) != KindDuplicateTeam {
		t.Fatalf("expected DuplicateTeam, got %v", err)
	}

	mustAddTeam(t, svc, created.ID, "B")
	if _, err := svc.UpdateGameStatus(ctx, UpdateGameStatusInput{GameID: created.ID, Status: "active"}); err != nil {
		t.Fatalf("activate: %v", err)
	}

	_, err = svc.RemoveTeam(ctx, RemoveTeamInput{GameID: created.ID, TeamID: "A"})
	if !errors.Is(err, game.ErrWrongStatus) || KindOf(err) != KindValidation {
		t.Fatalf("expected validation error for active game, got %v", err)
	}
}

func TestGameService_ErrorsForMissingGameAndBadInput(t *testing.T) {
	ctx := context.Background()
	svc := newGameServiceFixture().service

	if _, err := svc.UpdateGameStatus(ctx, UpdateGameStatusInput{GameID: "missing", Status: "active"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.UpdateGameStatus(ctx, UpdateGameStatusInput{GameID: "missing", Status: "paused"}); KindOf(err) != KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.CreateGame(ctx, CreateGameInput{OwnerID: "u1"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.ListGamesByOwner(ctx, ListGamesInput{OwnerID: "u1", Limit: -1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestGameService_ListGamesByOwner(t *testing.T) {
	ctx := context.Background()
	f := newGameServiceFixture("g1", "g2")
	svc := f.service

	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }
	mustCreateGame(t, svc, "first")
	svc.now = func() time.Time { return base.Add(time.Hour) }
	mustCreateGame(t, svc, "second")

	items, err := svc.ListGamesByOwner(ctx, ListGamesInput{OwnerID: "owner-1", Descending: true})
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(items) != 2 || items[0].ID != "g2" || items[1].ID != "g1" {
		t.Fatalf("unexpected order: %+v", items)
	}
}
