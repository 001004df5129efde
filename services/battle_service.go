package services

import (
	"context"
	"fmt"
	"os"
	"sync"

	"meal-battle-system/models"
)

// RosterCapacity is how many combatants can be prepped at once.
const RosterCapacity = 2

// MealFinder resolves a user-supplied identifier against the live catalog.
// *MealService is the production implementation.
type MealFinder interface {
	FindMealByIdentifier(identifier string) (models.Meal, error)
}

// ResultRecorder persists one battle result. *StatsService is the
// production implementation.
type ResultRecorder interface {
	RecordResult(winnerID, loserID string) error
}

// BattleService holds the single global combatant roster. One mutex covers
// every roster operation including the whole prep→resolve→record→mutate
// sequence of RunBattle, so concurrent callers always observe a consistent
// roster and the meals scored are exactly the meals recorded.
type BattleService struct {
	mu     sync.Mutex
	roster []models.Meal

	Meals  MealFinder
	Stats  ResultRecorder
	Engine *BattleEngine

	// ClearAll empties the whole roster after a battle instead of only
	// removing the loser.
	ClearAll bool
}

func NewBattleService(meals MealFinder, stats ResultRecorder, engine *BattleEngine) *BattleService {
	return &BattleService{
		Meals:    meals,
		Stats:    stats,
		Engine:   engine,
		ClearAll: os.Getenv("BATTLE_CLEAR_POLICY") == "all",
	}
}

// PrepCombatant resolves the identifier and appends the meal to the roster.
// Returns ErrRosterFull when two combatants are already prepped and
// ErrMealNotFound when the identifier matches no live meal.
func (s *BattleService) PrepCombatant(identifier string) (models.Meal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.roster) >= RosterCapacity {
		return models.Meal{}, ErrRosterFull
	}

	meal, err := s.Meals.FindMealByIdentifier(identifier)
	if err != nil {
		return models.Meal{}, err
	}

	s.roster = append(s.roster, meal)
	return meal, nil
}

// ClearCombatants empties the roster. Idempotent.
func (s *BattleService) ClearCombatants() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roster = s.roster[:0]
}

// Combatants returns a copy of the roster in prep order.
func (s *BattleService) Combatants() []models.Meal {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Meal, len(s.roster))
	copy(out, s.roster)
	return out
}

// RunBattle resolves the prepped pair, records the result in the ledger and
// then mutates the roster. A battle needs two distinct meals; the same meal
// prepped in both slots cannot fight itself. On any failure (too few
// combatants, draw error, ledger error) both the roster and the ledger are
// left untouched.
func (s *BattleService) RunBattle(ctx context.Context) (BattleOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.roster) < RosterCapacity || s.roster[0].ID == s.roster[1].ID {
		return BattleOutcome{}, ErrInsufficientCombatants
	}

	out, err := s.Engine.Resolve(ctx, s.roster[0], s.roster[1])
	if err != nil {
		return BattleOutcome{}, err
	}

	if err := s.Stats.RecordResult(out.Winner.ID, out.Loser.ID); err != nil {
		return BattleOutcome{}, fmt.Errorf("failed to record battle result: %w", err)
	}

	if s.ClearAll {
		s.roster = s.roster[:0]
	} else {
		s.removeLoser(out.Loser.ID)
	}
	return out, nil
}

// removeLoser drops the first roster entry with the given id. Caller holds mu.
func (s *BattleService) removeLoser(id string) {
	for i, m := range s.roster {
		if m.ID == id {
			s.roster = append(s.roster[:i], s.roster[i+1:]...)
			return
		}
	}
}
