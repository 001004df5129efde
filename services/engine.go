package services

import (
	"context"
	"fmt"
	"math"

	"meal-battle-system/models"
	"meal-battle-system/utils"
)

// Default odds model. Price dominates the score; difficulty carries a small
// handicap and longer names add a nudge.
const (
	scorePriceWeight   = 10.0
	scorePenaltyWeight = 5.0
	scoreNameWeight    = 0.5
	oddsSteepness      = 0.05
)

func difficultyPenalty(difficulty string) float64 {
	switch difficulty {
	case models.DifficultyHigh:
		return 3
	case models.DifficultyMed:
		return 2
	default:
		return 1
	}
}

// DefaultScore rates a meal for battle resolution.
func DefaultScore(m models.Meal) float64 {
	return m.Price*scorePriceWeight -
		difficultyPenalty(m.Difficulty)*scorePenaltyWeight +
		scoreNameWeight*float64(len(m.Name))
}

// BattleOutcome reports one resolved battle. Nothing here is persisted; the
// stats ledger only records who won and who lost.
type BattleOutcome struct {
	Winner      models.Meal `json:"winner"`
	Loser       models.Meal `json:"loser"`
	WinnerScore float64     `json:"winner_score"`
	LoserScore  float64     `json:"loser_score"`
	Delta       float64     `json:"delta"` // normalized score gap in [0,1)
	Roll        float64     `json:"roll"`  // the uniform draw that settled it
}

// BattleEngine resolves battles between two meals. Score and Draws are both
// pluggable.
type BattleEngine struct {
	Score     func(models.Meal) float64
	Steepness float64
	Draws     utils.DrawSource
}

func NewBattleEngine(draws utils.DrawSource) *BattleEngine {
	return &BattleEngine{
		Score:     DefaultScore,
		Steepness: oddsSteepness,
		Draws:     draws,
	}
}

// Resolve scores both meals, squashes the score gap into a win probability
// and settles the battle with a single uniform draw. Equal scores are an
// exact coin flip; a growing gap pushes the favourite's odds toward (not to)
// certainty. No state is touched.
func (e *BattleEngine) Resolve(ctx context.Context, a, b models.Meal) (BattleOutcome, error) {
	scoreA := e.Score(a)
	scoreB := e.Score(b)

	gap := math.Abs(scoreA - scoreB)
	delta := 2/(1+math.Exp(-e.Steepness*gap)) - 1

	roll, err := e.Draws.Draw(ctx)
	if err != nil {
		return BattleOutcome{}, fmt.Errorf("%w: %v", ErrDrawFailed, err)
	}

	favourite, underdog := a, b
	favScore, dogScore := scoreA, scoreB
	if scoreB > scoreA {
		favourite, underdog = b, a
		favScore, dogScore = scoreB, scoreA
	}

	out := BattleOutcome{Delta: delta, Roll: roll}
	if roll < 0.5+delta/2 {
		out.Winner, out.Loser = favourite, underdog
		out.WinnerScore, out.LoserScore = favScore, dogScore
	} else {
		out.Winner, out.Loser = underdog, favourite
		out.WinnerScore, out.LoserScore = dogScore, favScore
	}
	return out, nil
}
