package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"meal-battle-system/models"
	"meal-battle-system/utils"
)

// fixedDraws replays a fixed sequence of values, looping when exhausted.
type fixedDraws struct {
	values []float64
	i      int
}

func (f *fixedDraws) Draw(ctx context.Context) (float64, error) {
	v := f.values[f.i%len(f.values)]
	f.i++
	return v, nil
}

type failingDraws struct{}

func (failingDraws) Draw(ctx context.Context) (float64, error) {
	return 0, errors.New("boom")
}

func TestDefaultScore(t *testing.T) {
	tests := []struct {
		name string
		meal models.Meal
		want float64
	}{
		{
			name: "medium difficulty",
			meal: models.Meal{Name: "Pho", Price: 10, Difficulty: models.DifficultyMed},
			want: 91.5, // 100 - 10 + 1.5
		},
		{
			name: "high difficulty",
			meal: models.Meal{Name: "Ramen", Price: 12.5, Difficulty: models.DifficultyHigh},
			want: 112.5, // 125 - 15 + 2.5
		},
		{
			name: "low difficulty",
			meal: models.Meal{Name: "Toast", Price: 2, Difficulty: models.DifficultyLow},
			want: 17.5, // 20 - 5 + 2.5
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DefaultScore(tt.meal)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("DefaultScore(%q) = %v, want %v", tt.meal.Name, got, tt.want)
			}
		})
	}
}

func TestResolveEqualScoresIsCoinFlip(t *testing.T) {
	// Same price, difficulty and name length: identical scores.
	a := models.Meal{ID: "a", Name: "Tacos", Price: 5, Difficulty: models.DifficultyLow}
	b := models.Meal{ID: "b", Name: "Sushi", Price: 5, Difficulty: models.DifficultyLow}

	tests := []struct {
		name string
		roll float64
		want string
	}{
		{"roll below half", 0.49, "a"},
		{"roll above half", 0.51, "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewBattleEngine(&fixedDraws{values: []float64{tt.roll}})
			out, err := engine.Resolve(context.Background(), a, b)
			if err != nil {
				t.Fatalf("Resolve returned error: %v", err)
			}
			if out.Delta != 0 {
				t.Fatalf("equal scores should give delta 0, got %v", out.Delta)
			}
			if out.Winner.ID != tt.want {
				t.Fatalf("winner = %s, want %s", out.Winner.ID, tt.want)
			}
		})
	}
}

func TestResolveDeltaGrowsWithGap(t *testing.T) {
	base := models.Meal{ID: "base", Name: "AAAAA", Price: 1, Difficulty: models.DifficultyLow}
	prices := []float64{1, 2, 4, 11} // score gaps 0, 10, 30, 100

	var prev float64 = -1
	for _, p := range prices {
		rival := models.Meal{ID: "rival", Name: "BBBBB", Price: p, Difficulty: models.DifficultyLow}
		engine := NewBattleEngine(&fixedDraws{values: []float64{0.5}})
		out, err := engine.Resolve(context.Background(), base, rival)
		if err != nil {
			t.Fatalf("Resolve returned error: %v", err)
		}
		if out.Delta < 0 || out.Delta >= 1 {
			t.Fatalf("delta %v out of [0,1) for price gap %v", out.Delta, p)
		}
		if out.Delta <= prev && p != prices[0] {
			t.Fatalf("delta should grow with the score gap: got %v after %v", out.Delta, prev)
		}
		prev = out.Delta
	}
}

func TestResolveFavouriteWinsLowRoll(t *testing.T) {
	weak := models.Meal{ID: "weak", Name: "Salad", Price: 1, Difficulty: models.DifficultyLow}
	strong := models.Meal{ID: "strong", Name: "Bisque", Price: 9, Difficulty: models.DifficultyLow}

	// Order of the arguments must not matter for who the favourite is.
	for _, pair := range [][2]models.Meal{{weak, strong}, {strong, weak}} {
		engine := NewBattleEngine(&fixedDraws{values: []float64{0.01}})
		out, err := engine.Resolve(context.Background(), pair[0], pair[1])
		if err != nil {
			t.Fatalf("Resolve returned error: %v", err)
		}
		if out.Winner.ID != "strong" {
			t.Fatalf("low roll should favour the higher score, winner = %s", out.Winner.ID)
		}
		if out.WinnerScore <= out.LoserScore {
			t.Fatalf("winner score %v should exceed loser score %v", out.WinnerScore, out.LoserScore)
		}
	}
}

func TestResolveStrongFavouriteWinRate(t *testing.T) {
	// Two low-difficulty meals, 1.00 vs 4.00, equal name lengths. Over many
	// battles the pricier one has to take well over two thirds.
	cheap := models.Meal{ID: "cheap", Name: "Beans", Price: 1, Difficulty: models.DifficultyLow}
	prime := models.Meal{ID: "prime", Name: "Steak", Price: 4, Difficulty: models.DifficultyLow}

	engine := NewBattleEngine(utils.NewLocalDrawSource(42))

	const trials = 1000
	primeWins := 0
	for i := 0; i < trials; i++ {
		out, err := engine.Resolve(context.Background(), cheap, prime)
		if err != nil {
			t.Fatalf("Resolve returned error: %v", err)
		}
		if out.Winner.ID == "prime" {
			primeWins++
		}
	}

	if primeWins <= trials*70/100 {
		t.Fatalf("prime won %d/%d battles, want more than 70%%", primeWins, trials)
	}
	if primeWins == trials {
		t.Fatalf("underdog never won in %d battles; odds should stay short of certainty", trials)
	}
}

func TestResolveEvenMatchWinRate(t *testing.T) {
	a := models.Meal{ID: "a", Name: "Tacos", Price: 5, Difficulty: models.DifficultyMed}
	b := models.Meal{ID: "b", Name: "Sushi", Price: 5, Difficulty: models.DifficultyMed}

	engine := NewBattleEngine(utils.NewLocalDrawSource(7))

	const trials = 2000
	aWins := 0
	for i := 0; i < trials; i++ {
		out, err := engine.Resolve(context.Background(), a, b)
		if err != nil {
			t.Fatalf("Resolve returned error: %v", err)
		}
		if out.Winner.ID == "a" {
			aWins++
		}
	}

	if aWins < trials*40/100 || aWins > trials*60/100 {
		t.Fatalf("even match gave a %d/%d wins, want roughly half", aWins, trials)
	}
}

func TestResolveDeterministicWithSeed(t *testing.T) {
	a := models.Meal{ID: "a", Name: "Gumbo", Price: 3, Difficulty: models.DifficultyMed}
	b := models.Meal{ID: "b", Name: "Pasta", Price: 6, Difficulty: models.DifficultyHigh}

	run := func() []string {
		engine := NewBattleEngine(utils.NewLocalDrawSource(99))
		var winners []string
		for i := 0; i < 20; i++ {
			out, err := engine.Resolve(context.Background(), a, b)
			if err != nil {
				t.Fatalf("Resolve returned error: %v", err)
			}
			winners = append(winners, out.Winner.ID)
		}
		return winners
	}

	first, second := run(), run()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("battle %d diverged between seeded runs: %s vs %s", i, first[i], second[i])
		}
	}
}

func TestResolveDrawFailure(t *testing.T) {
	a := models.Meal{ID: "a", Name: "Gumbo", Price: 3, Difficulty: models.DifficultyMed}
	b := models.Meal{ID: "b", Name: "Pasta", Price: 6, Difficulty: models.DifficultyHigh}

	engine := NewBattleEngine(failingDraws{})
	_, err := engine.Resolve(context.Background(), a, b)
	if !errors.Is(err, ErrDrawFailed) {
		t.Fatalf("want ErrDrawFailed, got %v", err)
	}
}
