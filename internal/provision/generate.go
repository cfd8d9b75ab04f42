package provision

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/doug-martin/goqu/v9"

	"lms/internal/store"
)

const (
	generatedISBNBase = int64(9790000000000)
	generateBatchSize = 500
)

var words = []string{
	"Adventure", "Mystery", "Journey", "Discovery", "Secrets", "Dreams", "Hope",
	"Love", "War", "Peace", "Science", "Nature", "Technology", "History", "Future",
	"Past", "Present", "Reality", "Imagination", "Wisdom", "Life", "Death",
	"Light", "Darkness", "World", "Universe", "Time", "Space", "Mind", "Soul",
}

var surnames = []string{"Doe", "Smith", "Johnson", "Carter", "Nguyen", "Garcia", "Okafor", "Novak", "Tanaka", "Larsen"}

// GenerateBooks inserts count synthetic books for load testing. ISBNs start
// at 9790000000000, so the sample books never collide with them and a rerun
// skips the rows it already made.
func GenerateBooks(ctx context.Context, g *store.Gateway, count int, rng *rand.Rand) (int64, error) {
	var inserted int64
	for start := 0; start < count; start += generateBatchSize {
		end := min(start+generateBatchSize, count)

		rows := make([]goqu.Record, 0, end-start)
		for i := start; i < end; i++ {
			status := "Available"
			if rng.IntN(4) == 0 {
				status = "Borrowed"
			}
			rows = append(rows, goqu.Record{
				"isbn":     generatedISBNBase + int64(i),
				"title":    fmt.Sprintf("%s of %s %d", pick(rng, words), pick(rng, words), i+1),
				"author":   fmt.Sprintf("%c. %s", 'A'+rune(rng.IntN(26)), pick(rng, surnames)),
				"pub_year": 1950 + rng.IntN(75),
				"status":   status,
			})
		}

		n, err := insertIgnore(ctx, g, "books", rows)
		if err != nil {
			return inserted, fmt.Errorf("generate books %d-%d: %w", start+1, end, err)
		}
		inserted += n
		g.Logger().Debug("generated books", "done", end, "total", count)
	}
	return inserted, nil
}

func pick(rng *rand.Rand, from []string) string {
	return from[rng.IntN(len(from))]
}
