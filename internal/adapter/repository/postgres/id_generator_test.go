package postgres

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
)

func TestULIDGeneratorIncreasesWithinMillisecond(t *testing.T) {
	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	gen := newULIDGenerator(func() time.Time { return at })

	prev := gen.Generate()
	for i := 0; i < 100; i++ {
		next := gen.Generate()
		if next <= prev {
			t.Fatalf("id %d not increasing: %s after %s", i, next, prev)
		}

		id, err := ulid.ParseStrict(next)
		if err != nil {
			t.Fatalf("invalid ulid %q: %v", next, err)
		}
		if id.Time() != ulid.Timestamp(at) {
			t.Fatalf("expected timestamp %d, got %d", ulid.Timestamp(at), id.Time())
		}
		prev = next
	}
}

func TestULIDGeneratorConcurrentUse(t *testing.T) {
	gen := NewULIDGenerator()

	const workers, perWorker = 8, 50
	ids := make(chan string, workers*perWorker)
	done := make(chan struct{})
	for w := 0; w < workers; w++ {
		go func() {
			for i := 0; i < perWorker; i++ {
				ids <- gen.Generate()
			}
			done <- struct{}{}
		}()
	}
	for w := 0; w < workers; w++ {
		<-done
	}
	close(ids)

	seen := make(map[string]bool, workers*perWorker)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}
