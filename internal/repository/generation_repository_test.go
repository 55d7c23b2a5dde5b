package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

func TestMemoryGenerationsIncreasePerViewer(t *testing.T) {
	gens := NewMemoryGenerations()
	ctx := context.Background()

	for want := uint64(1); want <= 3; want++ {
		got, err := gens.Next(ctx, "viewer-a")
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if got != want {
			t.Fatalf("generation = %d, want %d", got, want)
		}
	}

	got, _ := gens.Next(ctx, "viewer-b")
	if got != 1 {
		t.Fatalf("viewer-b generation = %d, want 1", got)
	}
}

func TestMemoryGenerationsConcurrentUnique(t *testing.T) {
	gens := NewMemoryGenerations()
	ctx := context.Background()

	const n = 64
	seen := make(chan uint64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g, _ := gens.Next(ctx, "shared")
			seen <- g
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[uint64]bool)
	for g := range seen {
		if unique[g] {
			t.Fatalf("generation %d handed out twice", g)
		}
		unique[g] = true
	}
	if len(unique) != n {
		t.Fatalf("got %d generations, want %d", len(unique), n)
	}
}

func TestMemoryGenerationsForget(t *testing.T) {
	gens := NewMemoryGenerations()
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		viewer := fmt.Sprintf("viewer-%d", i)
		if _, err := gens.Next(ctx, viewer); err != nil {
			t.Fatal(err)
		}
		gens.Forget(viewer)
	}
	if n := len(gens.(*memoryGenerations).last); n != 0 {
		t.Fatalf("counters left after Forget = %d, want 0", n)
	}

	gens.Forget("never-seen")
	got, _ := gens.Next(ctx, "viewer-0")
	if got != 1 {
		t.Fatalf("generation after Forget = %d, want 1", got)
	}
}
