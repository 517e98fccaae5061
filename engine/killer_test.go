package engine

import (
	"sync"
	"testing"

	gm "chess-core/chessmg"
)

func TestKillerRingBuffer(t *testing.T) {
	k := NewKillerTable(8, 2)
	a := gm.NewMove(gm.SqE1, gm.SqF1, gm.Quiet)
	b := gm.NewMove(gm.SqE1, gm.SqD1, gm.Quiet)
	c := gm.NewMove(gm.SqA1, gm.SqA8, gm.Quiet)

	k.StoreKillerMove(3, a)
	k.StoreKillerMove(3, a)
	k.StoreKillerMove(3, b)
	if got := k.Killers(3, nil); len(got) != 2 {
		t.Fatalf("killers got %v want 2 moves", got)
	}
	k.StoreKillerMove(3, c)
	if k.IsKiller(3, a) {
		t.Fatalf("oldest killer should have been overwritten")
	}
	if !k.IsKiller(3, b) || !k.IsKiller(3, c) {
		t.Fatalf("newest killers missing: %v", k.Killers(3, nil))
	}
	if k.IsKiller(4, b) {
		t.Fatalf("killers leaked to another ply")
	}

	k.StoreKillerMove(99, a)
	if k.IsKiller(99, a) {
		t.Fatalf("out of range ply must be ignored")
	}

	k.Clear()
	if got := k.Killers(3, nil); len(got) != 0 {
		t.Fatalf("killers after Clear: %v", got)
	}
}

func TestKillerConcurrentStores(t *testing.T) {
	const slots = 3
	k := NewKillerTable(4, slots)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				m := gm.NewMove(gm.Square(g), gm.Square(8+i%40), gm.Quiet)
				k.StoreKillerMove(1, m)
				k.IsKiller(1, m)
			}
		}(g)
	}
	wg.Wait()

	got := k.Killers(1, nil)
	if len(got) != slots {
		t.Fatalf("killers got %d want %d", len(got), slots)
	}
	seen := map[gm.Move]bool{}
	for _, m := range got {
		if seen[m] {
			t.Fatalf("duplicate killer %v", m)
		}
		seen[m] = true
		if m.Kind() != gm.Quiet || m.From() >= 8 {
			t.Fatalf("corrupted killer %v", m)
		}
	}
}
