package environment

import (
	"errors"
	"testing"
)

func TestNew_Empty(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrEmptyGrid) {
		t.Errorf("New(nil) err = %v, want ErrEmptyGrid", err)
	}
	if _, err := New([][]bool{{}}); !errors.Is(err, ErrEmptyGrid) {
		t.Errorf("New([[]]) err = %v, want ErrEmptyGrid", err)
	}
}

func TestNew_NonRectangular(t *testing.T) {
	_, err := New([][]bool{{true, false}, {true}})
	if !errors.Is(err, ErrNonRectangular) {
		t.Errorf("err = %v, want ErrNonRectangular", err)
	}
}

func TestNew_CopiesInput(t *testing.T) {
	layout := [][]bool{{true, true}}
	g, err := New(layout)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	layout[0][0] = false
	if !g.IsDirty(Position{0, 0}) {
		t.Error("grid should not observe mutation of the input slice")
	}
	if g.Width() != 2 || g.Height() != 1 {
		t.Errorf("dims = %dx%d, want 2x1", g.Width(), g.Height())
	}
}

func TestGrid_CleanIsIdempotent(t *testing.T) {
	g, _ := New([][]bool{{true, false}})
	pos := Position{0, 0}
	g.Clean(pos)
	g.Clean(pos)
	if g.IsDirty(pos) {
		t.Error("cell still dirty after Clean")
	}
	g.Clean(Position{1, 0})
	if g.IsDirty(Position{1, 0}) {
		t.Error("cleaning a clean cell made it dirty")
	}
}

func TestGrid_HasAnyDirt(t *testing.T) {
	g, _ := New([][]bool{{false, false}, {false, true}})
	if !g.HasAnyDirt() {
		t.Fatal("expected dirt at (1,1)")
	}
	if n := g.DirtCount(); n != 1 {
		t.Errorf("DirtCount = %d, want 1", n)
	}
	g.Clean(Position{X: 1, Y: 1})
	if g.HasAnyDirt() {
		t.Error("expected clean grid")
	}
}

func TestGrid_RowMajorIndexing(t *testing.T) {
	// 3 columns, 2 rows; only row 1 col 2 is dirty.
	g, _ := New([][]bool{{false, false, false}, {false, false, true}})
	if !g.IsDirty(Position{X: 2, Y: 1}) {
		t.Error("expected (x=2,y=1) dirty")
	}
	if g.IsDirty(Position{X: 1, Y: 2 - 1}) {
		t.Error("expected (x=1,y=1) clean")
	}
}

func TestGrid_InBounds(t *testing.T) {
	g, _ := New([][]bool{{true, true, true}, {true, true, true}})
	cases := map[Position]bool{
		{0, 0}: true, {2, 1}: true, {3, 0}: false, {0, 2}: false, {-1, 0}: false, {0, -1}: false,
	}
	for pos, want := range cases {
		if got := g.InBounds(pos); got != want {
			t.Errorf("InBounds(%s) = %v, want %v", pos, got, want)
		}
	}
}

func TestGrid_OutOfBoundsPanics(t *testing.T) {
	g, _ := New([][]bool{{true}})
	defer func() {
		if recover() == nil {
			t.Error("expected panic for out-of-bounds IsDirty")
		}
	}()
	g.IsDirty(Position{X: 1, Y: 0})
}

func TestGrid_SnapshotIsCopy(t *testing.T) {
	g, _ := New([][]bool{{true}})
	snap := g.Snapshot()
	snap[0][0] = false
	if !g.IsDirty(Position{}) {
		t.Error("mutating the snapshot changed the grid")
	}
}
