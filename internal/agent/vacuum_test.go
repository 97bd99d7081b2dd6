package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nextlevelbuilder/govac/internal/environment"
)

// recorder captures every event the loop emits.
type recorder struct {
	frames   []Frame
	cleaned  []environment.Position
	moves    []Move
	statuses []string
	dirty    []bool // HasAnyDirt-equivalent per frame
}

func (r *recorder) Render(_ context.Context, f Frame) error {
	r.frames = append(r.frames, f)
	dirty := false
	for _, row := range f.Dirt {
		for _, d := range row {
			dirty = dirty || d
		}
	}
	r.dirty = append(r.dirty, dirty)
	return nil
}
func (r *recorder) Cleaned(pos environment.Position) { r.cleaned = append(r.cleaned, pos) }
func (r *recorder) Moved(m Move)                     { r.moves = append(r.moves, m) }
func (r *recorder) Status(msg string)                { r.statuses = append(r.statuses, msg) }

func mustGrid(t *testing.T, rows ...[]bool) *environment.Grid {
	t.Helper()
	g, err := environment.New(rows)
	if err != nil {
		t.Fatalf("environment.New: %v", err)
	}
	return g
}

func first() Chooser { return ChooserFunc(func(int) int { return 0 }) }

func TestNew_StartOutOfBounds(t *testing.T) {
	g := mustGrid(t, []bool{true, true})
	_, err := New(g, environment.Position{X: 2, Y: 0}, Config{})
	if !errors.Is(err, ErrStartOutOfBounds) {
		t.Errorf("err = %v, want ErrStartOutOfBounds", err)
	}
}

func TestLegalMoves_Counts(t *testing.T) {
	g := mustGrid(t,
		[]bool{false, false, false},
		[]bool{false, false, false},
		[]bool{false, false, false},
	)
	cases := []struct {
		pos  environment.Position
		want []Direction
	}{
		{environment.Position{X: 0, Y: 0}, []Direction{Right, Down}},
		{environment.Position{X: 1, Y: 1}, []Direction{Left, Right, Up, Down}},
		{environment.Position{X: 2, Y: 1}, []Direction{Left, Up, Down}},
		{environment.Position{X: 2, Y: 2}, []Direction{Left, Up}},
	}
	for _, c := range cases {
		moves := LegalMoves(g, c.pos)
		if len(moves) != len(c.want) {
			t.Errorf("LegalMoves(%s) = %v, want %v", c.pos, moves, c.want)
			continue
		}
		for i, m := range moves {
			if m.Dir != c.want[i] {
				t.Errorf("LegalMoves(%s)[%d] = %s, want %s", c.pos, i, m.Dir, c.want[i])
			}
			if !g.InBounds(m.To) {
				t.Errorf("move %s from %s leaves grid", m.Dir, c.pos)
			}
		}
	}
}

func TestLegalMoves_SingleCell(t *testing.T) {
	g := mustGrid(t, []bool{true})
	if moves := LegalMoves(g, environment.Position{}); len(moves) != 0 {
		t.Errorf("1x1 grid should have no moves, got %v", moves)
	}
}

func TestLegalMoves_SingleRow(t *testing.T) {
	g := mustGrid(t, []bool{false, false, false})
	moves := LegalMoves(g, environment.Position{X: 1})
	if len(moves) != 2 || moves[0].Dir != Left || moves[1].Dir != Right {
		t.Errorf("moves = %v, want [left right]", moves)
	}
}

func TestRun_SingleCell(t *testing.T) {
	g := mustGrid(t, []bool{true})
	rec := &recorder{}
	v, err := New(g, environment.Position{}, Config{Chooser: first(), Delay: NoDelay, Observer: rec})
	if err != nil {
		t.Fatal(err)
	}
	res, err := v.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Cleans != 1 || res.Moves != 0 || res.Steps != 1 {
		t.Errorf("result = %+v, want 1 step, 1 clean, 0 moves", res)
	}
	if len(rec.moves) != 0 {
		t.Errorf("expected no move events, got %v", rec.moves)
	}
	if g.HasAnyDirt() {
		t.Error("grid still dirty")
	}
}

func TestRun_TwoByOne(t *testing.T) {
	g := mustGrid(t, []bool{true, false})
	rec := &recorder{}
	v, _ := New(g, environment.Position{}, Config{Chooser: first(), Delay: NoDelay, Observer: rec})
	res, err := v.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Moves != 1 || res.Cleans != 1 {
		t.Errorf("result = %+v, want 1 move and 1 clean", res)
	}
	if len(rec.moves) != 1 || rec.moves[0].Dir != Right {
		t.Fatalf("moves = %v, want [right]", rec.moves)
	}
	if v.Position() != (environment.Position{X: 1, Y: 0}) {
		t.Errorf("final position = %s, want (1,0)", v.Position())
	}
	want := []string{"Moved right", StatusAllClean, StatusDone}
	if len(rec.statuses) != len(want) {
		t.Fatalf("statuses = %v, want %v", rec.statuses, want)
	}
	for i := range want {
		if rec.statuses[i] != want[i] {
			t.Errorf("status[%d] = %q, want %q", i, rec.statuses[i], want[i])
		}
	}
}

func TestRun_TwoByTwoCleansEverything(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		g := mustGrid(t, []bool{true, true}, []bool{true, true})
		rec := &recorder{}
		v, _ := New(g, environment.Position{}, Config{
			Chooser:  NewRandomChooser(seed),
			Delay:    NoDelay,
			Observer: rec,
		})
		res, err := v.Run(context.Background())
		if err != nil {
			t.Fatalf("seed %d: Run: %v", seed, err)
		}
		if res.Cleans != 4 {
			t.Errorf("seed %d: cleans = %d, want 4", seed, res.Cleans)
		}
		if res.Moves < 3 {
			t.Errorf("seed %d: moves = %d, need at least 3 to visit 4 cells", seed, res.Moves)
		}
		if len(rec.cleaned) != 4 {
			t.Errorf("seed %d: cleaned events = %d, want 4", seed, len(rec.cleaned))
		}
	}
}

func TestRun_DirtNeverReappears(t *testing.T) {
	g := mustGrid(t,
		[]bool{true, false, true, true},
		[]bool{false, true, false, true},
		[]bool{true, true, true, false},
	)
	rec := &recorder{}
	v, _ := New(g, environment.Position{X: 1, Y: 1}, Config{
		Chooser:  NewRandomChooser(42),
		Delay:    NoDelay,
		Observer: rec,
	})
	if _, err := v.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	cleanSeen := false
	for i, d := range rec.dirty {
		if !d {
			cleanSeen = true
		} else if cleanSeen {
			t.Fatalf("frame %d dirty after a clean frame", i)
		}
	}
	if !cleanSeen {
		t.Error("final frame should be clean")
	}
}

func TestRun_OnlyCurrentCellCleanedOncePerStep(t *testing.T) {
	g := mustGrid(t, []bool{true, true, true}, []bool{true, true, true})
	rec := &recorder{}
	v, _ := New(g, environment.Position{}, Config{
		Chooser:  NewRandomChooser(7),
		Delay:    NoDelay,
		Observer: rec,
	})
	res, err := v.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// Every frame pair (before clean, after move) differs by at most one
	// cell, and that cell is where the agent stood.
	for i := 1; i < len(rec.frames); i++ {
		prev, cur := rec.frames[i-1], rec.frames[i]
		diff := 0
		for y := range prev.Dirt {
			for x := range prev.Dirt[y] {
				if prev.Dirt[y][x] != cur.Dirt[y][x] {
					diff++
					if prev.Agent != (environment.Position{X: x, Y: y}) {
						t.Errorf("frame %d: cleaned (%d,%d) while agent at %s", i, x, y, prev.Agent)
					}
				}
			}
		}
		if diff > 1 {
			t.Errorf("frame %d: %d cells changed, want at most 1", i, diff)
		}
	}
	if res.Cleans != 6 {
		t.Errorf("cleans = %d, want 6", res.Cleans)
	}
}

func TestRun_MovesStayInBounds(t *testing.T) {
	g := mustGrid(t, []bool{true, false, false, false, true})
	rec := &recorder{}
	v, _ := New(g, environment.Position{X: 2}, Config{
		Chooser:  NewRandomChooser(3),
		Delay:    NoDelay,
		Observer: rec,
	})
	if _, err := v.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, m := range rec.moves {
		if !g.InBounds(m.To) {
			t.Errorf("move %s to %s out of bounds", m.Dir, m.To)
		}
		if m.Dir == Up || m.Dir == Down {
			t.Errorf("vertical move %s on a one-row grid", m.Dir)
		}
	}
}

func TestRun_ChooserSeesLegalCount(t *testing.T) {
	g := mustGrid(t, []bool{false, true}, []bool{false, false})
	var seen []int
	ch := ChooserFunc(func(n int) int {
		seen = append(seen, n)
		return 0
	})
	v, _ := New(g, environment.Position{}, Config{Chooser: ch, Delay: NoDelay})
	if _, err := v.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	// (0,0) -> right onto the dirt, then one more choice from (1,0).
	// Every corner of a 2x2 grid offers exactly two moves.
	if len(seen) != 2 {
		t.Fatalf("choices = %d, want 2", len(seen))
	}
	for i, n := range seen {
		if n != 2 {
			t.Errorf("choice %d offered %d moves, want 2 on a 2x2 grid", i, n)
		}
	}
}

func TestRun_DelayCalledPerMove(t *testing.T) {
	g := mustGrid(t, []bool{true, true, true})
	calls := 0
	delay := func(ctx context.Context) error {
		calls++
		return nil
	}
	v, _ := New(g, environment.Position{}, Config{Chooser: first(), Delay: delay})
	res, err := v.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if calls != res.Moves {
		t.Errorf("delay calls = %d, moves = %d", calls, res.Moves)
	}
}

func TestRun_CancelDuringDelay(t *testing.T) {
	g := mustGrid(t, []bool{true, true})
	ctx, cancel := context.WithCancel(context.Background())
	delay := func(ctx context.Context) error {
		cancel()
		return ctx.Err()
	}
	v, _ := New(g, environment.Position{}, Config{Chooser: first(), Delay: delay})
	_, err := v.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if v.Position() != (environment.Position{}) {
		t.Error("position should not change when the delay is interrupted")
	}
}

func TestRun_RenderErrorStops(t *testing.T) {
	g := mustGrid(t, []bool{true, true})
	boom := errors.New("window closed")
	obs := &failingObserver{err: boom}
	v, _ := New(g, environment.Position{}, Config{Chooser: first(), Delay: NoDelay, Observer: obs})
	if _, err := v.Run(context.Background()); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}

type failingObserver struct {
	NopObserver
	err error
}

func (f *failingObserver) Render(context.Context, Frame) error { return f.err }

func TestRun_AlreadyClean(t *testing.T) {
	g := mustGrid(t, []bool{false, false})
	rec := &recorder{}
	v, _ := New(g, environment.Position{}, Config{Chooser: first(), Delay: NoDelay, Observer: rec})
	res, err := v.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Steps != 0 || res.Moves != 0 {
		t.Errorf("result = %+v, want zero steps", res)
	}
	if len(rec.frames) != 1 {
		t.Errorf("frames = %d, want exactly the final render", len(rec.frames))
	}
}

func TestSleep_ZeroDuration(t *testing.T) {
	start := time.Now()
	if err := Sleep(0)(context.Background()); err != nil {
		t.Fatal(err)
	}
	if time.Since(start) > time.Second {
		t.Error("Sleep(0) should return immediately")
	}
}

func TestSleep_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Sleep(DefaultStepDelay)(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestSleepDynamic_ReadsEachCall(t *testing.T) {
	var reads int
	d := SleepDynamic(func() time.Duration {
		reads++
		return 0
	})
	_ = d(context.Background())
	_ = d(context.Background())
	if reads != 2 {
		t.Errorf("reads = %d, want 2", reads)
	}
}

func TestDirection_String(t *testing.T) {
	if MovedStatus(Left) != "Moved left" {
		t.Errorf("MovedStatus(Left) = %q", MovedStatus(Left))
	}
	if Down.String() != "down" || Up.String() != "up" || Right.String() != "right" {
		t.Error("unexpected direction names")
	}
}
