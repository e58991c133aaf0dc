package grid

import (
	"errors"
	"testing"
)

type fakeOccupant struct {
	id       string
	encoding int
	pos      Position
}

func (f *fakeOccupant) AgentID() string          { return f.id }
func (f *fakeOccupant) AgentEncoding() int       { return f.encoding }
func (f *fakeOccupant) SetPosition(pos Position) { f.pos = pos }

func TestNewRejectsBadDimensions(t *testing.T) {
	cases := []struct {
		rows, cols int
	}{
		{0, 5},
		{5, 0},
		{-1, 5},
		{5, -1},
	}
	for _, tc := range cases {
		if _, err := New(tc.rows, tc.cols, nil); !errors.Is(err, ErrBadRegion) {
			t.Fatalf("New(%d, %d): expected ErrBadRegion, got %v", tc.rows, tc.cols, err)
		}
	}
}

func TestNewRejectsBadOverlapEncodings(t *testing.T) {
	if _, err := New(3, 3, map[int]map[int]bool{0: {1: true}}); !errors.Is(err, ErrBadOverlap) {
		t.Fatalf("expected ErrBadOverlap for zero key, got %v", err)
	}
	if _, err := New(3, 3, map[int]map[int]bool{1: {-2: true}}); !errors.Is(err, ErrBadOverlap) {
		t.Fatalf("expected ErrBadOverlap for negative target, got %v", err)
	}
}

func TestPlaceAndQuery(t *testing.T) {
	g, err := New(2, 3, nil)
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}

	a := &fakeOccupant{id: "a", encoding: 1}
	pos := Position{Row: 1, Col: 2}
	if !g.Query(a, pos) {
		t.Fatal("expected empty cell to accept occupant")
	}
	if !g.Place(a, pos) {
		t.Fatal("expected placement into empty cell to succeed")
	}
	if a.pos != pos {
		t.Fatalf("expected occupant position %v, got %v", pos, a.pos)
	}
	if _, ok := g.Cell(1, 2)["a"]; !ok {
		t.Fatal("expected occupant in cell after placement")
	}

	b := &fakeOccupant{id: "b", encoding: 2}
	if g.Query(b, pos) {
		t.Fatal("expected occupied cell to reject occupant with no overlap policy")
	}
	if g.Place(b, pos) {
		t.Fatal("expected placement into incompatible cell to fail")
	}
	if len(g.Cell(1, 2)) != 1 {
		t.Fatalf("expected cell unchanged after failed placement, got %d occupants", len(g.Cell(1, 2)))
	}
}

func TestPlaceOutOfBounds(t *testing.T) {
	g, err := New(2, 2, nil)
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	a := &fakeOccupant{id: "a", encoding: 1}
	for _, pos := range []Position{{-1, 0}, {0, -1}, {2, 0}, {0, 2}} {
		if g.Place(a, pos) {
			t.Fatalf("expected out of bounds placement at %v to fail", pos)
		}
	}
}

func TestOverlapMustBeMutual(t *testing.T) {
	// 1 permits 2 but 2 does not permit 1.
	overlap := map[int]map[int]bool{
		1: {2: true},
		2: {},
	}
	g, err := New(2, 2, overlap)
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}

	a := &fakeOccupant{id: "a", encoding: 1}
	b := &fakeOccupant{id: "b", encoding: 2}
	pos := Position{Row: 0, Col: 0}
	if !g.Place(a, pos) {
		t.Fatal("expected first placement to succeed")
	}
	if g.Place(b, pos) {
		t.Fatal("expected one-directional overlap to reject co-location")
	}

	g.Reset()
	if !g.Place(b, pos) {
		t.Fatal("expected first placement to succeed")
	}
	if g.Place(a, pos) {
		t.Fatal("expected one-directional overlap to reject co-location in either order")
	}
}

func TestMutualOverlapPermitsSharing(t *testing.T) {
	overlap := map[int]map[int]bool{
		1: {2: true},
		2: {1: true},
	}
	g, err := New(2, 2, overlap)
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}

	pos := Position{Row: 1, Col: 1}
	a := &fakeOccupant{id: "a", encoding: 1}
	b := &fakeOccupant{id: "b", encoding: 2}
	if !g.Place(a, pos) || !g.Place(b, pos) {
		t.Fatal("expected mutually overlapping encodings to share a cell")
	}
	if len(g.Cell(1, 1)) != 2 {
		t.Fatalf("expected 2 occupants in shared cell, got %d", len(g.Cell(1, 1)))
	}
}

func TestRemove(t *testing.T) {
	g, err := New(2, 2, nil)
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	a := &fakeOccupant{id: "a", encoding: 1}
	pos := Position{Row: 0, Col: 1}
	if !g.Place(a, pos) {
		t.Fatal("expected placement to succeed")
	}

	g.Remove(a, pos)
	if len(g.Cell(0, 1)) != 0 {
		t.Fatal("expected cell empty after removal")
	}

	// Removing an absent occupant or out of bounds is a no-op.
	g.Remove(a, pos)
	g.Remove(a, Position{Row: 5, Col: 5})
}

func TestResetClearsEveryCell(t *testing.T) {
	g, err := New(3, 3, nil)
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	for i := 0; i < 3; i++ {
		o := &fakeOccupant{id: string(rune('a' + i)), encoding: 1}
		if !g.Place(o, Position{Row: i, Col: i}) {
			t.Fatalf("placement %d failed", i)
		}
	}

	g.Reset()
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			if len(g.Cell(r, c)) != 0 {
				t.Fatalf("expected cell (%d, %d) empty after reset", r, c)
			}
		}
	}

	g.Reset()
}

func TestRavelUnravelRoundTrip(t *testing.T) {
	const cols = 7
	for _, pos := range []Position{{0, 0}, {0, 6}, {3, 2}, {5, 0}} {
		n := pos.Ravel(cols)
		if got := Unravel(n, cols); got != pos {
			t.Fatalf("unravel(ravel(%v)) = %v", pos, got)
		}
	}
}

func TestManhattan(t *testing.T) {
	cases := []struct {
		a, b Position
		want int
	}{
		{Position{0, 0}, Position{0, 0}, 0},
		{Position{0, 0}, Position{2, 3}, 5},
		{Position{4, 1}, Position{1, 5}, 7},
	}
	for _, tc := range cases {
		if got := Manhattan(tc.a, tc.b); got != tc.want {
			t.Fatalf("Manhattan(%v, %v) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
		if got := Manhattan(tc.b, tc.a); got != tc.want {
			t.Fatalf("Manhattan(%v, %v) = %d, want %d", tc.b, tc.a, got, tc.want)
		}
	}
}
