package strategy

import (
	"testing"

	"revoscan/internal/domain"
)

func TestParamsApplyIgnoresUnknownKeys(t *testing.T) {
	p := Params{"period": 20, "std_dev": 2.0}
	p.Apply(Params{"period": 10, "bogus": 99})

	if p["period"] != 10 {
		t.Errorf("period = %v, want 10", p["period"])
	}
	if _, ok := p["bogus"]; ok {
		t.Error("unknown key should not be added")
	}
	if p["std_dev"] != 2.0 {
		t.Errorf("std_dev = %v, want unchanged 2.0", p["std_dev"])
	}
}

func TestParamsClone(t *testing.T) {
	p := Params{"period": 14}
	c := p.Clone()
	c["period"] = 7

	if p["period"] != 14 {
		t.Error("mutating the clone changed the original")
	}
}

func TestHoldPositions(t *testing.T) {
	in := []domain.Signal{0, 1, 0, 0, -1, 0, 1, 1, -1, 0}
	want := []domain.Signal{0, 1, 1, 1, 0, 0, 1, 1, 0, 0}

	got := HoldPositions(in)
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("HoldPositions[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestHoldPositionsEmpty(t *testing.T) {
	if got := HoldPositions(nil); len(got) != 0 {
		t.Errorf("HoldPositions(nil) = %v, want empty", got)
	}
}
