package interp

import "testing"

func TestEvalInterior(t *testing.T) {
	l := New([]float64{0, 10, 20}, []float64{0, 100, 100}, 0, 0)
	if got := l.Eval(5); got != 50 {
		t.Fatalf("expected 50, got %v", got)
	}
	if got := l.Eval(15); got != 100 {
		t.Fatalf("expected 100, got %v", got)
	}
}

func TestEvalClampsBelowAndAbove(t *testing.T) {
	l := New([]float64{0, 10}, []float64{0, 10}, 0, 0)
	// slope is 1; below-range and above-range queries extrapolate
	// linearly along the edge interval rather than clamping the
	// value outright.
	if got := l.Eval(-5); got != -5 {
		t.Fatalf("expected -5, got %v", got)
	}
	if got := l.Eval(15); got != 15 {
		t.Fatalf("expected 15, got %v", got)
	}
}

func TestDerivative(t *testing.T) {
	l := New([]float64{0, 10}, []float64{0, 20}, 0, 0)
	if got := l.Derivative(5); got != 2 {
		t.Fatalf("expected slope 2, got %v", got)
	}
}

func TestUnsortedInputIsSorted(t *testing.T) {
	l := New([]float64{10, 0, 20}, []float64{100, 0, 100}, 0, 0)
	if got := l.Eval(5); got != 50 {
		t.Fatalf("expected 50 after internal sort, got %v", got)
	}
}

func TestConstructionPanicsOnTooFewSamples(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic with < 2 samples")
		}
	}()
	New([]float64{0}, []float64{0}, 0, 0)
}

func TestConstructionPanicsOnIdenticalX(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic with identical x samples")
		}
	}()
	New([]float64{5, 5}, []float64{0, 1}, 0, 0)
}

func TestShift(t *testing.T) {
	l := New([]float64{0, 10}, []float64{0, 10}, 5, -2)
	// x shifted to [5, 15], y shifted to [-2, 8]
	if got := l.Eval(5); got != -2 {
		t.Fatalf("expected -2, got %v", got)
	}
	if got := l.Eval(15); got != 8 {
		t.Fatalf("expected 8, got %v", got)
	}
}
