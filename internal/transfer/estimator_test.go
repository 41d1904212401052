package transfer

import (
	"sync"
	"testing"
	"time"
)

type emitRecord struct {
	percent int
	status  string
}

func TestEstimatorKnownTotalSequence(t *testing.T) {
	var emits []emitRecord
	est := newEstimator(1000, 0, func(percent int, status string) {
		emits = append(emits, emitRecord{percent, status})
	})

	for _, received := range []int64{250, 500, 750, 1000} {
		est.observe(received)
	}

	expected := []int{25, 50, 75, 99}
	if len(emits) != len(expected) {
		t.Fatalf("Expected %d emits, got %d (%v)", len(expected), len(emits), emits)
	}
	for i, want := range expected {
		if emits[i].percent != want {
			t.Errorf("Emit %d: expected percent %d, got %d", i, want, emits[i].percent)
		}
		if emits[i].status != statusDownloading {
			t.Errorf("Emit %d: expected status %q, got %q", i, statusDownloading, emits[i].status)
		}
	}
}

func TestEstimatorFloorsFractionalPercent(t *testing.T) {
	tests := []struct {
		total    int64
		received int64
		expected int
	}{
		{1000, 1, 0},
		{1000, 9, 0},
		{1000, 10, 1},
		{1000, 999, 99},
		{3, 1, 33},
		{3, 2, 66},
		{7, 5, 71},
	}

	for _, test := range tests {
		var last int
		est := newEstimator(test.total, 0, func(percent int, _ string) { last = percent })
		est.observe(test.received)
		if last != test.expected {
			t.Errorf("observe(%d) of %d total: expected %d, got %d", test.received, test.total, test.expected, last)
		}
	}
}

func TestEstimatorClampsAt99(t *testing.T) {
	var last int
	est := newEstimator(100, 0, func(percent int, _ string) { last = percent })

	est.observe(100)
	if last != 99 {
		t.Errorf("Expected full stream to clamp at 99, got %d", last)
	}
	est.observe(150)
	if last != 99 {
		t.Errorf("Expected over-long stream to stay at 99, got %d", last)
	}
}

func TestEstimatorNeverRegresses(t *testing.T) {
	var emits []int
	est := newEstimator(1000, 0, func(percent int, _ string) { emits = append(emits, percent) })

	for _, received := range []int64{300, 200, 500, 400, 900} {
		est.observe(received)
	}
	for i := 1; i < len(emits); i++ {
		if emits[i] < emits[i-1] {
			t.Fatalf("Percent regressed from %d to %d (%v)", emits[i-1], emits[i], emits)
		}
	}
	if last := emits[len(emits)-1]; last != 90 {
		t.Errorf("Expected final percent 90, got %d", last)
	}
}

func TestEstimatorUnknownTotalFirstChunkEmitsOnce(t *testing.T) {
	var emits []emitRecord
	est := newEstimator(-1, 0, func(percent int, status string) {
		emits = append(emits, emitRecord{percent, status})
	})

	est.observe(100)
	est.observe(200)
	est.observe(300)

	if len(emits) != 1 {
		t.Fatalf("Expected a single emit for unknown-length chunks, got %d", len(emits))
	}
	if emits[0].percent != 0 || emits[0].status != statusDownloading {
		t.Errorf("Expected first emit {0 %q}, got %+v", statusDownloading, emits[0])
	}
}

func TestEstimatorHeuristicCapsAt90(t *testing.T) {
	var mu sync.Mutex
	var emits []int
	est := newEstimator(-1, time.Millisecond, func(percent int, _ string) {
		mu.Lock()
		emits = append(emits, percent)
		mu.Unlock()
	})
	est.startHeuristic()

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		reached := len(emits) > 0 && emits[len(emits)-1] >= 90
		mu.Unlock()
		if reached {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("Timed out waiting for the heuristic to reach 90")
		}
		time.Sleep(time.Millisecond)
	}
	est.halt()

	mu.Lock()
	count := len(emits)
	mu.Unlock()
	time.Sleep(10 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if len(emits) != count {
		t.Errorf("Expected no emissions after halt, got %d more", len(emits)-count)
	}
	for i, percent := range emits {
		if percent > 90 {
			t.Errorf("Emit %d: percent %d exceeds the 90 cap", i, percent)
		}
		if percent%5 != 0 {
			t.Errorf("Emit %d: percent %d is not a 5-point step", i, percent)
		}
		if i > 0 && percent < emits[i-1] {
			t.Errorf("Emit %d: percent regressed from %d to %d", i, emits[i-1], percent)
		}
	}
}

func TestEstimatorHaltIsIdempotent(t *testing.T) {
	est := newEstimator(-1, time.Millisecond, func(int, string) {})
	est.startHeuristic()
	est.halt()
	est.halt()
}

func TestEstimatorKnownTotalSkipsHeuristic(t *testing.T) {
	var mu sync.Mutex
	var emits []int
	est := newEstimator(1000, time.Millisecond, func(percent int, _ string) {
		mu.Lock()
		emits = append(emits, percent)
		mu.Unlock()
	})
	est.startHeuristic()
	time.Sleep(20 * time.Millisecond)
	est.halt()

	mu.Lock()
	defer mu.Unlock()
	if len(emits) != 0 {
		t.Errorf("Expected no heuristic emissions with a known total, got %v", emits)
	}
}

func TestCompressingStatus(t *testing.T) {
	tests := []struct {
		items    int
		expected string
	}{
		{1, "Compressing recording..."},
		{2, "Compressing 2 recordings..."},
		{12, "Compressing 12 recordings..."},
	}

	for _, test := range tests {
		if got := compressingStatus(test.items); got != test.expected {
			t.Errorf("compressingStatus(%d) = %q, expected %q", test.items, got, test.expected)
		}
	}
}
