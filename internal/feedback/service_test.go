package feedback

import (
	"math"
	"testing"
)

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil)
	if stats.Count != 0 {
		t.Fatalf("count = %d, want 0", stats.Count)
	}
	if stats.AverageRating != 0 {
		t.Fatalf("average = %f, want 0", stats.AverageRating)
	}
	for rating := 1; rating <= 5; rating++ {
		if stats.Histogram[rating] != 0 {
			t.Fatalf("histogram[%d] = %d, want 0", rating, stats.Histogram[rating])
		}
	}
}

func TestComputeStats(t *testing.T) {
	list := []Feedback{
		{Rating: 5}, {Rating: 5}, {Rating: 4}, {Rating: 2}, {Rating: 5},
	}

	stats := ComputeStats(list)

	if stats.Count != 5 {
		t.Errorf("count = %d, want 5", stats.Count)
	}
	if math.Abs(stats.AverageRating-4.2) > 1e-9 {
		t.Errorf("average = %f, want 4.2", stats.AverageRating)
	}
	if stats.Histogram[5] != 3 || stats.Histogram[4] != 1 || stats.Histogram[2] != 1 {
		t.Errorf("unexpected histogram: %v", stats.Histogram)
	}
	if stats.Histogram[1] != 0 || stats.Histogram[3] != 0 {
		t.Errorf("unused ratings should be zero: %v", stats.Histogram)
	}
}
