package utils

import (
	"testing"
	"time"
)

func TestChunk(t *testing.T) {
	cases := []struct {
		in   []int
		size int
		want int
	}{
		{nil, 3, 0},
		{[]int{1, 2, 3}, 3, 1},
		{[]int{1, 2, 3, 4}, 3, 2},
		{[]int{1, 2, 3, 4}, 0, 1},
	}
	for _, tc := range cases {
		got := Chunk(tc.in, tc.size)
		if len(got) != tc.want {
			t.Fatalf("Chunk(%v, %d) expected %d chunks, got %d", tc.in, tc.size, tc.want, len(got))
		}
	}
}

func TestUniqueSlice_KeepsFirstOccurrenceOrder(t *testing.T) {
	got := UniqueSlice([]string{"b", "a", "b", "c", "a"})
	want := []string{"b", "a", "c"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestNormalizeDate_PinsToUTCMidnight(t *testing.T) {
	loc := time.FixedZone("WIB", 7*60*60)
	in := time.Date(2024, 3, 9, 23, 30, 0, 0, loc)
	got := NormalizeDate(in)
	if DateKey(got) != "2024-03-09" {
		t.Fatalf("expected 2024-03-09, got %s", DateKey(got))
	}
	if got.Location() != time.UTC || got.Hour() != 0 {
		t.Fatalf("expected UTC midnight, got %s", got)
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Budi.Santoso@Kemenag.GO.ID "); got != "budi.santoso@kemenag.go.id" {
		t.Fatalf("unexpected %q", got)
	}
}
