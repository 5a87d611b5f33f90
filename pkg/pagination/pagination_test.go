package pagination

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Params
		want Params
	}{
		{name: "defaults", in: Params{}, want: Params{Page: 1, Limit: 10}},
		{name: "keeps valid", in: Params{Page: 3, Limit: 25}, want: Params{Page: 3, Limit: 25}},
		{name: "clamps limit", in: Params{Page: 1, Limit: 500}, want: Params{Page: 1, Limit: 100}},
	}
	for _, tt := range tests {
		got := tt.in.Normalize(DefaultLimit, MaxLimit)
		if got != tt.want {
			t.Fatalf("%s: expected %+v, got %+v", tt.name, tt.want, got)
		}
	}

	if got := (Params{Limit: 80}).Normalize(5, 50); got.Limit != 50 {
		t.Fatalf("custom max not applied: %+v", got)
	}
	if got := (Params{}).Normalize(0, 0); got.Limit != DefaultLimit || got.Page != FirstPage {
		t.Fatalf("expected package defaults, got %+v", got)
	}
}

func TestOffset(t *testing.T) {
	if got := (Params{Page: 1, Limit: 10}).Offset(); got != 0 {
		t.Fatalf("first page offset should be 0, got %d", got)
	}
	if got := (Params{Page: 3, Limit: 10}).Offset(); got != 20 {
		t.Fatalf("expected offset 20, got %d", got)
	}
}

func TestTotalPages(t *testing.T) {
	cases := map[int64]int{0: 0, 1: 1, 10: 1, 11: 2, 95: 10}
	for total, want := range cases {
		if got := TotalPages(total, 10); got != want {
			t.Fatalf("TotalPages(%d, 10) = %d, want %d", total, got, want)
		}
	}
	if TotalPages(5, 0) != 0 {
		t.Fatal("zero limit yields zero pages")
	}
}
