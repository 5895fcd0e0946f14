package pricing

import "testing"

func TestBillableSeconds(t *testing.T) {
	tests := []struct {
		name    string
		raw     float64
		quantum int
		min     int
		want    int
	}{
		{"zero is free", 0, 1, 1, 0},
		{"negative is free", -5, 1, 1, 0},
		{"sub-second rounds up", 0.2, 1, 1, 1},
		{"exact second", 1.0, 1, 1, 1},
		{"fraction rounds up", 1.2, 1, 1, 2},
		{"plain duration", 125, 1, 1, 125},
		{"quantum rounding", 125, 15, 30, 135},
		{"exact quantum multiple", 120, 15, 30, 120},
		{"minimum clamp", 10, 15, 30, 30},
		{"minimum applies after quantum", 14, 15, 15, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BillableSeconds(tt.raw, tt.quantum, tt.min)
			if got != tt.want {
				t.Errorf("BillableSeconds(%v, %d, %d) = %d, want %d",
					tt.raw, tt.quantum, tt.min, got, tt.want)
			}
		})
	}
}

func TestBillableSeconds_Monotonic(t *testing.T) {
	prev := 0
	for raw := 0.0; raw <= 300; raw += 0.7 {
		got := BillableSeconds(raw, 15, 30)
		if got < prev {
			t.Fatalf("BillableSeconds decreased at raw=%v: %d < %d", raw, got, prev)
		}
		prev = got
	}
}

func TestCeilDiv(t *testing.T) {
	tests := []struct {
		a, b, want int64
	}{
		{0, 60, 0},
		{-5, 60, 0},
		{1, 60, 1},
		{60, 60, 1},
		{61, 60, 2},
		{3000, 60, 50},
		{899, 4, 225},
		{900, 4, 225},
		{901, 4, 226},
	}

	for _, tt := range tests {
		if got := CeilDiv(tt.a, tt.b); got != tt.want {
			t.Errorf("CeilDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
