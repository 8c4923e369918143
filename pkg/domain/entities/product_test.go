package entities

import "testing"

func TestProduct_Pallets(t *testing.T) {
	p := Product{ID: "SKU1", UnitsPerMix: 50}

	cases := []struct {
		name string
		qty  Quantity
		want int64
	}{
		{"zero", 0, 0},
		{"negative", -10, 0},
		{"exact pallet", UnitsPerPallet, 1},
		{"one over a pallet", UnitsPerPallet + 1, 2},
		{"just under a pallet", UnitsPerPallet - 1, 1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := p.Pallets(c.qty); got != c.want {
				t.Errorf("Pallets(%d) = %d, want %d", c.qty, got, c.want)
			}
		})
	}
}
