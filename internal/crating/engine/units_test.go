package engine

import (
	"math"
	"testing"
)

func TestUnitConversions(t *testing.T) {
	cases := []struct {
		name string
		got  float64
		want float64
	}{
		{"1 kg in lb", KgToLb(1), 2.20462262185},
		{"100 kg in lb", KgToLb(100), 220.462262185},
		{"2.54 cm in in", CmToIn(2.54), 1},
		{"100 cm in in", CmToIn(100), 39.3700787402},
		{"1 in³ in m³", In3ToM3(1), 1.6387064e-5},
		{"61023.7 in³ ≈ 1 m³", In3ToM3(61023.744095), 1},
	}
	for _, c := range cases {
		if math.Abs(c.got-c.want) > 1e-9 {
			t.Errorf("%s: got %.12g, want %.12g", c.name, c.got, c.want)
		}
	}
}
