package detection

import "testing"

func TestNormalizeLabel(t *testing.T) {
	cases := map[string]string{
		"salad green":       "Salad Green",
		"Coca Cola":         "Coca Cola",
		"coca   cola":       "Coca Cola",
		"  wrap yellow  ":   "Wrap Yellow",
		"SW pink":           "Sw Pink",
		"salad SkyBlue":     "Salad Skyblue",
		"100 plus":          "100 Plus",
		"coca-cola":         "Coca-cola",
		"100plus":           "100plus",
		"salad_green":       "Salad_green",
		"o'neil":            "O'neil",
		"cakes":             "Cakes",
		"":                  "",
		"   ":               "",
		"cold\tbrew\ncoffee": "Cold Brew Coffee",
	}
	for input, want := range cases {
		if got := NormalizeLabel(input); got != want {
			t.Fatalf("NormalizeLabel(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNormalizeLabelIsIdempotent(t *testing.T) {
	inputs := []string{
		"salad green", "SW Pink", "Blackcurrent cans", "oats BLUE", "mineral  water",
		"", "x", "ÉCLAIR au chocolat", "bottled-tea", "100plus",
	}
	for _, input := range inputs {
		once := NormalizeLabel(input)
		if twice := NormalizeLabel(once); twice != once {
			t.Fatalf("normalize not idempotent for %q: %q then %q", input, once, twice)
		}
	}
}
