package catalog

import "testing"

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Desk Lamp":        "desk-lamp",
		"  Desk   Lamp  ":  "desk-lamp",
		"Café & Thé":       "caf-th",
		"100% Cotton Tee!": "100-cotton-tee",
		"already-slugged":  "already-slugged",
		"---":              "",
		"":                 "",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
