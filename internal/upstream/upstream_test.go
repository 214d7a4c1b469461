package upstream

import "testing"

func TestSelectByTagLength(t *testing.T) {
	cases := []struct {
		tag  string
		want Source
	}{
		{"ABC1234", SourceDell},
		{"", SourceDell},
		{"ABCDEFGHIJK", SourceDell},       // 11 chars
		{"ABCDEFGHIJKL", SourceMicrosoft}, // 12 chars
		{"030593741953492", SourceMicrosoft},
	}

	for _, tc := range cases {
		if got := Select(tc.tag); got != tc.want {
			t.Fatalf("Select(%q) = %s, want %s", tc.tag, got, tc.want)
		}
	}
}

func TestSelectDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		if Select("ABCDEFGHIJKL") != SourceMicrosoft {
			t.Fatal("selection not deterministic")
		}
	}
}
