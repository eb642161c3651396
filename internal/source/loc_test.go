package source

import "testing"

func TestLocAdvance(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Loc
	}{
		{name: "empty", input: "", want: Loc{File: "a.snep"}},
		{name: "single line", input: "abc", want: Loc{File: "a.snep", Col: 3}},
		{name: "newline resets column", input: "ab\nc", want: Loc{File: "a.snep", Row: 1, Col: 1}},
		{name: "trailing newline", input: "ab\n", want: Loc{File: "a.snep", Row: 1, Col: 0}},
		{name: "carriage return is a column", input: "a\r\nb", want: Loc{File: "a.snep", Row: 1, Col: 1}},
		{name: "multibyte counts bytes", input: "α", want: Loc{File: "a.snep", Col: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewLoc("a.snep").AdvanceString(tt.input)
			if got != tt.want {
				t.Errorf("AdvanceString(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
			if fromBytes := NewLoc("a.snep").AdvanceBytes([]byte(tt.input)); fromBytes != got {
				t.Errorf("AdvanceBytes and AdvanceString disagree: %+v vs %+v", fromBytes, got)
			}
		})
	}
}

func TestLocString(t *testing.T) {
	if got := (Loc{}).String(); got != "<unknown>" {
		t.Errorf("unknown location = %q", got)
	}
	if got := (Loc{Row: 4, Col: 2}).String(); got != "<unknown>" {
		t.Errorf("unnamed location with position = %q, want <unknown>", got)
	}
	if got := (Loc{File: "doc.snep", Row: 0, Col: 0}).String(); got != "doc.snep:1:1" {
		t.Errorf("start location = %q", got)
	}
	if got := (Loc{File: "doc.snep", Row: 9, Col: 14}).String(); got != "doc.snep:10:15" {
		t.Errorf("location = %q", got)
	}
}

func TestLocLess(t *testing.T) {
	a := Loc{File: "a", Row: 1, Col: 5}
	b := Loc{File: "a", Row: 2, Col: 0}
	c := Loc{File: "b", Row: 0, Col: 0}
	if !a.Less(b) || b.Less(a) {
		t.Error("row ordering broken")
	}
	if !b.Less(c) {
		t.Error("file ordering broken")
	}
	if a.Less(a) {
		t.Error("Less must be strict")
	}
}
