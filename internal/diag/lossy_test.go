package diag

import "testing"

func TestLossy(t *testing.T) {
	tests := []struct {
		in   []byte
		want string
	}{
		{[]byte("plain"), "plain"},
		{[]byte("жир"), "жир"},
		{[]byte{'a', 0xff, 'b'}, "a�b"},
		{[]byte{}, ""},
	}
	for _, tt := range tests {
		if got := Lossy(tt.in); got != tt.want {
			t.Errorf("Lossy(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := LossyString("x\xc3"); got != "x�" {
		t.Errorf("LossyString = %q", got)
	}
}
