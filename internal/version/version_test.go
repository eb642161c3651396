package version

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
	info := Current()
	if info.Version != Version || info.GoVersion == "" {
		t.Errorf("unexpected info %+v", info)
	}
}

func TestColored(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"1.2.3", "1.2.3"},
		{"0.1.0-dev", "0.1.0-dev"},
		{"weird", "weird"},
	}
	for _, tt := range tests {
		// без цвета вывод совпадает с исходной строкой
		if got := Colored(tt.in, false); got != tt.want {
			t.Errorf("Colored(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := Colored("1.2.3", true); !strings.Contains(got, "\x1b[") {
		t.Errorf("expected escape sequences, got %q", got)
	}
}

func TestWritePretty(t *testing.T) {
	var buf bytes.Buffer
	info := Info{Version: "1.2.3", GitCommit: "abc123", GoVersion: "go1.25"}
	if err := WritePretty(&buf, info, false); err != nil {
		t.Fatal(err)
	}
	want := "snep 1.2.3\ncommit: abc123\ngo:     go1.25\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, Info{Version: "1.2.3", GoVersion: "go1.25"}); err != nil {
		t.Fatal(err)
	}
	var got Info
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Version != "1.2.3" || got.BuildDate != "" {
		t.Errorf("unexpected %+v", got)
	}
}
