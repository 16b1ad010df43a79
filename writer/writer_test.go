package writer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type pair struct {
	Left  string `xml:"left"`
	Right int    `xml:"right"`
}

func TestXML(t *testing.T) {
	out := new(strings.Builder)
	if err := XML(out, pair{"a<b", 2}); err != nil {
		t.Fatal(err)
	}

	want := "<pair>\n <left>a&lt;b</left>\n <right>2</right>\n</pair>\n"
	if out.String() != want {
		t.Errorf("XML() = %q, want %q", out.String(), want)
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{OutputPath("src/Main.jack", ".vm"), "src/Main.vm"},
		{OutputPath("Main.jack", "T.xml"), "MainT.xml"},
		{OutputPath("Prog", ".hack"), "Prog.hack"},
		{DirOutputPath("games/Pong/", ".asm"), filepath.Join("games", "Pong", "Pong.asm")},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Main.vm")
	if err := File(path, "return\n"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "return\n" {
		t.Errorf("file = %q, %v", data, err)
	}
}
