package fonts

import "testing"

func TestLoadBuiltin(t *testing.T) {
	for _, name := range []string{"regular", "builtin:bold", "built-in:Mono"} {
		data, err := Load(name)
		if err != nil {
			t.Fatalf("Load(%q): %v", name, err)
		}
		if len(data) == 0 {
			t.Fatalf("Load(%q) returned no bytes", name)
		}
	}
	if _, err := Load("builtin:comic-sans"); err == nil {
		t.Fatalf("expected unknown font error")
	}
}
