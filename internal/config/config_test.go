package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/bookcard/card"
)

func TestLoadConfigCreatesDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("unexpected defaults (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(GetConfigFilePath()); err != nil {
		t.Fatalf("default config file not written: %v", err)
	}

	// 第二次读取应当从文件解码出同样的内容
	again, err := LoadConfig()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if diff := cmp.Diff(cfg, again); diff != "" {
		t.Fatalf("reloaded config differs (-want +got):\n%s", diff)
	}
}

func TestLoadMergesDefaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
default_template = "kindle"
padding = 24

[fonts.Bookerly]
src = "fonts/Bookerly.ttf"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DefaultTemplate != card.TemplateKindle || cfg.Padding != 24 {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.SessionDir != filepath.Join("/data", "bookcard", "session") || cfg.DPMM <= 0 {
		t.Fatalf("defaults lost: %+v", cfg)
	}
	fonts := cfg.LayoutFonts()
	if fonts["Bookerly"].Src != "fonts/Bookerly.ttf" || fonts["Body"].Src != "builtin:regular" {
		t.Fatalf("font table not merged: %+v", fonts)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"unknown template": `default_template = "fancy"`,
		"unknown key":      `colour = "red"`,
		"opacity":          `block_opacity = 2.0`,
		"font without src": "[fonts.X]\nstyle = \"bold\"",
		"syntax":           `padding = `,
	}
	for name, content := range cases {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
