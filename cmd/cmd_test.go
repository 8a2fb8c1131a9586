package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/bookcard/chatlog"
	"github.com/ByLCY/bookcard/internal/session"
)

const chatLog = `{
  "messages": [
    {"id": 1, "characterName": "Unknown", "content": "비가 내린다."},
    {"id": 2, "characterName": "Alice", "content": "(작게) 우산 있어? [편집 완료]", "avatar": "a.png"},
    {"id": 3, "characterName": "PL 웃", "content": "없어."},
    {"id": 4, "characterName": "Bob", "content": "같이 쓰자."}
  ]
}`

const deckSource = `deck Shelf v1 {
  card readwise {
    size 500 700
    "A short line that fits."
  }

  card {
    "${quote}"
  }
}
`

// run executes one command line against an isolated config and data home.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(""))
	err := root.Execute()
	return out.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	dir := t.TempDir()
	write(t, filepath.Join(dir, "chat.json"), chatLog)
	write(t, filepath.Join(dir, "shelf.bookcard"), deckSource)
	write(t, filepath.Join(dir, "data.json"), `{"quote": "Fear is the mind-killer."}`)
	return dir
}

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readProject(t *testing.T, path string) *session.Project {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	p, err := session.ReadProject(f)
	if err != nil {
		t.Fatalf("read project: %v", err)
	}
	return p
}

func TestParseSelection(t *testing.T) {
	got, err := parseSelection("1, 3-5,2")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{0, 2, 3, 4, 1}, got); diff != "" {
		t.Fatalf("selection (-want +got):\n%s", diff)
	}
	for _, bad := range []string{"", "0", "a", "5-3", ","} {
		if _, err := parseSelection(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func TestAskKeepsBufferedAnswers(t *testing.T) {
	a := &app{}
	in := strings.NewReader("y\nn\nyes\n")
	var out bytes.Buffer
	var got []bool
	for i := 0; i < 3; i++ {
		got = append(got, a.ask(in, &out, "split?"))
	}
	if diff := cmp.Diff([]bool{true, false, true}, got); diff != "" {
		t.Fatalf("answers (-want +got):\n%s", diff)
	}
	if strings.Count(out.String(), "[y/N]") != 3 {
		t.Fatalf("expected three prompts, got %q", out.String())
	}
}

func TestLogRenameAndInsert(t *testing.T) {
	dir := isolate(t)
	in := filepath.Join(dir, "chat.json")
	out := filepath.Join(dir, "edited.json")

	stdout, err := run(t, "log", in,
		"--rename", "Alice=앨리스",
		"--insert-after", "2", "--name", "앨리스", "--content", "고마워",
		"--add-block", "1",
		"--out", out)
	if err != nil {
		t.Fatalf("log: %v\n%s", err, stdout)
	}
	if !strings.Contains(stdout, "5 messages, page 1/1") {
		t.Fatalf("missing summary:\n%s", stdout)
	}

	doc, err := chatlog.LoadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, m := range doc.Messages {
		names = append(names, m.CharacterName)
	}
	want := []string{"Unknown", "앨리스", "앨리스", "PL 웃", "Bob"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("speakers (-want +got):\n%s", diff)
	}
	if doc.Messages[2].Avatar != "a.png" || doc.Messages[2].Content != "고마워" {
		t.Fatalf("inserted message: %+v", doc.Messages[2])
	}
	if len(doc.Messages[0].ColorBlocks) != 1 || doc.Messages[0].ColorBlocks[0].Color != "#fff3a0" {
		t.Fatalf("colour block: %+v", doc.Messages[0].ColorBlocks)
	}

	// 原文件不应被改动
	orig, err := chatlog.LoadFile(in)
	if err != nil {
		t.Fatal(err)
	}
	if orig.Len() != 4 {
		t.Fatalf("input modified: %d messages", orig.Len())
	}
}

func TestLogEditsColourBlockAndSpeaker(t *testing.T) {
	dir := isolate(t)
	in := filepath.Join(dir, "chat.json")

	if _, err := run(t, "log", in, "--add-block", "4"); err != nil {
		t.Fatalf("add block: %v", err)
	}
	stdout, err := run(t, "log", in, "--edit-block", "4:1", "--content", "복선 [편집 완료]", "--edit-name", "3", "--name", "Carol")
	if err != nil {
		t.Fatalf("edit: %v\n%s", err, stdout)
	}

	doc, err := chatlog.LoadFile(in)
	if err != nil {
		t.Fatal(err)
	}
	if blocks := doc.Messages[3].ColorBlocks; len(blocks) != 1 || blocks[0].Content != "복선" {
		t.Fatalf("colour block not edited: %+v", blocks)
	}
	if doc.Messages[2].CharacterName != "Carol" || doc.Messages[3].CharacterName != "Bob" {
		t.Fatalf("speakers: %q / %q", doc.Messages[2].CharacterName, doc.Messages[3].CharacterName)
	}

	if _, err := run(t, "log", in, "--edit-block", "4:2", "--content", "x"); err == nil {
		t.Fatal("expected error for block 2")
	}
	if _, err := run(t, "log", in, "--edit-block", "4", "--content", "x"); err == nil {
		t.Fatal("expected error for malformed reference")
	}
}

func TestLogRejectsBadIndex(t *testing.T) {
	dir := isolate(t)
	if _, err := run(t, "log", filepath.Join(dir, "chat.json"), "--delete", "9"); err == nil {
		t.Fatal("expected error for message 9")
	}
}

func TestComposeAppendsToSession(t *testing.T) {
	dir := isolate(t)
	log := filepath.Join(dir, "chat.json")
	project := filepath.Join(dir, "project.json")

	if _, err := run(t, "compose", "--log", log, "--select", "1,2", "--remove-parentheses", "--title", "Rain"); err != nil {
		t.Fatalf("first compose: %v", err)
	}
	stdout, err := run(t, "compose", "--log", log, "--select", "4", "--template", "kindle", "--append", "--out", project)
	if err != nil {
		t.Fatalf("second compose: %v\n%s", err, stdout)
	}

	p := readProject(t, project)
	if len(p.Cards) != 2 {
		t.Fatalf("want 2 cards, got %d", len(p.Cards))
	}
	first, second := p.Cards[0], p.Cards[1]
	if first.Content != "비가 내린다.\n\n우산 있어?" || first.Author != "Alice" || first.Title != "Rain" {
		t.Fatalf("first card: %+v", first)
	}
	if second.Template != "kindle" || second.Content != "같이 쓰자." || second.Author != "Bob" {
		t.Fatalf("second card: %+v", second)
	}
	if len(p.Messages) != 4 || p.Messages[0].Character != chatlog.NarratorTag {
		t.Fatalf("passages: %+v", p.Messages)
	}
	if len(p.RawData) == 0 || p.Settings.Template != "kindle" {
		t.Fatalf("project metadata: raw=%d settings=%+v", len(p.RawData), p.Settings)
	}
}

func TestComposeRejectsUnknownTemplate(t *testing.T) {
	dir := isolate(t)
	_, err := run(t, "compose", "--log", filepath.Join(dir, "chat.json"), "--select", "1", "--template", "fancy")
	if err == nil || !strings.Contains(err.Error(), "fancy") {
		t.Fatalf("want unknown template error, got %v", err)
	}
}

func TestFitAndSplit(t *testing.T) {
	dir := isolate(t)
	project := filepath.Join(dir, "project.json")
	stdout, err := run(t, "fit", filepath.Join(dir, "shelf.bookcard"), "--data", filepath.Join(dir, "data.json"), "--apply", "--out", project)
	if err != nil {
		t.Fatalf("fit: %v\n%s", err, stdout)
	}
	if !strings.Contains(stdout, "card 1: fits") {
		t.Fatalf("short card should fit:\n%s", stdout)
	}
	p := readProject(t, project)
	if len(p.Cards) != 2 || p.Cards[1].Content != "Fear is the mind-killer." {
		t.Fatalf("cards: %+v", p.Cards)
	}

	if _, err := run(t, "split", project, "--index", "2"); err != nil {
		t.Fatalf("split: %v", err)
	}
	p = readProject(t, project)
	if len(p.Cards) != 3 {
		t.Fatalf("want 3 cards after split, got %d", len(p.Cards))
	}
	if p.Cards[1].Content != "Fear is" || p.Cards[2].Content != "the mind-killer." {
		t.Fatalf("split halves: %q / %q", p.Cards[1].Content, p.Cards[2].Content)
	}
	if p.Cards[1].ID == p.Cards[2].ID {
		t.Fatal("sibling must get a new id")
	}

	if _, err := run(t, "split", project, "--index", "9"); err == nil {
		t.Fatal("expected error for card 9")
	}
}

func TestFitSplitCountsHalvesThatStillOverflow(t *testing.T) {
	dir := isolate(t)
	long := strings.Repeat("a", 2000) + " " + strings.Repeat("b", 2000)
	deckPath := filepath.Join(dir, "long.bookcard")
	write(t, deckPath, "deck Long v1 {\n  card {\n    size 200 200\n    \""+long+"\"\n  }\n}\n")

	stdout, err := run(t, "fit", deckPath, "--split")
	if err != nil {
		t.Fatalf("fit: %v\n%s", err, stdout)
	}
	if !strings.Contains(stdout, "card 1 split") {
		t.Fatalf("card 1 should be split:\n%s", stdout)
	}
	// 两半都是单个超长单词，分割后仍然溢出
	if !strings.Contains(stdout, "2 card(s) still overflow") {
		t.Fatalf("both halves should be counted as overflowing:\n%s", stdout)
	}
}

func TestRenderPNG(t *testing.T) {
	dir := isolate(t)
	outDir := filepath.Join(dir, "build")
	debug := filepath.Join(dir, "debug", "layout.json")
	stdout, err := run(t, "render", filepath.Join(dir, "shelf.bookcard"), "--data", filepath.Join(dir, "data.json"), "--out", outDir, "--debug", debug)
	if err != nil {
		t.Fatalf("render: %v\n%s", err, stdout)
	}
	for _, name := range []string{"card-01.png", "card-02.png"} {
		data, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !bytes.HasPrefix(data, []byte("\x89PNG")) {
			t.Fatalf("%s is not a PNG", name)
		}
	}
	if _, err := os.Stat(debug); err != nil {
		t.Fatalf("debug layout not written: %v", err)
	}
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	dir := isolate(t)
	if _, err := run(t, "render", filepath.Join(dir, "shelf.bookcard"), "--format", "gif"); err == nil {
		t.Fatal("expected error for gif")
	}
}
