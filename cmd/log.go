package cmd

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/ByLCY/bookcard/chatlog"
)

type logOptions struct {
	page        int
	limit       int
	renames     []string
	resetNames  bool
	del         int
	duplicate   int
	moveUp      int
	moveDown    int
	edit        int
	editName    int
	addBlock    int
	editBlock   string
	deleteBlock string
	insertAfter int
	kind        string
	name        string
	content     string
	out         string
}

func newLogCmd(a *app) *cobra.Command {
	opts := &logOptions{}
	cmd := &cobra.Command{
		Use:   "log <chat.json>",
		Short: "Inspect and edit a chat log",
		Long: `Log lists the messages of a chat log page by page and applies edits to it.
Message numbers are 1-based, as shown in the listing. Name changes are applied
first and rebuild the messages from the file as loaded; other edits follow.
Edited logs are written to --out, or back to the input file.

Examples:
  bookcard log chat.json --page 2
  bookcard log chat.json --rename "Alice=앨리스" --out renamed.json
  bookcard log chat.json --insert-after 3 --kind character --name Alice --content "..."`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runLog(cmd, args[0], opts)
		},
	}
	f := cmd.Flags()
	f.IntVarP(&opts.page, "page", "p", 1, "page to list")
	f.IntVar(&opts.limit, "limit", 20, "messages per page")
	f.StringArrayVar(&opts.renames, "rename", nil, `rename a speaker, "old=new" (an empty new name undoes it)`)
	f.BoolVar(&opts.resetNames, "reset-names", false, "undo all renames")
	f.IntVar(&opts.del, "delete", 0, "delete message N")
	f.IntVar(&opts.duplicate, "duplicate", 0, "duplicate message N")
	f.IntVar(&opts.moveUp, "move-up", 0, "move message N up")
	f.IntVar(&opts.moveDown, "move-down", 0, "move message N down")
	f.IntVar(&opts.edit, "edit", 0, "replace the content of message N with --content")
	f.IntVar(&opts.editName, "edit-name", 0, "set the speaker of message N to --name")
	f.IntVar(&opts.addBlock, "add-block", 0, "add a colour block to message N")
	f.StringVar(&opts.editBlock, "edit-block", "", `set the note of colour block B of message N to --content, "N:B"`)
	f.StringVar(&opts.deleteBlock, "delete-block", "", `delete colour block B of message N, "N:B"`)
	f.IntVar(&opts.insertAfter, "insert-after", 0, "insert a message after N (0 inserts at the top)")
	f.StringVar(&opts.kind, "kind", string(chatlog.KindCharacter), "kind of inserted message: character or system")
	f.StringVar(&opts.name, "name", "", "speaker for --insert-after and --edit-name")
	f.StringVar(&opts.content, "content", "", "text for --insert-after, --edit and --edit-block")
	f.StringVarP(&opts.out, "out", "o", "", "write the edited log here (default: the input file)")
	return cmd
}

func (a *app) runLog(cmd *cobra.Command, path string, opts *logOptions) error {
	doc, err := chatlog.LoadFile(path)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	changed, err := a.applyLogEdits(cmd, doc, opts)
	if err != nil {
		return err
	}

	if changed {
		target := opts.out
		if target == "" {
			target = path
		}
		if err := writeLog(target, doc); err != nil {
			return err
		}
		success(out, "log written to %s", target)
	}

	printLog(out, doc, opts.page, opts.limit)
	return nil
}

func (a *app) applyLogEdits(cmd *cobra.Command, doc *chatlog.Document, opts *logOptions) (bool, error) {
	changed := false
	flags := cmd.Flags()

	if opts.resetNames {
		doc.ResetNames()
		changed = true
	}
	for _, r := range opts.renames {
		from, to, ok := strings.Cut(r, "=")
		if !ok || strings.TrimSpace(from) == "" {
			return false, fmt.Errorf(`invalid --rename %q, want "old=new"`, r)
		}
		doc.Rename(strings.TrimSpace(from), to)
		changed = true
	}

	steps := []struct {
		flag string
		n    int
		do   func(int) error
	}{
		{"delete", opts.del, doc.Delete},
		{"duplicate", opts.duplicate, doc.Duplicate},
		{"move-up", opts.moveUp, doc.MoveUp},
		{"move-down", opts.moveDown, doc.MoveDown},
		{"edit", opts.edit, func(i int) error { return doc.Edit(i, opts.content) }},
		{"edit-name", opts.editName, func(i int) error { return doc.EditName(i, opts.name) }},
		{"add-block", opts.addBlock, func(i int) error {
			return doc.AddColorBlock(i, a.cfg.BlockColor, a.cfg.BlockOpacity)
		}},
	}
	for _, s := range steps {
		if !flags.Changed(s.flag) {
			continue
		}
		if err := s.do(s.n - 1); err != nil {
			return false, fmt.Errorf("--%s %d: %w", s.flag, s.n, err)
		}
		a.logger.Debug("log edited", "op", s.flag, "message", s.n)
		changed = true
	}

	if opts.editBlock != "" {
		n, b, err := parseBlockRef("edit-block", opts.editBlock)
		if err != nil {
			return false, err
		}
		if err := doc.EditColorBlock(n-1, b-1, opts.content); err != nil {
			return false, fmt.Errorf("--edit-block %s: %w", opts.editBlock, err)
		}
		changed = true
	}

	if opts.deleteBlock != "" {
		n, b, err := parseBlockRef("delete-block", opts.deleteBlock)
		if err != nil {
			return false, err
		}
		if err := doc.DeleteColorBlock(n-1, b-1); err != nil {
			return false, fmt.Errorf("--delete-block %s: %w", opts.deleteBlock, err)
		}
		changed = true
	}

	if flags.Changed("insert-after") {
		m, err := doc.Insert(opts.insertAfter-1, chatlog.Kind(opts.kind), opts.name, opts.content)
		if err != nil {
			return false, fmt.Errorf("--insert-after %d: %w", opts.insertAfter, err)
		}
		a.logger.Debug("message inserted", "after", opts.insertAfter, "name", m.CharacterName)
		changed = true
	}
	return changed, nil
}

func parseBlockRef(flag, s string) (int, int, error) {
	msg, block, ok := strings.Cut(s, ":")
	n, err1 := strconv.Atoi(strings.TrimSpace(msg))
	b, err2 := strconv.Atoi(strings.TrimSpace(block))
	if !ok || err1 != nil || err2 != nil {
		return 0, 0, fmt.Errorf(`invalid --%s %q, want "N:B"`, flag, s)
	}
	return n, b, nil
}

func writeLog(path string, doc *chatlog.Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建聊天记录文件失败: %w", err)
	}
	if err := doc.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printLog(w io.Writer, doc *chatlog.Document, page, limit int) {
	messages, page, total := doc.Page(page, limit)
	info(w, "%d messages, page %d/%d", doc.Len(), page, total)
	if chars := doc.Characters(); len(chars) > 0 {
		info(w, "characters: %s", strings.Join(chars, ", "))
	}
	names := doc.Names()
	for _, from := range slices.Sorted(maps.Keys(names)) {
		info(w, "renamed: %s -> %s", from, names[from])
	}
	if limit <= 0 {
		limit = doc.Len()
	}
	first := (page-1)*limit + 1
	for i, m := range messages {
		name := m.CharacterName
		if name == chatlog.SystemName {
			name = chatlog.NarratorTag
		}
		fmt.Fprintf(w, "%4d  %-12s %s\n", first+i, name, preview(m.Content, 60))
		for j, b := range m.ColorBlocks {
			fmt.Fprintf(w, "      [%d:%d] %s %.1f %s\n", first+i, j+1, b.Color, b.Opacity, preview(b.Content, 40))
		}
	}
}

// preview collapses whitespace and shortens s to at most n runes.
func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
