package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/ByLCY/bookcard/compose"
	"github.com/ByLCY/bookcard/deck"
	"github.com/ByLCY/bookcard/dsl"
	"github.com/ByLCY/bookcard/internal/session"
	"github.com/ByLCY/bookcard/layout"
	canvasrenderer "github.com/ByLCY/bookcard/renderer/canvas"
)

var (
	successColor = color.New(color.FgGreen)
	infoColor    = color.New(color.FgCyan)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
)

func success(w io.Writer, format string, args ...any) { successColor.Fprintf(w, format+"\n", args...) }
func info(w io.Writer, format string, args ...any)    { infoColor.Fprintf(w, format+"\n", args...) }
func warn(w io.Writer, format string, args ...any)    { warnColor.Fprintf(w, format+"\n", args...) }
func failure(w io.Writer, format string, args ...any) { errorColor.Fprintf(w, format+"\n", args...) }

// loadDeck reads either a project file (.json) or a deck file. dataPath
// optionally names a JSON file bound into deck-file placeholders. The
// returned project carries everything besides the cards so it can be written
// back.
func (a *app) loadDeck(path, dataPath string) (*deck.Deck, *session.Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("无法打开输入文件 %s: %w", path, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		p, err := session.ReadProject(f)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		a.logger.Debug("project loaded", "path", path, "cards", len(p.Cards), "version", p.Version)
		return deck.New(p.Cards...), p, nil
	}

	var data any
	if dataPath != "" {
		raw, err := os.ReadFile(dataPath)
		if err != nil {
			return nil, nil, fmt.Errorf("读取绑定数据失败: %w", err)
		}
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, nil, fmt.Errorf("解析绑定数据 %s 失败: %w", dataPath, err)
		}
	}
	doc, err := dsl.Parse(f)
	if err != nil {
		return nil, nil, fmt.Errorf("解析 %s 失败: %w", path, err)
	}
	d, err := compose.Build(doc, data, compose.Options{Template: a.cfg.DefaultTemplate, Padding: a.cfg.Padding})
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	a.logger.Debug("deck composed", "path", path, "name", doc.Name, "cards", d.Len())
	settings := session.DefaultSettings()
	settings.Template = a.cfg.DefaultTemplate
	settings.Padding = a.cfg.Padding
	return d, &session.Project{Settings: &settings}, nil
}

// writeProject stores the deck's cards in p and writes it to path.
func writeProject(path string, d *deck.Deck, p *session.Project) error {
	if p == nil {
		p = &session.Project{}
	}
	p.Cards = d.Cards()
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建输出目录失败: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建项目文件失败: %w", err)
	}
	if err := session.WriteProject(f, *p); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// newRenderer creates the canvas renderer rooted at the input's directory,
// along with layout options using the configured fonts.
func (a *app) newRenderer(inputPath string) (*canvasrenderer.Renderer, layout.BuildOptions) {
	r := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
		BaseDir: filepath.Dir(inputPath),
		DPMM:    a.cfg.DPMM,
	})
	return r, layout.BuildOptions{Typesetter: r, Fonts: a.cfg.LayoutFonts()}
}

// confirm asks a yes/no question when in is an interactive terminal. It
// returns false without asking otherwise.
func (a *app) confirm(in io.Reader, out io.Writer, question string) bool {
	f, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return false
	}
	return a.ask(in, out, question)
}

// ask reads the answer through one buffered reader per input, so bytes
// already buffered for later prompts are not lost.
func (a *app) ask(in io.Reader, out io.Writer, question string) bool {
	if a.input == nil || a.inputSrc != in {
		a.input = bufio.NewReader(in)
		a.inputSrc = in
	}
	fmt.Fprintf(out, "%s [y/N] ", question)
	answer, _ := a.input.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "예", "네":
		return true
	}
	return false
}

// parseSelection parses 1-based lists such as "1,2,5" or "3-6" into 0-based
// indices, keeping the given order.
func parseSelection(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(part, "-")
		from, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil || from < 1 {
			return nil, fmt.Errorf("invalid selection %q", part)
		}
		to := from
		if isRange {
			to, err = strconv.Atoi(strings.TrimSpace(hi))
			if err != nil || to < from {
				return nil, fmt.Errorf("invalid selection %q", part)
			}
		}
		for i := from; i <= to; i++ {
			out = append(out, i-1)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty selection")
	}
	return out, nil
}
