package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ByLCY/bookcard/card"
	"github.com/ByLCY/bookcard/chatlog"
	"github.com/ByLCY/bookcard/deck"
	"github.com/ByLCY/bookcard/internal/session"
)

type composeOptions struct {
	log               string
	selection         string
	template          string
	title             string
	removeParentheses bool
	appendSession     bool
	out               string
}

func newComposeCmd(a *app) *cobra.Command {
	opts := &composeOptions{}
	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Compose selected chat-log passages into a new card",
		Long: `Compose joins the selected passages of a chat log into one card. The speakers
of the selected passages become the card's author. The result is saved to the
session (restorable for 24 hours with --append) and, with --out, to a project
file.

Examples:
  bookcard compose --log chat.json --select 1,2,5 --out project.json
  bookcard compose --log chat.json --select 7-9 --template kindle --append --out project.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCompose(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.log, "log", "l", "", "chat log JSON file")
	cmd.Flags().StringVarP(&opts.selection, "select", "s", "", `passages to use, 1-based ("1,2,5" or "3-6")`)
	cmd.Flags().StringVarP(&opts.template, "template", "t", "", "card template (default from config)")
	cmd.Flags().StringVar(&opts.title, "title", "", "card title")
	cmd.Flags().BoolVar(&opts.removeParentheses, "remove-parentheses", false, `drop "(...)" asides from the passages`)
	cmd.Flags().BoolVar(&opts.appendSession, "append", false, "add to the cards of the saved session")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "write the project to this file")
	_ = cmd.MarkFlagRequired("log")
	_ = cmd.MarkFlagRequired("select")
	return cmd
}

func (a *app) runCompose(cmd *cobra.Command, opts *composeOptions) error {
	out := cmd.OutOrStdout()
	raw, err := os.ReadFile(opts.log)
	if err != nil {
		return fmt.Errorf("读取聊天记录失败: %w", err)
	}
	doc, err := chatlog.Load(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%s: %w", opts.log, err)
	}
	ids, err := parseSelection(opts.selection)
	if err != nil {
		return err
	}
	content, author, err := doc.Compose(ids, chatlog.ComposeOptions{RemoveParentheses: opts.removeParentheses})
	if err != nil {
		return err
	}

	template := opts.template
	if template == "" {
		template = a.cfg.DefaultTemplate
	}
	if _, ok := card.LookupTemplate(template); !ok {
		return fmt.Errorf("unknown template %q (available: %v)", template, card.TemplateNames())
	}

	store := session.FileStore{Dir: a.cfg.SessionDir}
	settings := session.DefaultSettings()
	settings.Template = template
	settings.Padding = a.cfg.Padding
	d := deck.New()
	if opts.appendSession {
		snap, err := session.Load(store, time.Now())
		switch {
		case errors.Is(err, session.ErrNotFound):
			info(out, "no saved session, starting a new one")
		case errors.Is(err, session.ErrExpired):
			warn(out, "saved session expired, starting a new one")
			if err := store.Delete(session.Key); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			d = deck.New(snap.Cards...)
			settings = snap.Settings
			settings.Template = template
		}
	}

	c := card.New(template)
	c.Content = content
	c.Author = author
	if opts.title != "" {
		c.Title = opts.title
	}
	if a.cfg.Padding > 0 {
		c.Padding = a.cfg.Padding
	}
	d.Add(c)
	a.logger.Debug("card composed", "id", c.ID, "passages", len(ids), "author", author, "template", template)

	passages := doc.Passages()
	if err := session.Save(store, session.Snapshot{Cards: d.Cards(), Messages: passages, Settings: settings}); err != nil {
		return fmt.Errorf("保存会话失败: %w", err)
	}
	success(out, "card %d composed from %d passage(s) by %s", d.Len(), len(ids), displayAuthor(author))

	if opts.out != "" {
		p := &session.Project{Messages: passages, RawData: json.RawMessage(raw), Settings: &settings}
		if err := writeProject(opts.out, d, p); err != nil {
			return err
		}
		success(out, "project written to %s", opts.out)
	}
	return nil
}

func displayAuthor(author string) string {
	if author == "" {
		return chatlog.NarratorTag
	}
	return author
}
