// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// history.go - Listing, showing and deleting stored analyses.
//
// Usage:
//
//	legalease history [list] [--limit N] [--json]
//	legalease history show ID [--json]
//	legalease history delete ID
//
// IDs may be abbreviated to any unique prefix.

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jeranaias/legalease-tui/internal/chat"
	"github.com/jeranaias/legalease-tui/internal/util"
)

// sourceWidth is the column width for document names in listings.
const sourceWidth = 36

type historyItemJSON struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Source    string    `json:"source"`
	Kind      string    `json:"kind"`
	Language  string    `json:"language"`
	Turns     int       `json:"turns"`
}

type historyShowJSON struct {
	analysisJSON
	Chat []chat.Turn `json:"chat"`
}

func runHistory(ctx context.Context, args Args, env *Env) error {
	if err := requireStore(env, "history"); err != nil {
		return err
	}
	switch args.Subcommand {
	case "list", "ls":
		return historyList(ctx, args, env)
	case "show", "view":
		if args.ID == "" {
			return ErrMissingArgument("id", "legalease history show 3f2a9c1e")
		}
		return historyShow(ctx, args, env)
	case "delete", "rm":
		if args.ID == "" {
			return ErrMissingArgument("id", "legalease history delete 3f2a9c1e")
		}
		return historyDelete(ctx, args, env)
	}
	return &ValidationError{
		Field:   "subcommand",
		Value:   args.Subcommand,
		Reason:  "expected list, show or delete",
		Example: "legalease history show 3f2a9c1e",
	}
}

func historyList(ctx context.Context, args Args, env *Env) error {
	items, err := env.Store.List(ctx, args.Limit)
	if err != nil {
		return NewCommandError("history", "list", err)
	}

	if args.JSON {
		out := make([]historyItemJSON, 0, len(items))
		for _, it := range items {
			out = append(out, historyItemJSON{
				ID:        it.ID,
				CreatedAt: it.CreatedAt,
				Source:    it.Source,
				Kind:      it.Kind.String(),
				Language:  it.Language,
				Turns:     it.Turns,
			})
		}
		return NewJSONResponse("history", out).Write(env.Stdout)
	}

	if len(items) == 0 {
		fmt.Fprintln(env.Stdout, DimStyle.Render("No analyses yet. Run: legalease analyze FILE"))
		return nil
	}

	fmt.Fprintln(env.Stdout, TitleStyle.Render("Analyses"))
	fmt.Fprintln(env.Stdout, RenderSeparator())
	for _, it := range items {
		source := padRight(util.Preview(it.Source, sourceWidth), sourceWidth)
		fmt.Fprintf(env.Stdout, "%s  %s  %-9s %s  %s\n",
			ValueStyle.Render(shortID(it.ID)),
			source,
			it.Language,
			DimStyle.Render(it.CreatedAt.Local().Format("2006-01-02 15:04")),
			DimStyle.Render(turnCount(it.Turns)))
	}
	return nil
}

func historyShow(ctx context.Context, args Args, env *Env) error {
	rec, err := env.Store.Get(ctx, args.ID)
	if err != nil {
		return err
	}
	turns, err := env.Store.LoadTurns(ctx, rec.ID)
	if err != nil {
		return NewCommandError("history", "show", err)
	}

	if args.JSON {
		return NewJSONResponse("history", historyShowJSON{
			analysisJSON: recordJSON(rec, nil),
			Chat:         turns,
		}).Write(env.Stdout)
	}

	fmt.Fprintln(env.Stdout, TitleStyle.Render(rec.Source))
	printField(env.Stdout, "ID", rec.ID)
	printField(env.Stdout, "Kind", rec.Kind.String())
	printField(env.Stdout, "Language", rec.Language)
	printField(env.Stdout, "Analyzed", rec.CreatedAt.Local().Format("2006-01-02 15:04"))
	fmt.Fprintln(env.Stdout)

	r := reportRenderer(env.Stdout, true)
	writeReport(env.Stdout, rec, r)

	if len(turns) > 0 {
		fmt.Fprintln(env.Stdout, SectionStyle.Render("Chat"))
		for _, t := range turns {
			printTurn(env.Stdout, r, t)
		}
	}
	return nil
}

func historyDelete(ctx context.Context, args Args, env *Env) error {
	rec, err := env.Store.Get(ctx, args.ID)
	if err != nil {
		return err
	}
	if err := env.Store.Delete(ctx, rec.ID); err != nil {
		return NewCommandError("history", "delete", err)
	}
	if args.JSON {
		return NewJSONResponse("history", map[string]string{"deleted": rec.ID}).Write(env.Stdout)
	}
	fmt.Fprintln(env.Stdout, SuccessStyle.Render("Deleted "+shortID(rec.ID)+" ("+rec.Source+")"))
	return nil
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintln(w, LabelStyle.Render(label+":")+ValueStyle.Render(value))
}

// padRight pads s with spaces to width terminal cells.
func padRight(s string, width int) string {
	if n := util.StringWidth(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func turnCount(n int) string {
	switch n {
	case 0:
		return "no chat"
	case 1:
		return "1 message"
	}
	return fmt.Sprintf("%d messages", n)
}
