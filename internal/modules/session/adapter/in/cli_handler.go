package in

import (
	"context"
	"fmt"
	"strings"
	"time"

	sessiondto "flowmodoro/internal/modules/session/dto"
	sessionin "flowmodoro/internal/modules/session/port/in"
	"flowmodoro/internal/platform/format"
	"flowmodoro/internal/platform/markdown"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Record(ctx context.Context, seconds int, kind, action string) (sessiondto.RecordOutput, error) {
	return h.usecase.Record(ctx, sessiondto.RecordInput{Seconds: seconds, Kind: kind, Action: action, FinishedAt: time.Now()})
}

// Day returns the totals for day, or for today when day is empty.
func (h CLIHandler) Day(ctx context.Context, day string) (sessiondto.DayOutput, error) {
	if strings.TrimSpace(day) == "" {
		return h.usecase.Today(ctx)
	}
	return h.usecase.DayView(ctx, day)
}

func (h CLIHandler) Sync(ctx context.Context) (sessiondto.SyncOutput, error) {
	return h.usecase.Sync(ctx)
}

func (h CLIHandler) Pending(ctx context.Context) ([]sessiondto.SessionOutput, error) {
	return h.usecase.Pending(ctx)
}

func (h CLIHandler) Ping(ctx context.Context) error {
	return h.usecase.Ping(ctx)
}

// RenderDayNote formats a day as a markdown note with YAML frontmatter.
func RenderDayNote(day sessiondto.DayOutput) (string, error) {
	totals := map[string]any{}
	for _, t := range day.Totals {
		totals[t.Kind] = t.TotalSeconds
	}
	meta := map[string]any{
		"type":          "flowmodoro-day",
		"day":           day.Day,
		"total_seconds": totals,
		"sessions":      len(day.Sessions),
	}
	body := strings.Builder{}
	fmt.Fprintf(&body, "# %s\n\n", day.Day)
	body.WriteString("| kind | total | sessions |\n|---|---|---|\n")
	for _, t := range day.Totals {
		fmt.Fprintf(&body, "| %s | %s | %d |\n", t.Kind, format.Duration(t.TotalSeconds), len(t.Sessions))
	}
	if len(day.Sessions) > 0 {
		body.WriteString("\n## Sessions\n\n")
		for _, s := range day.Sessions {
			line := fmt.Sprintf("- %s %s %s", s.Timestamp, s.Kind, format.Duration(s.Seconds))
			if s.Action != "" {
				line += " (" + s.Action + ")"
			}
			body.WriteString(line + "\n")
		}
	}
	return markdown.RenderFrontmatter(meta, body.String())
}
