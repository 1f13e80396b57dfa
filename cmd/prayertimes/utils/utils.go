package utils

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"prayertimes/internal/prayer"

	"github.com/jedib0t/go-pretty/v6/table"
)

func Fatal(message string, err error) {
	slog.Error(message, "err", err.Error())
	os.Exit(1)
}

// SignalContext returns a context that is cancelled on Ctrl+C, a running
// browser session is torn down when it is.
func SignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()

	return ctx
}

func NewTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func arabicLabel(name prayer.Name) string {
	labels := prayer.ArabicVocabulary[name]
	if len(labels) == 0 {
		return ""
	}
	return labels[0]
}

// PrintTimes renders whichever times are present, absent optional times
// show up as a dash.
func PrintTimes(title string, lookup func(prayer.Name) (prayer.TimeOfDay, bool)) {
	t := NewTable()
	t.SetTitle(title)
	t.AppendHeader(table.Row{"Prayer", "Label", "Time"})
	for _, name := range prayer.Names {
		value := "-"
		tod, ok := lookup(name)
		if ok {
			value = tod.String()
		}
		t.AppendRow(table.Row{name.String(), arabicLabel(name), value})
	}
	t.Render()
}

func PrintSchedule(s prayer.Schedule) {
	date, ok := s.DateLabel()
	if !ok {
		date = "-"
	}
	title := fmt.Sprintf(
		"%s (%d) | %s | via %s",
		s.Locality().Name,
		s.Locality().Key,
		date,
		s.Source(),
	)
	PrintTimes(title, s.Time)

	t := NewTable()
	t.AppendRows([]table.Row{
		{"Source URL", s.SourceURL()},
		{"Generated at", s.GeneratedAt().Format("2006-01-02 15:04:05 MST")},
	})
	t.Render()
}
