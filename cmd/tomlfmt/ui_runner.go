package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"tomlfmt/internal/driver"
	"tomlfmt/internal/ui"
)

type formatOutcome struct {
	results []driver.Result
	err     error
}

// runFormatWithUI formats files while a Bubble Tea program renders their
// progress on stderr, keeping stdout free for reports.
func runFormatWithUI(ctx context.Context, title string, files []string, opts driver.FormatOptions) ([]driver.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan formatOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.FormatPaths(ctx, files, optsCopy)
		outcomeCh <- formatOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// модель завершается только после закрытия events, если её не прервали;
	// в остальных случаях останавливаем работу и дочитываем события
	cancel()
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
