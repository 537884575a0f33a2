package main

import (
	"context"
	"io"

	"mend/internal/ui"
)

// progressSink forwards fix progress to the TUI; the zero value drops events.
type progressSink struct {
	ctx context.Context
	ch  chan<- ui.Event
}

func (s progressSink) emit(ev ui.Event) {
	if s.ch == nil {
		return
	}
	select {
	case s.ch <- ev:
	case <-s.ctx.Done():
	}
}

type fixRun func(ctx context.Context, sink progressSink) (*fixOutcome, error)

type runOutcome struct {
	result *fixOutcome
	err    error
}

// runFixWithUI runs work in the background while the progress model renders
// its events on out. When the UI fails the work is cancelled.
func runFixWithUI(ctx context.Context, out io.Writer, title string, files []string, work fixRun) (*fixOutcome, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan ui.Event, 256)
	outcomeCh := make(chan runOutcome, 1)
	go func() {
		res, err := work(ctx, progressSink{ctx: ctx, ch: events})
		outcomeCh <- runOutcome{result: res, err: err}
		close(events)
	}()

	uiErr := ui.Run(ctx, out, title, files, events)
	if uiErr != nil {
		cancel()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
