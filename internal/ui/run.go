package ui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"snep/internal/driver"
)

// Run executes work while a progress view consumes its events. The view
// exits once work returns; the error of work wins over a UI failure.
func Run(ctx context.Context, title string, out io.Writer, work func(sink driver.ProgressSink) error) error {
	events := make(chan driver.Event, 256)
	workErr := make(chan error, 1)

	go func() {
		err := work(driver.ChannelSink{Ch: events})
		close(events)
		workErr <- err
	}()

	program := tea.NewProgram(NewProgressModel(title, events),
		tea.WithOutput(out), tea.WithInput(nil), tea.WithContext(ctx))
	_, uiErr := program.Run()
	if uiErr != nil {
		// вью завершилась раньше: дочитываем события, чтобы воркеры не заблокировались
		for range events {
		}
	}
	if err := <-workErr; err != nil {
		return err
	}
	return uiErr
}
