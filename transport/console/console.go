package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/rocketscienceinc/tictactoe-local/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
)

const (
	actionReset    = "reset"
	actionNewRound = "new"
	actionQuit     = "quit"
)

var (
	errQuit           = errors.New("quit")
	errUnknownCommand = errors.New("unknown command")
)

type stateStore interface {
	Players() entity.Players
	CurrentGame(ctx context.Context) entity.Game
	CurrentStats(ctx context.Context) entity.Stats

	RecordMove(ctx context.Context, squareID int) error
	Reset(ctx context.Context) error
	NewRound(ctx context.Context) error

	OnChange(callback func()) func()
	Refresh()
}

// Console - line based presentation: squares 1-9 to move, "reset", "new" and "quit".
type Console struct {
	logger *slog.Logger
	store  stateStore
	in     io.Reader

	renderer *Renderer
	outMu    sync.Mutex
	out      io.Writer

	handlers map[string]func(ctx context.Context) error
}

func New(logger *slog.Logger, store stateStore, in io.Reader, out io.Writer) *Console {
	console := &Console{
		logger:   logger.With("component", "console"),
		store:    store,
		in:       in,
		out:      out,
		renderer: NewRenderer(store.Players()),

		handlers: make(map[string]func(ctx context.Context) error),
	}

	console.handlers[actionReset] = store.Reset
	console.handlers[actionNewRound] = store.NewRound
	console.handlers[actionQuit] = func(context.Context) error { return errQuit }

	return console
}

// Run - renders on every change and processes input until quit, EOF or ctx is done.
func (that *Console) Run(ctx context.Context) error {
	log := that.logger.With("method", "Run")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	unsubscribe := that.store.OnChange(func() {
		that.render(ctx)
	})
	defer unsubscribe()

	that.store.Refresh()

	lines := make(chan string)
	scanErr := make(chan error, 1)

	// Scan cannot be interrupted, on stdin this goroutine stays blocked after
	// cancellation until the next line arrives or the process exits.
	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(that.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}

		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return that.inputError(scanErr)
			}

			err := that.handle(ctx, line)
			if errors.Is(err, errQuit) {
				return nil
			}

			if err != nil {
				log.Debug("command rejected", "input", line, "error", err)
				that.printf("%s\n", describeError(err))
			}
		}
	}
}

// inputError - the reader sends its error before closing lines, nothing is sent on cancellation.
func (that *Console) inputError(scanErr <-chan error) error {
	select {
	case err := <-scanErr:
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
	default:
	}

	return nil
}

func (that *Console) handle(ctx context.Context, line string) error {
	input := strings.ToLower(strings.TrimSpace(line))
	if input == "" {
		return nil
	}

	if handler, ok := that.handlers[input]; ok {
		return handler(ctx)
	}

	squareID, err := strconv.Atoi(input)
	if err != nil {
		return fmt.Errorf("%w: %q", errUnknownCommand, input)
	}

	return that.store.RecordMove(ctx, squareID)
}

func (that *Console) render(ctx context.Context) {
	view := that.renderer.Render(that.store.CurrentGame(ctx), that.store.CurrentStats(ctx))
	that.printf("%s\n", view)
}

func (that *Console) printf(format string, args ...any) {
	that.outMu.Lock()
	defer that.outMu.Unlock()

	if _, err := fmt.Fprintf(that.out, format, args...); err != nil {
		that.logger.Error("failed to write output", "error", err)
	}
}

func describeError(err error) string {
	switch {
	case errors.Is(err, apperror.ErrSquareOccupied):
		return "That square is already taken."
	case errors.Is(err, apperror.ErrGameFinished):
		return "The game is over, type \"reset\" to play again."
	case errors.Is(err, apperror.ErrInvalidSquare):
		return "Pick a square between 1 and 9."
	case errors.Is(err, errUnknownCommand):
		return "Commands: 1-9, reset, new, quit."
	default:
		return "Could not save the game: " + err.Error()
	}
}
