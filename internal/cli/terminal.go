package cli

import (
	"bufio"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/roach88/shufflepad/internal/device"
	"github.com/roach88/shufflepad/internal/display"
)

// clearScreen homes the cursor and clears the terminal.
const clearScreen = "\x1b[H\x1b[2J"

// terminalDisplay draws on a Canvas and prints each presented frame that
// differs from the one before.
type terminalDisplay struct {
	*display.Canvas
	out   io.Writer
	clear bool
	last  string
}

func newTerminalDisplay(out io.Writer, clear bool) *terminalDisplay {
	return &terminalDisplay{Canvas: display.NewCanvas(false), out: out, clear: clear}
}

// Present shows the frame on the terminal when it changed.
func (t *terminalDisplay) Present() {
	t.Canvas.Present()
	frame := t.Canvas.Frame()
	if frame == t.last {
		return
	}
	t.last = frame
	if t.clear {
		_, _ = io.WriteString(t.out, clearScreen)
	}
	_, _ = io.WriteString(t.out, frame)
}

// stick is a joystick driven by keyboard commands. Each queued move holds
// the axis at full deflection for one sample, then it springs back to the
// centre.
//
// Thread-safety: Move is called by the command reader, ReadAxis by the main
// loop.
// stick replays typed commands in the order they were read. The device loop
// drains it one command per tick: a move deflects the axis for that tick,
// and a press right behind a move is released to the gate in the same tick,
// after the move, so it selects the row the move reached.
type stick struct {
	gate   *device.PressGate
	logger *slog.Logger

	mu    sync.Mutex
	queue []command
}

func newStick(gate *device.PressGate, logger *slog.Logger) *stick {
	return &stick{gate: gate, logger: logger}
}

// Push queues one up, down or press command.
func (s *stick) Push(c command) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, c)
}

// Len returns the number of queued commands.
func (s *stick) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// ReadAxis takes the next queued command. Moves return a full deflection,
// everything else the centre.
func (s *stick) ReadAxis() uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return device.AxisCenter
	}
	c := s.pop()
	switch c {
	case commandUp:
		s.releasePress()
		return device.AxisMax
	case commandDown:
		s.releasePress()
		return 0
	case commandPress:
		s.edge()
	}
	return device.AxisCenter
}

// releasePress hands a press queued right behind the current move to the
// gate. Callers hold s.mu.
func (s *stick) releasePress() {
	if len(s.queue) > 0 && s.queue[0] == commandPress {
		s.pop()
		s.edge()
	}
}

func (s *stick) pop() command {
	c := s.queue[0]
	s.queue = s.queue[1:]
	return c
}

func (s *stick) edge() {
	res := s.gate.Edge()
	s.logger.Debug("button edge", "result", res.String())
}

type command int

const (
	commandUnknown command = iota
	commandUp
	commandDown
	commandPress
	commandQuit
)

// parseCommand maps one input word to a command.
func parseCommand(word string) command {
	switch strings.ToLower(word) {
	case "u", "up", "w", "k":
		return commandUp
	case "d", "down", "s", "j":
		return commandDown
	case "p", "press", "x", "ok":
		return commandPress
	case "q", "quit", "exit":
		return commandQuit
	default:
		return commandUnknown
	}
}

// readCommands queues stdin commands on the stick until quit or end of
// input. An empty line is a press. It returns true when the user asked to
// quit.
func readCommands(in io.Reader, st *stick, logger *slog.Logger) bool {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		words := strings.Fields(scanner.Text())
		if len(words) == 0 {
			words = []string{"press"}
		}
		for _, w := range words {
			switch c := parseCommand(w); c {
			case commandUp, commandDown, commandPress:
				st.Push(c)
			case commandQuit:
				return true
			default:
				logger.Warn("unknown command", "input", w)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Error("reading commands", "error", err)
	}
	return false
}
