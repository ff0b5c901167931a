// Package replay feeds a recorded command stream through the dispatcher.
package replay

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/OCAP2/hazardtrack/internal/dispatcher"
	"github.com/rs/zerolog"
)

// ErrEmptyLine is returned for a JSONL entry without a command name.
var ErrEmptyLine = errors.New("command line has no command")

// maxLineSize bounds a single JSONL entry.
const maxLineSize = 1 << 20

// ReadJSONL parses one command per line: ["<command>", "arg", ...].
// Blank lines and lines starting with # are skipped. Non-string args are
// kept in their JSON text form.
func ReadJSONL(r io.Reader) ([]dispatcher.Event, error) {
	var events []dispatcher.Event

	scan := bufio.NewScanner(r)
	scan.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNo := 0
	for scan.Scan() {
		lineNo++
		line := strings.TrimSpace(scan.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var raw []json.RawMessage
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if len(raw) == 0 {
			return nil, fmt.Errorf("line %d: %w", lineNo, ErrEmptyLine)
		}

		fields := make([]string, len(raw))
		for i, v := range raw {
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				s = string(v)
			}
			fields[i] = s
		}
		if fields[0] == "" {
			return nil, fmt.Errorf("line %d: %w", lineNo, ErrEmptyLine)
		}
		events = append(events, dispatcher.Event{Command: fields[0], Args: fields[1:]})
	}
	if err := scan.Err(); err != nil {
		return nil, fmt.Errorf("reading commands: %w", err)
	}
	return events, nil
}

// Stats summarizes a replay run.
type Stats struct {
	Dispatched int
	Failed     int
	Unhandled  int
}

// Player replays events in order. Handler errors are logged and counted,
// never fatal, matching how a live event source keeps streaming.
type Player struct {
	d      *dispatcher.Dispatcher
	logger zerolog.Logger

	// OnResult is called after every successfully handled event.
	OnResult func(e dispatcher.Event, result any)
}

// NewPlayer creates a player dispatching into d.
func NewPlayer(d *dispatcher.Dispatcher, logger zerolog.Logger) *Player {
	return &Player{d: d, logger: logger}
}

// Play dispatches every event. Events without a registered handler are skipped.
func (p *Player) Play(events []dispatcher.Event) Stats {
	var stats Stats
	for i, e := range events {
		if !p.d.HasHandler(e.Command) {
			stats.Unhandled++
			p.logger.Debug().Int("index", i).Str("command", e.Command).Msg("No handler for command")
			continue
		}
		if e.Timestamp.IsZero() {
			e.Timestamp = time.Now()
		}

		stats.Dispatched++
		result, err := p.d.Dispatch(e)
		if err != nil {
			stats.Failed++
			p.logger.Warn().Err(err).Int("index", i).Str("command", e.Command).Msg("Command failed")
			continue
		}
		if p.OnResult != nil {
			p.OnResult(e, result)
		}
	}
	return stats
}
