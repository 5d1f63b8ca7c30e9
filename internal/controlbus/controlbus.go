// Package controlbus implements the command channel between the
// management side and the render loop: start/stop/restart/color messages
// over a durable broker queue, plus the shared color-channel map those
// "color" messages update. Grounded on the original pilight driver's
// PikaConnection (_examples/original_source/pilight/pilight/classes.py,
// driver.py): lazy connect, 30s reconnect backoff, blocking single-message
// consume while idle, non-destructive polling while running, purge on
// start.
package controlbus

import (
	"encoding/json"
	"fmt"
)

// CommandKind discriminates the four control messages spec.md §6 defines.
type CommandKind string

const (
	CommandStart   CommandKind = "start"
	CommandStop    CommandKind = "stop"
	CommandRestart CommandKind = "restart"
	CommandColor   CommandKind = "color"
)

// Command is one decoded control message.
type Command struct {
	Kind       CommandKind `json:"command"`
	PlaylistID *int64      `json:"playlistId,omitempty"`
	Channel    string      `json:"channel,omitempty"`
	Color      string      `json:"color,omitempty"`
}

// maxChannelNameLen truncates channel names to match the web side
// (spec.md §4.5).
const maxChannelNameLen = 30

// DecodeCommand parses a JSON control message. Malformed input is a "bad
// external input" per spec.md §7: the caller must treat a decode error as
// "ignore this message", never propagate it out of the render loop.
func DecodeCommand(body []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(body, &cmd); err != nil {
		return Command{}, fmt.Errorf("controlbus: malformed command: %w", err)
	}
	if cmd.Kind == CommandColor {
		if len(cmd.Channel) > maxChannelNameLen {
			cmd.Channel = cmd.Channel[:maxChannelNameLen]
		}
	}
	return cmd, nil
}

// Source is what the render loop depends on: a blocking wait for the next
// command (used while idle) and a non-destructive poll (used while
// running, throttled to message_check_interval). Poll returns
// (Command{}, false, nil) when nothing is currently available. AMQPBus is
// the production implementation; tests can supply a fake.
type Source interface {
	// WaitForCommand blocks until a command is available.
	WaitForCommand() (Command, error)
	// Poll returns the next available command without blocking; ok is
	// false when the queue is currently empty.
	Poll() (cmd Command, ok bool, err error)
	// Purge drops any commands queued before this run started.
	Purge() error
	// Close releases the underlying connection.
	Close() error
}
