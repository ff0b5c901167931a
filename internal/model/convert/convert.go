// Package convert provides functions to convert between GORM models and dispatcher events
package convert

import (
	"encoding/json"
	"fmt"

	"github.com/OCAP2/hazardtrack/internal/dispatcher"
	"github.com/OCAP2/hazardtrack/internal/model"
	"gorm.io/datatypes"
)

// argsToJSON converts raw args to datatypes.JSON for DB storage.
func argsToJSON(args []string) (datatypes.JSON, error) {
	if len(args) == 0 {
		return datatypes.JSON("[]"), nil
	}
	data, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}

// EventToRecord converts a dispatcher event into a row of the given session.
func EventToRecord(sessionID, seq uint, e dispatcher.Event) (model.RecordedCommand, error) {
	args, err := argsToJSON(e.Args)
	if err != nil {
		return model.RecordedCommand{}, fmt.Errorf("encoding args of %s: %w", e.Command, err)
	}
	return model.RecordedCommand{
		SessionID:  sessionID,
		Seq:        seq,
		Command:    e.Command,
		Args:       args,
		ReceivedAt: e.Timestamp,
	}, nil
}

// RecordToEvent converts a stored row back into a dispatcher event.
func RecordToEvent(r model.RecordedCommand) (dispatcher.Event, error) {
	var args []string
	if len(r.Args) > 0 {
		if err := json.Unmarshal(r.Args, &args); err != nil {
			return dispatcher.Event{}, fmt.Errorf("decoding args of command %d: %w", r.Seq, err)
		}
	}
	return dispatcher.Event{
		Command:   r.Command,
		Args:      args,
		Timestamp: r.ReceivedAt,
	}, nil
}
