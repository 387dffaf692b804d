package parser

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ftageo/basesim/internal/savegame"
)

// Event argument layout shared by EncodeEvent and ParseEvent.
const (
	argTime = iota
	argBaseID
	argSubjectID
	argSubject
	argDetail
	argValue
	argCount
)

// EncodeEvent flattens an event into dispatcher arguments.
func EncodeEvent(ev savegame.Event) []string {
	args := make([]string, argCount)
	args[argTime] = ev.Time.UTC().Format(time.RFC3339Nano)
	args[argBaseID] = strconv.Itoa(ev.BaseID)
	args[argSubjectID] = strconv.Itoa(ev.SubjectID)
	args[argSubject] = ev.Subject
	args[argDetail] = ev.Detail
	args[argValue] = strconv.FormatInt(ev.Value, 10)
	return args
}

// ParseEvent parses dispatcher arguments for an event command.
func (p *Parser) ParseEvent(command string, data []string) (savegame.Event, error) {
	var result savegame.Event

	kind, ok := savegame.KindFromCommand(command)
	if !ok {
		return result, fmt.Errorf("unknown event command: %s", command)
	}
	result.Kind = kind

	if len(data) != argCount {
		p.logger.Debug("Rejecting event with wrong field count", "command", command, "fields", len(data))
		return result, fmt.Errorf("wrong number of data fields: got %d, need %d", len(data), argCount)
	}

	// [0] game time
	t, err := time.Parse(time.RFC3339Nano, data[argTime])
	if err != nil {
		return result, fmt.Errorf("error parsing time: %v", err)
	}
	result.Time = t.UTC()

	// [1] base, [2] subject - IDs may arrive as floats
	baseID, err := parseIntFromFloat(data[argBaseID])
	if err != nil {
		return result, fmt.Errorf("error parsing baseID: %v", err)
	}
	result.BaseID = int(baseID)

	subjectID, err := parseIntFromFloat(data[argSubjectID])
	if err != nil {
		return result, fmt.Errorf("error parsing subjectID: %v", err)
	}
	result.SubjectID = int(subjectID)

	result.Subject = data[argSubject]
	result.Detail = data[argDetail]

	// [5] value
	value, err := parseIntFromFloat(data[argValue])
	if err != nil {
		return result, fmt.Errorf("error parsing value: %v", err)
	}
	result.Value = value
	return result, nil
}
