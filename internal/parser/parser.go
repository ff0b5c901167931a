package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/OCAP2/hazardtrack/internal/util"
	"github.com/rs/zerolog"
)

// parseUintFromFloat parses a string that may be an integer ("32") or float ("32.00") into uint64.
// Script-side event sources often have no integer type, so ids may arrive as floats.
func parseUintFromFloat(s string) (uint64, error) {
	if v, err := strconv.ParseUint(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f < 0 || f != float64(uint64(f)) {
		return 0, fmt.Errorf("parseUintFromFloat: %q is not a valid uint64", s)
	}
	return uint64(f), nil
}

// parseIntFromFloat parses a string that may be an integer or float into int64.
func parseIntFromFloat(s string) (int64, error) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int64(f)) {
		return 0, fmt.Errorf("parseIntFromFloat: %q is not a valid int64", s)
	}
	return int64(f), nil
}

// parseActionID accepts decimal, float-encoded or 0x-prefixed hex ids.
func parseActionID(s string) (uint32, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseUint(s[2:], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("parseActionID: %q: %w", s, err)
		}
		return uint32(v), nil
	}
	v, err := parseUintFromFloat(s)
	if err != nil {
		return 0, err
	}
	if v > math.MaxUint32 {
		return 0, fmt.Errorf("parseActionID: %q out of range", s)
	}
	return uint32(v), nil
}

// parseBool accepts 0/1 and true/false.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "true":
		return true, nil
	case "0", "false", "":
		return false, nil
	}
	return false, fmt.Errorf("parseBool: %q is not a boolean", s)
}

// maxSeconds is the largest offset a time.Duration can hold.
const maxSeconds = float64(math.MaxInt64) / float64(time.Second)

// parseSeconds parses a non-negative seconds value.
func parseSeconds(s string) (time.Duration, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("parseSeconds: %q is not a valid offset", s)
	}
	if f > maxSeconds {
		return 0, fmt.Errorf("parseSeconds: %q is out of range", s)
	}
	return time.Duration(f * float64(time.Second)), nil
}

// fixArgs strips script quoting from every arg in place.
func fixArgs(data []string) {
	for i, v := range data {
		data[i] = util.CleanArg(v)
	}
}

// Parser provides pure []string -> core struct conversion.
// It has zero external dependencies beyond a logger.
type Parser struct {
	logger zerolog.Logger
	epoch  atomic.Pointer[time.Time]
}

// NewParser creates a new parser. Event times are offsets from epoch.
func NewParser(logger zerolog.Logger, epoch time.Time) *Parser {
	p := &Parser{logger: logger}
	p.SetEpoch(epoch)
	return p
}

// SetEpoch sets the time event offsets are measured from
func (p *Parser) SetEpoch(epoch time.Time) {
	p.epoch.Store(&epoch)
}

func (p *Parser) getEpoch() time.Time {
	e := p.epoch.Load()
	if e == nil {
		return time.Time{}
	}
	return *e
}

// parseTime converts a seconds-since-epoch arg to a timestamp.
func (p *Parser) parseTime(s string) (time.Time, error) {
	d, err := parseSeconds(s)
	if err != nil {
		return time.Time{}, err
	}
	return p.getEpoch().Add(d), nil
}

// ParseTick parses a tick: [time]
func (p *Parser) ParseTick(data []string) (time.Time, error) {
	fixArgs(data)
	if len(data) < 1 {
		return time.Time{}, fmt.Errorf("insufficient data fields: got %d, need 1", len(data))
	}
	t, err := p.parseTime(data[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("error parsing time: %w", err)
	}
	return t, nil
}
