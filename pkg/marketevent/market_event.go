package marketevent

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultSymbol = "SPY"
	dateLayout    = "2006-01-02"
)

var ErrMalformedResponse = errors.New("malformed market events response")

type Impact string

const (
	ImpactHigh   Impact = "High"
	ImpactMedium Impact = "Medium"
	ImpactLow    Impact = "Low"
)

func (i Impact) IsSet() bool {
	return i != ""
}

// Level is the case-insensitive form of the impact, e.g. "high".
func (i Impact) Level() string {
	return strings.ToLower(string(i))
}

// DisplayValue holds an optional value the server may send as a JSON string,
// number or boolean. Numbers and booleans keep their literal text. Objects
// and arrays cannot be displayed and leave the value unset.
type DisplayValue string

func (v *DisplayValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = DisplayValue(s)
	case '{', '[':
		*v = ""
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return fmt.Errorf("display value: %w", err)
		}
		*v = DisplayValue(strconv.FormatBool(b))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("display value must be a string, number or boolean: %w", err)
		}
		*v = DisplayValue(n.String())
	}
	return nil
}

func (v DisplayValue) MarshalJSON() ([]byte, error) {
	if v == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(v))
}

func (v DisplayValue) IsSet() bool {
	return v != ""
}

// OrDash returns the value or "-" when it is not set.
func (v DisplayValue) OrDash() string {
	if v == "" {
		return "-"
	}
	return string(v)
}

type MarketEvent struct {
	EventDate   string       `json:"EventDate"`
	EventTime   string       `json:"EventTime,omitempty"`
	Title       string       `json:"Title"`
	Description string       `json:"Description,omitempty"`
	Impact      Impact       `json:"Impact,omitempty"`
	Forecast    DisplayValue `json:"Forecast"`
	Previous    DisplayValue `json:"Previous"`
	Actual      DisplayValue `json:"Actual"`
}

// Date parses EventDate as a local calendar date.
func (e MarketEvent) Date() (time.Time, error) {
	return time.ParseInLocation(dateLayout, e.EventDate, time.Local)
}

type EventsResponse struct {
	Events []MarketEvent `json:"events"`
	Count  int           `json:"count"`
	Symbol string        `json:"symbol,omitempty"`
}

// EmptyResponse is the value returned in place of any failed fetch.
func EmptyResponse() EventsResponse {
	return EventsResponse{Events: []MarketEvent{}, Count: 0}
}

type ValidationError struct {
	Index  int // -1 when the error is not about a single event
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	msg := e.Reason
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Index >= 0 {
		msg = fmt.Sprintf("events[%d].%s", e.Index, msg)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", ErrMalformedResponse.Error(), msg)
}

func (e *ValidationError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrMalformedResponse, e.Err}
	}
	return []error{ErrMalformedResponse}
}

type wireResponse struct {
	Events *[]MarketEvent `json:"events"`
	Count  int            `json:"count"`
	Symbol string         `json:"symbol"`
}

// DecodeResponse decodes and validates a market events response body.
func DecodeResponse(body []byte) (EventsResponse, error) {
	var wire wireResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return EventsResponse{}, &ValidationError{Index: -1, Reason: "invalid JSON body", Err: err}
	}
	if wire.Events == nil {
		return EventsResponse{}, &ValidationError{Index: -1, Field: "events", Reason: "missing events array"}
	}
	resp := EventsResponse{
		Events: *wire.Events,
		Count:  wire.Count,
		Symbol: wire.Symbol,
	}
	if err := Validate(resp.Events); err != nil {
		return EventsResponse{}, err
	}
	return resp, nil
}

// Validate checks the fields rendering relies on.
func Validate(events []MarketEvent) error {
	for i, e := range events {
		if e.EventDate == "" {
			return &ValidationError{Index: i, Field: "EventDate", Reason: "missing"}
		}
		if _, err := time.Parse(dateLayout, e.EventDate); err != nil {
			return &ValidationError{Index: i, Field: "EventDate", Reason: fmt.Sprintf("%q is not YYYY-MM-DD", e.EventDate)}
		}
	}
	return nil
}
