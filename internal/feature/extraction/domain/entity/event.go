package entity

import "fmt"

// EventType is the closed set of outcomes a fallible extraction operation can report.
type EventType int

const (
	Unknown EventType = iota
	NoError
	FileNotFetched
	FiletypeUnknown
	FileMissing
	FileEmpty
	DateConversion
	ResponseFormat
)

// Description returns the generic human-readable text for the event type.
func (t EventType) Description() string {
	switch t {
	case NoError:
		return "Finished successfully."
	case FileNotFetched:
		return "A file could not be fetched."
	case FiletypeUnknown:
		return "Filetype is unknown."
	case FileMissing:
		return "A file is missing."
	case FileEmpty:
		return "A file is empty."
	case DateConversion:
		return "Date conversion failed."
	case ResponseFormat:
		return "Response not in the expected format."
	default:
		return "An unknown event happened."
	}
}

func (t EventType) String() string {
	switch t {
	case NoError:
		return "NoError"
	case FileNotFetched:
		return "FileNotFetched"
	case FiletypeUnknown:
		return "FiletypeUnknown"
	case FileMissing:
		return "FileMissing"
	case FileEmpty:
		return "FileEmpty"
	case DateConversion:
		return "DateConversion"
	case ResponseFormat:
		return "ResponseFormat"
	default:
		return "Unknown"
	}
}

// ParseEventType is the inverse of String. Unrecognised text maps to Unknown.
func ParseEventType(s string) EventType {
	for t := NoError; t <= ResponseFormat; t++ {
		if t.String() == s {
			return t
		}
	}
	return Unknown
}

// Event is the uniform result signal of the extraction pipeline.
// A non-NoError Event is used as an error value; Err keeps the underlying cause.
type Event struct {
	Type        EventType
	Description string
	Err         error
}

// NewEvent creates an Event. An empty description falls back to the type's generic text.
func NewEvent(t EventType, description string) Event {
	if description == "" {
		description = t.Description()
	}
	return Event{Type: t, Description: description}
}

// Eventf creates an Event with a formatted description.
func Eventf(t EventType, format string, args ...any) Event {
	return NewEvent(t, fmt.Sprintf(format, args...))
}

// Wrap attaches the underlying cause to the event.
func (e Event) Wrap(err error) Event {
	e.Err = err
	return e
}

func (e Event) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Description, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Description)
}

func (e Event) Unwrap() error {
	return e.Err
}

// OK reports whether the event signals success.
func (e Event) OK() bool {
	return e.Type == NoError
}

// AsError returns nil for a NoError event and the event itself otherwise.
func (e Event) AsError() error {
	if e.OK() {
		return nil
	}
	return e
}
