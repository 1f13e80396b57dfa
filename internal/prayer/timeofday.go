package prayer

import (
	"fmt"
	"regexp"
	"strconv"
)

// TimeOfDay is a validated 24-hour wall clock value. The zero value is
// midnight, use ParseTimeOfDay to construct one from text.
type TimeOfDay struct {
	hour   int
	minute int
}

func (t TimeOfDay) Hour() int   { return t.hour }
func (t TimeOfDay) Minute() int { return t.minute }

// String returns the canonical zero-padded HH:MM form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.hour, t.minute)
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(text []byte) error {
	parsed, err := ParseTimeOfDay(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MalformedTimeError is returned by ParseTimeOfDay for any token that is not
// an H:MM or HH:MM value within range.
type MalformedTimeError struct {
	Token string
}

func (e *MalformedTimeError) Error() string {
	return fmt.Sprintf("malformed time token %q", e.Token)
}

var timeOfDayRegex = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// ParseTimeOfDay accepts hour (1-2 digits, 0-23) ':' minute (exactly 2
// digits, 0-59). Anything else, including surrounding whitespace, is
// rejected.
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	groups := timeOfDayRegex.FindStringSubmatch(raw)
	if len(groups) < 3 {
		return TimeOfDay{}, &MalformedTimeError{Token: raw}
	}
	hour, err := strconv.Atoi(groups[1])
	if err != nil || hour > 23 {
		return TimeOfDay{}, &MalformedTimeError{Token: raw}
	}
	minute, err := strconv.Atoi(groups[2])
	if err != nil || minute > 59 {
		return TimeOfDay{}, &MalformedTimeError{Token: raw}
	}
	return TimeOfDay{hour: hour, minute: minute}, nil
}

// MustTimeOfDay is ParseTimeOfDay for literals known to be valid.
func MustTimeOfDay(raw string) TimeOfDay {
	t, err := ParseTimeOfDay(raw)
	if err != nil {
		panic(err)
	}
	return t
}
