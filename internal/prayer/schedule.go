package prayer

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// PartialSchedule is what a single source strategy managed to extract. It
// may be incomplete, Validate decides whether it is usable.
type PartialSchedule struct {
	Times map[Name]TimeOfDay
	// Malformed holds tokens that were found next to a label but were
	// rejected by ParseTimeOfDay.
	Malformed map[Name]string

	// Locality is the display name found in the source, empty if absent.
	Locality string
	// DateLabel is the free-form date found in the source, empty if absent.
	DateLabel string
}

func NewPartialSchedule() PartialSchedule {
	return PartialSchedule{
		Times:     map[Name]TimeOfDay{},
		Malformed: map[Name]string{},
	}
}

// Record normalizes a raw token and stores it as either a time or a
// malformed token.
func (p PartialSchedule) Record(name Name, token string) {
	t, err := ParseTimeOfDay(token)
	if err != nil {
		delete(p.Times, name)
		p.Malformed[name] = token
		return
	}
	delete(p.Malformed, name)
	p.Times[name] = t
}

func (p PartialSchedule) Get(name Name) (TimeOfDay, bool) {
	t, ok := p.Times[name]
	return t, ok
}

// ValidationError lists, in canonical order, every required entry that is
// missing or malformed.
type ValidationError struct {
	Fields []Name
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.String()
	}
	return fmt.Sprintf("missing or malformed times: %s", strings.Join(names, ", "))
}

// Validate checks the required-field contract. Sunrise is never required.
func Validate(p PartialSchedule) error {
	var fields []Name
	for _, name := range Required {
		if _, ok := p.Times[name]; !ok {
			fields = append(fields, name)
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Locality is the fixed town whose schedule is being produced.
type Locality struct {
	Key  int    `json:"key"`
	Name string `json:"name"`
}

// Origin describes which strategy produced a schedule.
type Origin struct {
	Source string
	URL    string
}

// Schedule is the final, validated record. It has no exported fields and
// no mutating methods, the only way to get one is Assemble.
type Schedule struct {
	generatedAt time.Time
	origin      Origin
	locality    Locality
	dateLabel   string
	times       map[Name]TimeOfDay
}

// Assemble merges a validated partial schedule with generation metadata.
// The partial must have passed Validate.
func Assemble(p PartialSchedule, origin Origin, locality Locality, now time.Time) Schedule {
	for _, name := range Required {
		if _, ok := p.Times[name]; !ok {
			panic(fmt.Sprintf("assemble: partial schedule is missing %s", name))
		}
	}

	if p.Locality != "" {
		locality.Name = p.Locality
	}

	times := make(map[Name]TimeOfDay, len(Names))
	for _, name := range Names {
		if t, ok := p.Times[name]; ok {
			times[name] = t
		}
	}

	return Schedule{
		generatedAt: now,
		origin:      origin,
		locality:    locality,
		dateLabel:   p.DateLabel,
		times:       times,
	}
}

func (s Schedule) GeneratedAt() time.Time { return s.generatedAt }
func (s Schedule) Source() string         { return s.origin.Source }
func (s Schedule) SourceURL() string      { return s.origin.URL }
func (s Schedule) Locality() Locality     { return s.locality }

// DateLabel returns the date label and whether the source provided one.
func (s Schedule) DateLabel() (string, bool) {
	return s.dateLabel, s.dateLabel != ""
}

// Time returns the time for a prayer, only Sunrise can be absent.
func (s Schedule) Time(name Name) (TimeOfDay, bool) {
	t, ok := s.times[name]
	return t, ok
}

type scheduleJSON struct {
	GeneratedAt string    `json:"generated_at"`
	Source      string    `json:"source"`
	SourceURL   string    `json:"source_url,omitempty"`
	Locality    Locality  `json:"locality"`
	Date        *string   `json:"date"`
	Times       timesJSON `json:"times"`
}

type timesJSON struct {
	Fajr    *TimeOfDay `json:"fajr"`
	Sunrise *TimeOfDay `json:"sunrise"`
	Dhuhr   *TimeOfDay `json:"dhuhr"`
	Asr     *TimeOfDay `json:"asr"`
	Maghrib *TimeOfDay `json:"maghrib"`
	Isha    *TimeOfDay `json:"isha"`
}

func (s Schedule) timePtr(name Name) *TimeOfDay {
	t, ok := s.times[name]
	if !ok {
		return nil
	}
	return &t
}

func (s Schedule) MarshalJSON() ([]byte, error) {
	out := scheduleJSON{
		GeneratedAt: s.generatedAt.Format(time.RFC3339),
		Source:      s.origin.Source,
		SourceURL:   s.origin.URL,
		Locality:    s.locality,
		Times: timesJSON{
			Fajr:    s.timePtr(Fajr),
			Sunrise: s.timePtr(Sunrise),
			Dhuhr:   s.timePtr(Dhuhr),
			Asr:     s.timePtr(Asr),
			Maghrib: s.timePtr(Maghrib),
			Isha:    s.timePtr(Isha),
		},
	}
	if s.dateLabel != "" {
		date := s.dateLabel
		out.Date = &date
	}
	return json.Marshal(out)
}

// DecodeSchedule reads a record previously produced by MarshalJSON, it
// re-applies validation so a hand-edited file cannot produce an invalid
// Schedule.
func DecodeSchedule(data []byte) (Schedule, error) {
	var in scheduleJSON
	err := json.Unmarshal(data, &in)
	if err != nil {
		return Schedule{}, err
	}
	generatedAt, err := time.Parse(time.RFC3339, in.GeneratedAt)
	if err != nil {
		return Schedule{}, fmt.Errorf("generated_at: %w", err)
	}

	partial := NewPartialSchedule()
	set := func(name Name, t *TimeOfDay) {
		if t != nil {
			partial.Times[name] = *t
		}
	}
	set(Fajr, in.Times.Fajr)
	set(Sunrise, in.Times.Sunrise)
	set(Dhuhr, in.Times.Dhuhr)
	set(Asr, in.Times.Asr)
	set(Maghrib, in.Times.Maghrib)
	set(Isha, in.Times.Isha)
	if in.Date != nil {
		partial.DateLabel = *in.Date
	}

	err = Validate(partial)
	if err != nil {
		return Schedule{}, err
	}
	return Assemble(
		partial,
		Origin{Source: in.Source, URL: in.SourceURL},
		in.Locality,
		generatedAt,
	), nil
}
