package prayer

import "fmt"

// Name identifies one of the six daily entries of a schedule.
type Name int

const (
	Fajr Name = iota
	Sunrise
	Dhuhr
	Asr
	Maghrib
	Isha
)

// Names is every Name in canonical order.
var Names = []Name{Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha}

// Required is every Name a schedule must carry, in canonical order.
var Required = []Name{Fajr, Dhuhr, Asr, Maghrib, Isha}

var nameStrings = [...]string{
	Fajr:    "Fajr",
	Sunrise: "Sunrise",
	Dhuhr:   "Dhuhr",
	Asr:     "Asr",
	Maghrib: "Maghrib",
	Isha:    "Isha",
}

func (n Name) String() string {
	if n < 0 || int(n) >= len(nameStrings) {
		return fmt.Sprintf("Name(%d)", int(n))
	}
	return nameStrings[n]
}

// Optional reports whether a schedule is still valid without this entry.
func (n Name) Optional() bool {
	return n == Sunrise
}

// ParseName is the inverse of Name.String, it is case-sensitive.
func ParseName(s string) (Name, bool) {
	for i, str := range nameStrings {
		if str == s {
			return Name(i), true
		}
	}
	return 0, false
}

// Vocabulary maps each Name to the label(s) a source uses for it.
type Vocabulary map[Name][]string

// ArabicVocabulary is the label set used by shobiddak.com, both in the raw
// markup and in the rendered page.
var ArabicVocabulary = Vocabulary{
	Fajr:    {"الفجر"},
	Sunrise: {"الشروق"},
	Dhuhr:   {"الظهر"},
	Asr:     {"العصر"},
	Maghrib: {"المغرب"},
	Isha:    {"العشاء"},
}
