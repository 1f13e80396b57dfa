package textscan

import (
	"regexp"
	"testing"

	"prayertimes/internal/prayer"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestFind(t *testing.T) {
	comma := New(prayer.ArabicVocabulary, Options{Separators: CommaSeparators})
	colon := New(prayer.ArabicVocabulary, Options{Separators: CommaSeparators + ColonSeparators})

	table := []struct {
		name     string
		scanner  *Scanner
		text     string
		expected string
		ok       bool
	}{
		{name: "space", scanner: comma, text: "الفجر 04:50", expected: "04:50", ok: true},
		{name: "arabic comma", scanner: comma, text: "الفجر، 04:50", expected: "04:50", ok: true},
		{name: "latin comma", scanner: comma, text: "الفجر,04:50", expected: "04:50", ok: true},
		{name: "newline", scanner: comma, text: "الفجر\n\t04:50", expected: "04:50", ok: true},
		{name: "nbsp", scanner: comma, text: "الفجر\u00a004:50", expected: "04:50", ok: true},
		{name: "adjacent", scanner: comma, text: "الفجر04:50", expected: "04:50", ok: true},
		{name: "colon rejected without colon family", scanner: comma, text: "الفجر: 04:50"},
		{name: "colon", scanner: colon, text: "الفجر: 04:50", expected: "04:50", ok: true},
		{name: "fullwidth colon", scanner: colon, text: "الفجر：04:50", expected: "04:50", ok: true},
		{name: "unpadded token kept raw", scanner: comma, text: "الفجر 4:5 ", expected: "4:5", ok: true},
		{name: "gap too wide", scanner: comma, text: "الفجر          04:50"},
		{name: "markup in gap", scanner: comma, text: "<td>الفجر</td><td>04:50</td>"},
		{name: "next label in gap", scanner: comma, text: "الفجر الشروق 06:10"},
		{name: "trailing digit", scanner: comma, text: "الفجر 04:505"},
		{name: "first occurrence wins", scanner: comma, text: "الفجر 04:50 الفجر 05:10", expected: "04:50", ok: true},
		{name: "missing", scanner: comma, text: "الظهر 11:43"},
	}

	for _, row := range table {
		token, ok := row.scanner.Find(row.text, prayer.Fajr)
		require.Equal(t, row.ok, ok, row.name)
		require.Equal(t, row.expected, token, row.name)
	}
}

func TestScanAll(t *testing.T) {
	scanner := New(prayer.ArabicVocabulary, Options{Separators: CommaSeparators})
	text := "الفجر 04:50 الشروق 06:12 الظهر 11:43 العصر 14:51 المغرب 17:14 العشاء 18:32"

	expected := map[prayer.Name]string{
		prayer.Fajr:    "04:50",
		prayer.Sunrise: "06:12",
		prayer.Dhuhr:   "11:43",
		prayer.Asr:     "14:51",
		prayer.Maghrib: "17:14",
		prayer.Isha:    "18:32",
	}
	if diff := cmp.Diff(expected, scanner.ScanAll(text)); diff != "" {
		t.Fatalf("unexpected tokens (-want +got):\n%s", diff)
	}
}

func TestMultipleLabels(t *testing.T) {
	scanner := New(prayer.Vocabulary{
		prayer.Fajr: {"", "Fajr", "الفجر"},
	}, Options{})
	token, ok := scanner.Find("Fajr 05:01", prayer.Fajr)
	require.True(t, ok)
	require.Equal(t, "05:01", token)

	_, ok = scanner.Find("العشاء 18:32", prayer.Isha)
	require.False(t, ok)
}

func TestInto(t *testing.T) {
	scanner := New(prayer.ArabicVocabulary, Options{Separators: CommaSeparators})
	p := prayer.NewPartialSchedule()
	p.Record(prayer.Fajr, "04:50")

	scanner.Into(p, "الفجر 05:55 الظهر 25:61 العصر 14:51")

	fajr, _ := p.Get(prayer.Fajr)
	require.Equal(t, "04:50", fajr.String())
	asr, _ := p.Get(prayer.Asr)
	require.Equal(t, "14:51", asr.String())
	require.Equal(t, "25:61", p.Malformed[prayer.Dhuhr])
}

func TestFindDateLabel(t *testing.T) {
	label, ok := FindDateLabel("مواقيت الصلاة اليوم الخميس  26-2 الفجر")
	require.True(t, ok)
	require.Equal(t, "الخميس 26-2", label)

	_, ok = FindDateLabel("الخميس")
	require.False(t, ok)
}

func TestPhrase(t *testing.T) {
	phrase := Phrase{
		regexp.MustCompile(`A\s*([^\n]+?)\s*(?:B|$)`),
		regexp.MustCompile(`C\s*([^\n]+?)\s*(?:B|$)`),
	}
	value, ok := phrase.Find("C  x   y  B")
	require.True(t, ok)
	require.Equal(t, "x y", value)

	_, ok = phrase.Find("nothing here")
	require.False(t, ok)
}
