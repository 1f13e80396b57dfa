package prayer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	table := []struct {
		input    string
		expected string
		ok       bool
	}{
		{input: "05:03", expected: "05:03", ok: true},
		{input: "5:03", expected: "05:03", ok: true},
		{input: "00:00", expected: "00:00", ok: true},
		{input: "23:59", expected: "23:59", ok: true},
		{input: "5:3"},
		{input: "25:61"},
		{input: "24:00"},
		{input: "12:60"},
		{input: "12.30"},
		{input: "12-30"},
		{input: "123:30"},
		{input: " 12:30"},
		{input: "12:30 "},
		{input: "12:305"},
		{input: ""},
		{input: "١٢:٣٠"},
	}

	for _, row := range table {
		parsed, err := ParseTimeOfDay(row.input)
		if !row.ok {
			require.Error(t, err, row.input)
			var malformed *MalformedTimeError
			require.True(t, errors.As(err, &malformed))
			require.Equal(t, row.input, malformed.Token)
			continue
		}
		require.NoError(t, err, row.input)
		require.Equal(t, row.expected, parsed.String())
	}
}

func TestTimeOfDayText(t *testing.T) {
	var parsed TimeOfDay
	require.NoError(t, parsed.UnmarshalText([]byte("4:50")))
	require.Equal(t, 4, parsed.Hour())
	require.Equal(t, 50, parsed.Minute())

	text, err := parsed.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "04:50", string(text))

	require.Error(t, parsed.UnmarshalText([]byte("4:5")))
	require.Equal(t, "04:50", parsed.String(), "failed unmarshal must not modify the value")
}

func TestNameString(t *testing.T) {
	for _, name := range Names {
		parsed, ok := ParseName(name.String())
		require.True(t, ok)
		require.Equal(t, name, parsed)
	}
	_, ok := ParseName("fajr")
	require.False(t, ok)
	require.Equal(t, "Name(42)", Name(42).String())
	require.True(t, Sunrise.Optional())
	require.False(t, Fajr.Optional())
}
