package chrono

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStandardImpl(t *testing.T) {
	impl, err := NewStandardImpl("")
	require.NoError(t, err)
	require.Equal(t, DefaultLocation, impl.Location().String())
	require.Equal(t, impl.Location(), impl.Now().Location())

	_, err = NewStandardImpl("Not/AZone")
	require.Error(t, err)
}

func TestFixedImpl(t *testing.T) {
	at := time.Date(2026, 2, 26, 3, 0, 0, 0, time.UTC)
	require.Equal(t, at, FixedImpl{At: at}.Now())
}
