package capture

import (
	"testing"

	"github.com/stretchr/testify/require"

	"invisibility-cloak/internal/domain/entity"
)

func TestKeySignal(t *testing.T) {
	cases := map[int]entity.Signal{
		-1:         entity.SignalContinue,
		'b':        entity.SignalCaptureBackground,
		'B':        entity.SignalCaptureBackground,
		'c':        entity.SignalCaptureColor,
		'q':        entity.SignalExit,
		27:         entity.SignalExit,
		0x100 | 'q': entity.SignalExit,
		'x':        entity.SignalContinue,
	}
	for key, want := range cases {
		require.Equal(t, want, KeySignal(key), "key %d", key)
	}
}
