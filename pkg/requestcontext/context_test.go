package requestcontext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceLabel(t *testing.T) {
	cases := []struct {
		name   string
		device Device
		want   string
	}{
		{"browser and os", Device{Browser: "Chrome", OS: "Ubuntu"}, "Chrome on Ubuntu"},
		{"browser only", Device{Browser: "Firefox"}, "Firefox"},
		{"bot", Device{Browser: "Googlebot", OS: "Linux", Bot: true}, "Googlebot on Linux (bot)"},
		{"empty", Device{}, "unknown browser"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.device.Label())
		})
	}
}

func TestClientDeviceRoundTrip(t *testing.T) {
	ctx := context.Background()

	_, ok := ClientDevice(ctx)
	assert.False(t, ok)

	ctx = WithClientDevice(ctx, Device{Browser: "Safari", OS: "Mac OS X", Mobile: false})
	device, ok := ClientDevice(ctx)
	require.True(t, ok)
	assert.Equal(t, "Safari on Mac OS X", device.Label())
}
