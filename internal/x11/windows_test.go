package x11

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWithFullscreen(t *testing.T) {
	const above = "_NET_WM_STATE_ABOVE"
	const sticky = "_NET_WM_STATE_STICKY"

	tests := []struct {
		name   string
		states []string
		on     bool
		want   []string
	}{
		{"add keeps others", []string{above, sticky}, true, []string{above, sticky, fullscreenState}},
		{"remove keeps others", []string{above, fullscreenState, sticky}, false, []string{above, sticky}},
		{"add is idempotent", []string{fullscreenState, above}, true, []string{above, fullscreenState}},
		{"remove from empty", nil, false, []string{}},
		{"add to empty", nil, true, []string{fullscreenState}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, withFullscreen(tt.states, tt.on)); diff != "" {
				t.Fatalf("states mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
