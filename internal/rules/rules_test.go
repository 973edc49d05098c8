package rules

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/lapin/internal/config"
)

func TestApply(t *testing.T) {
	rules := []Rule{
		{Class: "Gimp", Effect: Float},
		{Class: "firefox", Effect: SendToWorkspace, Workspace: 1},
		{Class: "mpv", Effect: Fullscreen},
		{Class: "firefox", Effect: SendToWorkspace, Workspace: 4},
	}

	tests := []struct {
		name     string
		instance string
		class    string
		want     Placement
	}{
		{
			name:     "no match keeps defaults",
			instance: "xterm",
			class:    "XTerm",
			want:     Placement{Border: true, Workspace: 2},
		},
		{
			name:     "class part matches",
			instance: "gimp-2.10",
			class:    "Gimp",
			want:     Placement{Border: true, Floating: true, Workspace: 2},
		},
		{
			name:     "instance part matches and last rule wins",
			instance: "firefox",
			class:    "Firefox",
			want:     Placement{Border: true, Workspace: 4},
		},
		{
			name:     "fullscreen floats without border",
			instance: "gl",
			class:    "mpv",
			want:     Placement{Floating: true, Fullscreen: true, Workspace: 2},
		},
		{
			name:     "match is exact",
			instance: "gimp",
			class:    "gimp",
			want:     Placement{Border: true, Workspace: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(rules, tt.instance, tt.class, 2)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("placement mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFromConfig(t *testing.T) {
	got, err := FromConfig([]config.Rule{
		{Class: "firefox", Apply: config.ApplyWorkspace, Workspace: 2},
		{Class: "Gimp", Apply: config.ApplyFloat},
		{Class: "mpv", Apply: config.ApplyFullscreen},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Rule{
		{Class: "firefox", Effect: SendToWorkspace, Workspace: 1},
		{Class: "Gimp", Effect: Float},
		{Class: "mpv", Effect: Fullscreen},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}

	if _, err := FromConfig([]config.Rule{{Class: "x", Apply: "minimize"}}); err == nil {
		t.Fatalf("expected error for unknown apply")
	}
	if _, err := FromConfig([]config.Rule{{Class: "x", Apply: config.ApplyWorkspace}}); err == nil {
		t.Fatalf("expected error for missing workspace")
	}
}
