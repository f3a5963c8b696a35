package main

import (
	"runtime/debug"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResolveBuild(t *testing.T) {
	t.Parallel()

	vcs := &debug.BuildInfo{
		Main: debug.Module{Version: "v1.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-03-01T12:00:00Z"},
		},
	}
	dirty := &debug.BuildInfo{
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	tests := []struct {
		name    string
		stamped buildStamp
		info    *debug.BuildInfo
		want    buildStamp
	}{
		{
			name: "nothing recorded",
			want: buildStamp{Version: "(devel)", Commit: "unknown", Date: "unknown"},
		},
		{
			name: "module and vcs data",
			info: vcs,
			want: buildStamp{Version: "v1.4.0", Commit: "0123456", Date: "2026-03-01T12:00:00Z"},
		},
		{
			name:    "ldflags win",
			stamped: buildStamp{Version: "v2.0.0", Commit: "feedbee", Date: "2026-04-01"},
			info:    vcs,
			want:    buildStamp{Version: "v2.0.0", Commit: "feedbee", Date: "2026-04-01"},
		},
		{
			name: "uncommitted changes",
			info: dirty,
			want: buildStamp{Version: "(devel)", Commit: "abc-dirty", Date: "unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tt.want, resolveBuild(tt.stamped, tt.info)); diff != "" {
				t.Errorf("resolveBuild() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCurrentBuild_NoEmptyFields(t *testing.T) {
	t.Parallel()

	b := currentBuild()
	if b.Version == "" || b.Commit == "" || b.Date == "" {
		t.Errorf("currentBuild() = %+v, want every field set", b)
	}
	if getVersion() != b.Version {
		t.Errorf("getVersion() = %q, want %q", getVersion(), b.Version)
	}
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	out, _, err := executeCommand(t, "", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	b := currentBuild()
	want := "sitekit " + b.Version + " (commit " + b.Commit + ", built " + b.Date + ")\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}

	if _, _, err := executeCommand(t, "", "version", "extra"); err == nil {
		t.Error("expected an error for an unexpected argument")
	} else if !strings.Contains(err.Error(), "unknown command") && !strings.Contains(err.Error(), "accepts 0 arg") {
		t.Errorf("unexpected error: %v", err)
	}
}
