package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromBuildInfo(t *testing.T) {
	tests := []struct {
		name string
		in   Info
		bi   debug.BuildInfo
		want Info
	}{
		{
			name: "vcs stamp fills blanks",
			in:   Info{Version: "dev"},
			bi: debug.BuildInfo{
				Main: debug.Module{Version: "v1.2.0"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "0123456789abcdef"},
					{Key: "vcs.time", Value: "2024-03-01T12:00:00Z"},
					{Key: "vcs.modified", Value: "true"},
				},
			},
			want: Info{Version: "v1.2.0", CommitHash: "0123456789abcdef", BuildTime: "2024-03-01T12:00:00Z", Modified: true},
		},
		{
			name: "ldflags win",
			in:   Info{Version: "v2.0.0", CommitHash: "feedface", BuildTime: "yesterday"},
			bi: debug.BuildInfo{
				Main:     debug.Module{Version: "v1.0.0"},
				Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "0123456"}},
			},
			want: Info{Version: "v2.0.0", CommitHash: "feedface", BuildTime: "yesterday"},
		},
		{
			name: "devel module version ignored",
			in:   Info{Version: "dev"},
			bi:   debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			want: Info{Version: "dev"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in
			fromBuildInfo(&got, &tt.bi)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInfo_String(t *testing.T) {
	i := Info{Version: "v1.0.0", CommitHash: "0123456789", BuildTime: "2024-03-01"}
	assert.Equal(t, "authorship v1.0.0 (commit 0123456, built 2024-03-01)", i.String())

	i.Modified = true
	assert.Contains(t, i.String(), "with local modifications")

	assert.Equal(t, "unknown", Info{CommitHash: unknown}.Short())
}

func TestGet(t *testing.T) {
	info := Get()
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.CommitHash)
	assert.NotEmpty(t, info.BuildTime)
	assert.Contains(t, info.GoVersion, "go")
}
