package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		names []string
		want  []string
	}{
		{
			name:  "short flag with separate value",
			args:  []string{"-c", "conf.json", "-r", "http://node"},
			names: []string{"c", "config"},
			want:  []string{"-c", "conf.json"},
		},
		{
			name:  "long flag with equals",
			args:  []string{"--config=alt.json", "-r", "http://node"},
			names: []string{"c", "config"},
			want:  []string{"--config=alt.json"},
		},
		{
			name:  "double dash spelling of a short name",
			args:  []string{"--r", "http://node", "-k", "0x01"},
			names: []string{"r"},
			want:  []string{"--r", "http://node"},
		},
		{
			name:  "names given with dashes are normalised",
			args:  []string{"-k", "0x01"},
			names: []string{"-k"},
			want:  []string{"-k", "0x01"},
		},
		{
			name:  "unknown flags ignored",
			args:  []string{"-x", "1", "--y=2", "positional"},
			names: []string{"c", "config"},
			want:  []string{},
		},
		{
			name:  "flag without value at end is kept as-is",
			args:  []string{"-c"},
			names: []string{"c"},
			want:  []string{"-c"},
		},
		{
			name:  "flag followed by another flag (no value)",
			args:  []string{"-c", "-r"},
			names: []string{"c"},
			want:  []string{"-c"},
		},
		{
			name:  "value that looks like a flag in equals form",
			args:  []string{"--config=--weird.json"},
			names: []string{"config"},
			want:  []string{"--config=--weird.json"},
		},
		{
			name:  "lone dashes are not flags",
			args:  []string{"-", "--", "-c", "a.json"},
			names: []string{"c"},
			want:  []string{"-c", "a.json"},
		},
		{
			name:  "empty args",
			args:  []string{},
			names: []string{"c"},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.names...))
		})
	}
}

func TestConfigFile(t *testing.T) {
	assert.Equal(t, "a.json", ConfigFile([]string{"-r", "x", "-c", "a.json"}))
	assert.Equal(t, "b.json", ConfigFile([]string{"--config=b.json"}))
	assert.Equal(t, "", ConfigFile([]string{"-r", "x"}))
}

func TestJsonConfigFlags_UsesProcessArgs(t *testing.T) {
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })

	os.Args = []string{"bin", "-config", "cfg.json"}
	assert.Equal(t, "cfg.json", JsonConfigFlags())

	os.Args = []string{"bin"}
	assert.Equal(t, "", JsonConfigFlags())
}
