package cmd_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/forestrie/go-brangetree/cmd/brt/cmd"
	"github.com/forestrie/go-brangetree/regdata"
	"github.com/forestrie/go-brangetree/report"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rootFE = "4d479657bf6818d78a24f28340ac946dec854fa57afc8b1cf7d628737363842d"

func newCommand(t *testing.T, opts ...cmd.Option) *cmd.Command {
	t.Helper()

	c, err := cmd.NewCommand(append([]cmd.Option{cmd.WithHomeDir(t.TempDir())}, opts...)...)
	require.NoError(t, err)
	return c
}

func writeRegistry(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "registry.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, newCommand(t,
		cmd.WithArgs("version"),
		cmd.WithOutput(&out),
	).Execute())

	assert.Equal(t, cmd.Version+"\n", out.String())
}

func TestHashCmd(t *testing.T) {
	path := writeRegistry(t, []byte{0xFE})

	var out bytes.Buffer
	require.NoError(t, newCommand(t,
		cmd.WithArgs("hash", "--verbosity", "silent", path),
		cmd.WithOutput(&out),
	).Execute())

	lines := strings.Split(out.String(), "\n")
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], "zipped: "))
	assert.Equal(t, "filled: 2", lines[1])
	assert.Equal(t, "leaves: 2", lines[2])
	assert.Equal(t, "root:   "+rootFE, lines[3])
	assert.True(t, strings.HasPrefix(lines[4], "time:   "))
}

func TestHashCmdNoFill(t *testing.T) {
	// 1001 0110 1000 0000 has five leaves
	path := writeRegistry(t, []byte{0x96, 0x80})

	var out bytes.Buffer
	require.NoError(t, newCommand(t,
		cmd.WithArgs("hash", "--verbosity", "silent", "--fill=false", "--format", "json", path),
		cmd.WithOutput(&out),
	).Execute())

	var res report.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, uint64(5), res.LeafCount)
	assert.Equal(t, uint64(5), res.LeafCountFilled)
}

func TestHashCmdConfigFile(t *testing.T) {
	path := writeRegistry(t, []byte{0xFE})
	cfg := filepath.Join(t.TempDir(), "brt.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("format: json\nverbosity: silent\n"), 0o644))

	var out bytes.Buffer
	require.NoError(t, newCommand(t,
		cmd.WithCfgFile(cfg),
		cmd.WithArgs("hash", path),
		cmd.WithOutput(&out),
	).Execute())

	var res report.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, rootFE, res.Root)
}

func TestHashCmdEnvironment(t *testing.T) {
	path := writeRegistry(t, []byte{0xFE})
	t.Setenv("BRT_FORMAT", "json")
	t.Setenv("BRT_VERBOSITY", "silent")
	t.Setenv("BRT_HASH", "sha3-256")

	var out bytes.Buffer
	require.NoError(t, newCommand(t,
		cmd.WithArgs("hash", path),
		cmd.WithOutput(&out),
	).Execute())

	var res report.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, uint64(2), res.LeafCount)
	assert.NotEqual(t, rootFE, res.Root)
}

func TestHashCmdErrors(t *testing.T) {
	path := writeRegistry(t, []byte{0xFE})

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"unknown format", []string{"hash", "--format", "yaml", path}, report.ErrUnknownFormat},
		{"missing single file", []string{"hash", filepath.Join(t.TempDir(), "nope.gz")}, report.ErrInputNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(tt.args, "--verbosity", "silent")
			err := newCommand(t, cmd.WithArgs(args...), cmd.WithOutput(&bytes.Buffer{})).Execute()
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	err := newCommand(t, cmd.WithArgs("hash", "--verbosity", "loud", path), cmd.WithOutput(&bytes.Buffer{})).Execute()
	require.Error(t, err)
}

func TestGenAndInspectCmd(t *testing.T) {
	dir := t.TempDir()

	var out bytes.Buffer
	require.NoError(t, newCommand(t,
		cmd.WithArgs("gen", "--verbosity", "silent", "--bits", "8,10", "--percent", "25", "--seed", "5", "--out-dir", dir),
		cmd.WithOutput(&out),
	).Execute())

	p8 := filepath.Join(dir, "8bits_25pc_random.gz")
	p10 := filepath.Join(dir, "10bits_25pc_random.gz")
	assert.Equal(t, p8+"\n"+p10+"\n", out.String())

	fi8, err := os.Stat(p8)
	require.NoError(t, err)
	fi10, err := os.Stat(p10)
	require.NoError(t, err)

	out.Reset()
	require.NoError(t, newCommand(t,
		cmd.WithArgs("inspect", "--verbosity", "silent", p10, p8),
		cmd.WithOutput(&out),
	).Execute())

	want := fmt.Sprintf("%s %d 256 64 25\n%s %d 1024 256 25\n", p8, fi8.Size(), p10, fi10.Size())
	assert.Equal(t, want, out.String())
}

func TestGenCmdIsReproducible(t *testing.T) {
	read := func(seed string) []byte {
		dir := t.TempDir()
		require.NoError(t, newCommand(t,
			cmd.WithArgs("gen", "--verbosity", "silent", "--bits", "12", "--percent", "10", "--seed", seed, "--out-dir", dir),
			cmd.WithOutput(&bytes.Buffer{}),
		).Execute())
		b, err := os.ReadFile(filepath.Join(dir, "12bits_10pc_random.gz"))
		require.NoError(t, err)
		return b
	}
	assert.Equal(t, read("9"), read("9"))
	assert.NotEqual(t, read("9"), read("10"))
}

func TestGenCmdRejectsBadBits(t *testing.T) {
	err := newCommand(t,
		cmd.WithArgs("gen", "--verbosity", "silent", "--bits", "40", "--out-dir", t.TempDir()),
		cmd.WithOutput(&bytes.Buffer{}),
	).Execute()
	require.ErrorIs(t, err, regdata.ErrBadParams)
}
