package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/embview/pkg/di"
)

type cli struct {
	t   *testing.T
	dir string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	SetContainer(di.NewContainer())
	t.Cleanup(func() { SetContainer(nil) })
	return &cli{t: t, dir: t.TempDir()}
}

// run executes args against a config file and data directory private to
// the test and returns stdout.
func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	args = append(args,
		"--config", filepath.Join(c.dir, "config.yaml"),
		"--data-dir", filepath.Join(c.dir, "data"),
	)
	var out, errOut bytes.Buffer
	err := run(args, &out, &errOut)
	return out.String(), err
}

func (c *cli) file(name string, data []byte) string {
	c.t.Helper()
	path := filepath.Join(c.dir, name)
	require.NoError(c.t, os.WriteFile(path, data, 0600))
	return path
}

func TestCrc(t *testing.T) {
	c := newCLI(t)
	check := c.file("check.bin", []byte("123456789"))
	empty := c.file("empty.bin", nil)

	out, err := c.run("crc", check, empty)
	require.NoError(t, err)
	assert.Equal(t, "0xcbf43926  "+check+"\n0x00000000  "+empty+"\n", out)
}

func TestCrc_MissingFile(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("crc", filepath.Join(c.dir, "missing.bin"))
	assert.Error(t, err)
}

func TestDump(t *testing.T) {
	c := newCLI(t)
	path := c.file("data.bin", []byte{0xfd, 2, 0xff, 1, 0, 1, 1, 2, 3})

	out, err := c.run("dump", path)
	require.NoError(t, err)
	assert.Equal(t, "{ [0]: 253, 2, 255, 1, 0, 1, 1, 2, [8]: 3 }\n", out)

	out, err = c.run("dump", path, "--signed", "--base", "16")
	require.NoError(t, err)
	assert.Equal(t, "{ [0x0]: -0x3, 0x2, -0x1, 0x1, 0x0, 0x1, 0x1, 0x2, [0x8]: 0x3 }\n", out)

	out, err = c.run("dump", path, "--bits", "16", "--order", "big")
	require.NoError(t, err)
	assert.Equal(t, "{ [0]: 64770, 65281, 1, 258 }\n", out)
}

func TestDump_Multiline(t *testing.T) {
	c := newCLI(t)
	path := c.file("data.bin", []byte("Hi"))

	out, err := c.run("dump", path, "--multiline", "--comments")
	require.NoError(t, err)
	assert.Equal(t, "{\n  # Hi\n  [0]: 72  # 0x48\n  [1]: 105  # 0x69\n}\n", out)

	out, err = c.run("dump", path, "--multiline", "--indent", "\t")
	require.NoError(t, err)
	assert.Equal(t, "{\n\t[0]: 72\n\t[1]: 105\n}\n", out)
}

func TestDump_Nibbles(t *testing.T) {
	c := newCLI(t)
	path := c.file("data.bin", []byte{0x21, 0x43})

	out, err := c.run("dump", path, "--bits", "4")
	require.NoError(t, err)
	assert.Equal(t, "{ [0]: 1, 2, 3, 4 }\n", out)
}

func TestDump_BadLayout(t *testing.T) {
	c := newCLI(t)
	path := c.file("data.bin", []byte{1})

	_, err := c.run("dump", path, "--bits", "65")
	assert.Error(t, err)
	_, err = c.run("dump", path, "--order", "middle")
	assert.Error(t, err)
}

func TestDump_BadBase(t *testing.T) {
	c := newCLI(t)
	path := c.file("data.bin", []byte{1})

	for _, base := range []string{"8", "0", "36"} {
		out, err := c.run("dump", path, "--base", base)
		require.Error(t, err, "base %s", base)
		assert.Contains(t, err.Error(), "--base must be 2, 10 or 16")
		assert.Empty(t, out)
	}

	out, err := c.run("dump", path, "--base", "2")
	require.NoError(t, err)
	assert.Equal(t, "{ [0b0]: 0b1 }\n", out)
}

func TestApply_MultilineDump(t *testing.T) {
	c := newCLI(t)
	src := c.file("src.bin", []byte("Hi!"))
	dst := c.file("dst.bin", make([]byte, 3))

	dumped, err := c.run("dump", src, "--multiline", "--comments")
	require.NoError(t, err)
	_, err = c.run("apply", dst, dumped)
	require.NoError(t, err)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, []byte("Hi!"), data)
}

func TestDump_ConfigDefaults(t *testing.T) {
	c := newCLI(t)
	cfg := "text:\n  multiline: true\n  indent: \"  \"\n  numeric_base: 16\n"
	require.NoError(t, os.WriteFile(filepath.Join(c.dir, "config.yaml"), []byte(cfg), 0600))
	path := c.file("data.bin", []byte{10})

	out, err := c.run("dump", path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  [0x0]: 0xa\n}\n", out)

	out, err = c.run("dump", path, "--multiline=false", "--base", "10")
	require.NoError(t, err)
	assert.Equal(t, "{ [0]: 10 }\n", out)
}

func TestApply(t *testing.T) {
	c := newCLI(t)
	path := c.file("data.bin", make([]byte, 4))

	out, err := c.run("apply", path, "{ [2]: 0xff, 7 }")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0xff, 7}, data)
}

func TestApply_Failure(t *testing.T) {
	c := newCLI(t)
	path := c.file("data.bin", []byte{1, 2, 3, 4})

	// The first element parses before the out of range index fails.
	_, err := c.run("apply", path, "{ 9, [4]: 1 }")
	require.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, data)
}

func TestApply_DumpRoundTrip(t *testing.T) {
	c := newCLI(t)
	src := c.file("src.bin", []byte{0x34, 0x12, 0x78, 0x56})
	dst := c.file("dst.bin", make([]byte, 4))

	dumped, err := c.run("dump", src, "--bits", "16", "--multiline", "--comments")
	require.NoError(t, err)

	rootCmd := newRootCmd()
	rootCmd.SetIn(strings.NewReader(dumped))
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"apply", dst, "-", "--bits", "16",
		"--config", filepath.Join(c.dir, "config.yaml")})
	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x34, 0x12, 0x78, 0x56}, data)
}

func TestSnapshot_Lifecycle(t *testing.T) {
	c := newCLI(t)
	path := c.file("header.bin", []byte{1, 0, 2, 0})

	out, err := c.run("snapshot", "put", path, "--bits", "16", "--name", "header")
	require.NoError(t, err)
	id := strings.TrimSpace(out)
	require.NotEmpty(t, id)

	out, err = c.run("snapshot", "get", id)
	require.NoError(t, err)
	assert.Equal(t, "# header u16 4 bytes\n{ [0]: 1, 2 }\n", out)

	out, err = c.run("snapshot", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, id)
	assert.Contains(t, out, "header")
	assert.Contains(t, out, "u16")

	copyPath := filepath.Join(c.dir, "copy.bin")
	_, err = c.run("snapshot", "get", id, "--out", copyPath)
	require.NoError(t, err)
	data, err := os.ReadFile(copyPath)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 0, 2, 0}, data)

	out, err = c.run("snapshot", "rm", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted")

	_, err = c.run("snapshot", "get", id)
	assert.Error(t, err)
	_, err = c.run("snapshot", "rm", id)
	assert.Error(t, err)
}

func TestSnapshot_Restore(t *testing.T) {
	c := newCLI(t)
	path := c.file("data.bin", []byte{1, 2, 3})

	out, err := c.run("snapshot", "put", path)
	require.NoError(t, err)
	id := strings.TrimSpace(out)

	_, err = c.run("apply", path, "{ 9, 9, 9 }")
	require.NoError(t, err)

	_, err = c.run("snapshot", "restore", id, path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)

	short := c.file("short.bin", []byte{7, 7})
	_, err = c.run("snapshot", "restore", id, short)
	require.Error(t, err)
	data, err = os.ReadFile(short)
	require.NoError(t, err)
	assert.Equal(t, []byte{7, 7}, data)
}

func TestSnapshot_InvalidID(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("snapshot", "get", "not-an-id")
	assert.Error(t, err)
	_, err = c.run("snapshot", "rm", "not-an-id")
	assert.Error(t, err)
}

func TestInit(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration written to")
	_, err = os.Stat(filepath.Join(c.dir, "config.yaml"))
	require.NoError(t, err)

	out, err = c.run("init")
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")

	out, err = c.run("init", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration written to")
}

func TestRun_NoContainer(t *testing.T) {
	SetContainer(nil)
	var out, errOut bytes.Buffer
	err := run([]string{"crc", "x"}, &out, &errOut)
	assert.Error(t, err)
}
