package zconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/DustinCampbell/ZDebug-sub001/zvm"
)

func writeConfig(t *testing.T, dir, text string) string {
	p := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(p, []byte(text), 0o644))
	return p
}

func TestLoad(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	p := writeConfig(t, dir, `
log-level = "debug"

[screen]
width = 100

[interpreter]
number = 3
version = "C"
seed = 42

[saves]
path = "saves.db"
`)
	c, err := Load(p)
	require.NoError(t, err)
	require.Equal(t, 100, c.Screen.Width)
	require.Equal(t, 0, c.Screen.Height)
	require.Equal(t, uint8(3), c.Interpreter.Number)
	require.Equal(t, "C", c.Interpreter.Version)
	require.Equal(t, int64(42), c.Interpreter.Seed)
	// unset values keep their defaults
	require.Equal(t, zvm.DefaultUndoDepth, c.Interpreter.Undo)
	require.Equal(t, "default", c.Saves.Slot)
	require.Equal(t, filepath.Join(dir, "saves.db"), c.Saves.Path)

	lvl, err := c.Level()
	require.NoError(t, err)
	require.Equal(t, zapcore.DebugLevel, lvl)

	env := c.Env(zvm.Env{})
	require.Equal(t, uint8(3), env.InterpreterNumber)
	require.Equal(t, uint8('C'), env.InterpreterVersion)
	require.Equal(t, int64(42), env.Seed)

	d := c.Dimensions(zvm.Dimensions{HeightInLines: 25, WidthInColumns: 80, HeightInUnits: 25, WidthInUnits: 80, FontHeightInUnits: 1, FontWidthInUnits: 1})
	require.Equal(t, 100, d.WidthInColumns)
	require.Equal(t, 100, d.WidthInUnits)
	require.Equal(t, 25, d.HeightInLines)
}

func TestLoadInvalid(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		Name string
		Text string
	}{
		{"syntax", `[screen`},
		{"width", "[screen]\nwidth = 300"},
		{"version", "[interpreter]\nversion = \"AB\""},
		{"undo", "[interpreter]\nundo-depth = -1"},
		{"level", `log-level = "loud"`},
	} {
		t.Run(tc.Name, func(t *testing.T) {
			t.Parallel()
			_, err := Load(writeConfig(t, t.TempDir(), tc.Text))
			require.Error(t, err)
		})
	}
}

func TestFind(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	c, err := Find(nested)
	require.NoError(t, err)
	require.Equal(t, Default(), *c)

	writeConfig(t, root, "[screen]\nheight = 40\n")
	c, err = Find(nested)
	require.NoError(t, err)
	require.Equal(t, 40, c.Screen.Height)
}
