package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/urbanform/internal/character"
	"github.com/sells-group/urbanform/internal/config"
	"github.com/sells-group/urbanform/internal/layer"
)

// testConfig mirrors the loaded defaults on a small grid.
func testConfig(rows, cols int, cell, gap float64) *config.Config {
	return &config.Config{
		Log:        config.LogConfig{Level: "info", Format: "json"},
		Contiguity: config.ContiguityConfig{Tolerance: 1e-9},
		Character:  config.CharacterConfig{Order: 3, IncludeLower: true, Reducer: "mean"},
		Profile:    config.ProfileConfig{Distance: 10, TickLength: 50},
		Dimension:  config.DimensionConfig{StoreyHeight: 3},
		Synth:      config.SynthConfig{Rows: rows, Cols: cols, Cell: cell, Gap: gap},
	}
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"contiguity", "character", "profile", "dimensions", "config"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "urbanform", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestSubcommand_Flags(t *testing.T) {
	for _, cmd := range []string{"contiguity", "character", "profile", "dimensions"} {
		c, _, err := rootCmd.Find([]string{cmd})
		require.NoError(t, err)
		for _, flag := range []string{"rows", "cols", "cell", "gap", "limit"} {
			assert.NotNil(t, c.Flags().Lookup(flag), "%s should have --%s", cmd, flag)
		}
	}

	flag := characterCmd.Flags().Lookup("kind")
	require.NotNil(t, flag)
	assert.Equal(t, kindAverage, flag.DefValue)

	flag = contiguityCmd.Flags().Lookup("order")
	require.NotNil(t, flag)
	assert.Equal(t, "1", flag.DefValue)
}

func TestRunContiguity(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runContiguity(context.Background(), &buf, testConfig(3, 3, 10, 2), 1, true, 0))

	out := buf.String()
	assert.Regexp(t, `Units:\s+9`, out)
	assert.Regexp(t, `Edges:\s+20`, out)
	assert.Regexp(t, `Components:\s+1`, out)
	assert.Regexp(t, `(?m)^1\s+3\s+2,4,5$`, out)

	buf.Reset()
	require.NoError(t, runContiguity(context.Background(), &buf, testConfig(3, 3, 10, 2), 2, false, 2))
	assert.Regexp(t, `(?m)^1\s+5\s+3,6,7,8,9$`, buf.String())
	assert.Contains(t, buf.String(), "... 7 more")
}

func TestRunCharacter(t *testing.T) {
	ctx := context.Background()
	c := testConfig(3, 3, 10, 2)

	var buf bytes.Buffer
	require.NoError(t, runCharacter(ctx, &buf, c, kindCoveredArea, "", 0))
	assert.Regexp(t, `(?m)^5\s+900\.0000$`, buf.String())

	// Every footprint is 8x8, so any reducer returns 64.
	buf.Reset()
	require.NoError(t, runCharacter(ctx, &buf, c, kindAverage, "area", 0))
	assert.Regexp(t, `(?m)^1\s+64\.0000$`, buf.String())

	buf.Reset()
	require.NoError(t, runCharacter(ctx, &buf, c, kindSegmentsLength, "", 0))
	assert.Regexp(t, `(?m)^1\s+90\.0000$`, buf.String())

	buf.Reset()
	require.NoError(t, runCharacter(ctx, &buf, c, kindPerimeterWall, "", 0))
	assert.Regexp(t, `(?m)^5\s+360\.0000$`, buf.String())
}

func TestRunCharacter_Errors(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer

	c := testConfig(3, 3, 10, 2)
	c.Character.Reducer = "sum"
	err := runCharacter(ctx, &buf, c, kindAverage, "area", 0)
	var ure *character.UnknownReducerError
	assert.True(t, errors.As(err, &ure))

	err = runCharacter(ctx, &buf, testConfig(3, 3, 10, 2), kindAverage, "storeys", 0)
	var mfe *layer.MissingFieldError
	assert.True(t, errors.As(err, &mfe))

	err = runCharacter(ctx, &buf, testConfig(3, 3, 10, 2), "volume", "area", 0)
	assert.Error(t, err)
}

func TestReducerFromConfig(t *testing.T) {
	r, err := reducerFromConfig(config.CharacterConfig{Reducer: "mode", ModeBins: 7})
	require.NoError(t, err)
	assert.Equal(t, character.Mode{Bins: 7}, r)

	r, err = reducerFromConfig(config.CharacterConfig{Reducer: "mode:3", ModeBins: 7})
	require.NoError(t, err)
	assert.Equal(t, character.Mode{Bins: 3}, r)
}

func TestRunProfile(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runProfile(context.Background(), &buf, testConfig(2, 3, 20, 10), 0))
	assert.Regexp(t, `(?m)^1\s+10\.0000\s+0\.0000\s+0\.5714\s+20\.0000\s+6\.8313\s+2\.0000$`, buf.String())
}

func TestRunDimensions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runDimensions(&buf, testConfig(1, 2, 10, 4), "height", 0))
	// 6x6 footprints, heights 10 and 30.
	assert.Regexp(t, `(?m)^1\s+36\.0000\s+24\.0000\s+360\.0000\s+108\.0000\s+0\.0000`, buf.String())
	assert.Regexp(t, `(?m)^2\s+36\.0000\s+24\.0000\s+1080\.0000\s+360\.0000\s+0\.0000`, buf.String())

	err := runDimensions(&buf, testConfig(1, 2, 10, 4), "storeys", 0)
	var mfe *layer.MissingFieldError
	assert.True(t, errors.As(err, &mfe))
}

func TestFormatColumns(t *testing.T) {
	tbl := layer.NewTable(3)
	require.NoError(t, tbl.SetColumn("x", []float64{1, 2.5, 0}))
	var buf bytes.Buffer
	require.NoError(t, formatColumns(&buf, tbl, []string{"x"}, 2))
	assert.Equal(t, "ID  x\n0   1.0000\n1   2.5000\n... 1 more\n", buf.String())

	assert.Error(t, formatColumns(&buf, tbl, []string{"y"}, 0))
}
