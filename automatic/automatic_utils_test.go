package automatic

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lentono/blockbot/bot"
	"github.com/lentono/blockbot/config"
	"github.com/lentono/blockbot/equity"
)

func countLines(t *testing.T, path string) int {
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	n := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		n++
	}
	require.NoError(t, sc.Err())
	return n
}

func TestPlaySelfPlayGames(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfg := testConfig(25, 0)
	cfg.Set(config.ConfigSeed, 42)

	store, err := OpenResultStore(ctx, filepath.Join(dir, "results.db"))
	require.NoError(t, err)
	defer store.Close()

	logFile := filepath.Join(dir, "pieces.csv")
	results, err := PlaySelfPlayGames(ctx, cfg, bot.NewEngine(equity.DefaultWeights), SelfPlayOptions{
		NumGames: 6,
		Threads:  3,
		LogFile:  logFile,
		Store:    store,
		RunID:    "run-1",
	})
	require.NoError(t, err)
	require.Len(t, results, 6)
	for i, res := range results {
		assert.Equal(t, i, res.GameID)
		assert.Equal(t, uint64(42+i), res.Seed)
	}

	summary := Summarize(results)
	assert.Equal(t, 6, summary.Games)
	assert.Equal(t, summary.TotalPieces+1, countLines(t, logFile))

	fromLog, err := AnalyzeLogFile(logFile)
	require.NoError(t, err)
	assert.Equal(t, summary.TotalPieces, fromLog.TotalPieces)
	assert.Equal(t, summary.TotalLines, fromLog.TotalLines)
	assert.Equal(t, 6, fromLog.Games)

	stored, err := store.Load(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, results, stored)

	runs, err := store.Runs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"run-1"}, runs)

	// Same seeds, same games.
	again, err := PlaySelfPlayGames(ctx, cfg, bot.NewEngine(equity.DefaultWeights), SelfPlayOptions{NumGames: 6, Threads: 2})
	require.NoError(t, err)
	assert.Equal(t, results, again)
}

func TestPlaySelfPlayGamesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := testConfig(25, 0)
	results, err := PlaySelfPlayGames(ctx, cfg, bot.NewEngine(equity.DefaultWeights), SelfPlayOptions{NumGames: 4, Threads: 2})
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestSummaryReport(t *testing.T) {
	results := []*GameResult{
		{GameID: 0, Pieces: 1500, Lines: 590, ToppedOut: true},
		{GameID: 1, Pieces: 500, Lines: 190},
	}
	s := Summarize(results)
	assert.Equal(t, 2, s.Games)
	assert.Equal(t, 1, s.ToppedOut)
	assert.InDelta(t, 1000.0, s.MeanPieces, 1e-9)
	assert.InDelta(t, 390.0, s.MeanLines, 1e-9)
	assert.Greater(t, s.StdevLines, 0.0)
	assert.Less(t, s.LinesLow, s.MeanLines)
	assert.Greater(t, s.LinesHigh, s.MeanLines)

	var buf bytes.Buffer
	require.NoError(t, s.WriteReport(&buf))
	out := buf.String()
	assert.True(t, strings.Contains(out, "Games played: 2"))
	assert.True(t, strings.Contains(out, "Pieces: 2,000"))
	assert.True(t, strings.Contains(out, "Mean lines 95% interval"))
	assert.True(t, strings.Contains(out, "Lines per game:"))
}

func TestSummarizeSingleAndEmpty(t *testing.T) {
	s := Summarize([]*GameResult{{Pieces: 10, Lines: 2}})
	assert.Equal(t, 10.0, s.MeanPieces)
	assert.Equal(t, 0.0, s.StdevPieces)

	s = Summarize(nil)
	assert.Equal(t, 0, s.Games)
	var buf bytes.Buffer
	assert.NoError(t, s.WriteReport(&buf))
}
