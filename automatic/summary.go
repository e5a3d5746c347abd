package automatic

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat"

	"github.com/lentono/blockbot/stats"
)

const (
	histogramBins = 10
	confidence    = 95
)

// Summary aggregates a batch of games.
type Summary struct {
	Games        int
	ToppedOut    int
	TotalPieces  int
	TotalLines   int
	MeanPieces   float64
	StdevPieces  float64
	MeanLines    float64
	StdevLines   float64
	// Confidence interval of MeanLines.
	LinesLow     float64
	LinesHigh    float64
	linesPerGame []float64
}

func meanStdev(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	if len(xs) == 1 {
		return xs[0], 0
	}
	return stat.MeanStdDev(xs, nil)
}

// Summarize computes the summary of results.
func Summarize(results []*GameResult) Summary {
	pieces := lo.Map(results, func(r *GameResult, _ int) float64 { return float64(r.Pieces) })
	lines := lo.Map(results, func(r *GameResult, _ int) float64 { return float64(r.Lines) })
	s := Summary{
		Games:        len(results),
		ToppedOut:    lo.CountBy(results, func(r *GameResult) bool { return r.ToppedOut }),
		TotalPieces:  lo.SumBy(results, func(r *GameResult) int { return r.Pieces }),
		TotalLines:   lo.SumBy(results, func(r *GameResult) int { return r.Lines }),
		linesPerGame: lines,
	}
	s.MeanPieces, s.StdevPieces = meanStdev(pieces)
	s.MeanLines, s.StdevLines = meanStdev(lines)

	st := &stats.Statistic{}
	for _, l := range lines {
		st.Push(l)
	}
	s.LinesLow, s.LinesHigh = st.ConfidenceInterval(confidence)
	return s
}

// WriteReport prints the summary and a histogram of lines cleared per game.
func (s Summary) WriteReport(w io.Writer) error {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "Games played: %d\n", s.Games)
	p.Fprintf(w, "Topped out: %d\n", s.ToppedOut)
	p.Fprintf(w, "Pieces: %d (mean %.2f, stdev %.2f)\n", s.TotalPieces, s.MeanPieces, s.StdevPieces)
	p.Fprintf(w, "Lines: %d (mean %.2f, stdev %.2f)\n", s.TotalLines, s.MeanLines, s.StdevLines)
	p.Fprintf(w, "Mean lines %d%% interval: [%.2f, %.2f]\n", confidence, s.LinesLow, s.LinesHigh)
	if len(s.linesPerGame) == 0 {
		return nil
	}
	fmt.Fprintln(w, "Lines per game:")
	return histogram.Fprint(w, histogram.Hist(histogramBins, s.linesPerGame), histogram.Linear(40))
}

// AnalyzeLogFile rebuilds per-game results from a self-play piece log and
// summarizes them.
func AnalyzeLogFile(path string) (Summary, error) {
	file, err := os.Open(path)
	if err != nil {
		return Summary{}, err
	}
	defer file.Close()
	r := csv.NewReader(file)

	// Record looks like:
	// gameID,piece,shape,rotation,x,y,score,cleared,source
	games := map[int]*GameResult{}
	var order []int
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Summary{}, err
		}
		if record[0] == "gameID" {
			continue
		}
		id, err := strconv.Atoi(record[0])
		if err != nil {
			return Summary{}, err
		}
		piece, err := strconv.Atoi(record[1])
		if err != nil {
			return Summary{}, err
		}
		cleared, err := strconv.Atoi(record[7])
		if err != nil {
			return Summary{}, err
		}
		g, ok := games[id]
		if !ok {
			g = &GameResult{GameID: id}
			games[id] = g
			order = append(order, id)
		}
		g.Pieces = max(g.Pieces, piece)
		g.Lines += cleared
	}
	return Summarize(lo.Map(order, func(id int, _ int) *GameResult { return games[id] })), nil
}
