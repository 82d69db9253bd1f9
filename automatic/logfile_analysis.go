package automatic

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/domino14/inarow/stats"
)

var ErrBadGameLog = errors.New("bad game log")

// AnalyzeLogFile reads a game log written by a Runner and summarizes it.
func AnalyzeLogFile(filepath string) (string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return "", err
	}
	defer file.Close()
	return AnalyzeLog(file)
}

// AnalyzeLog summarizes a game log read from r.
func AnalyzeLog(r io.Reader) (string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 6

	// Record looks like:
	// gameID,player1,player2,first,result,moves

	p1stats := &stats.Statistic{}
	lengths := &stats.Statistic{}
	p1first := 0
	wentFirstWL := 0.0
	var p1Name, p2Name string
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if record[0] == "gameID" {
			continue
		}
		p1Name, p2Name = record[1], record[2]
		wentFirst := record[3]
		if wentFirst == p1Name {
			p1first++
		}
		switch record[4] {
		case "1":
			p1stats.Push(1)
			if wentFirst == p1Name {
				wentFirstWL++
			}
		case "2":
			p1stats.Push(0)
			if wentFirst == p2Name {
				wentFirstWL++
			}
		case "D":
			p1stats.Push(0.5)
			wentFirstWL += 0.5
		default:
			return "", fmt.Errorf("%w: result %q", ErrBadGameLog, record[4])
		}
		lengths.Push(float64(len(strings.Fields(record[5]))))
	}
	gamesPlayed := p1stats.Iterations()
	if gamesPlayed == 0 {
		return "", fmt.Errorf("%w: no games", ErrBadGameLog)
	}

	low, high := p1stats.ConfidenceInterval(95)
	var sb strings.Builder
	fmt.Fprintf(&sb, "Games played: %d\n", gamesPlayed)
	fmt.Fprintf(&sb, "%v score: %.3f (95%% CI %.3f-%.3f)\n", p1Name, p1stats.Mean(), low, high)
	fmt.Fprintf(&sb, "%v went first: %d (%.3f%%)\n", p1Name, p1first, 100.0*float64(p1first)/float64(gamesPlayed))
	fmt.Fprintf(&sb, "Player who went first wins: %.1f (%.3f%%)\n",
		wentFirstWL, 100.0*wentFirstWL/float64(gamesPlayed))
	fmt.Fprintf(&sb, "Mean game length: %.3f  Stdev: %.3f\n", lengths.Mean(), lengths.Stdev())
	return sb.String(), nil
}
