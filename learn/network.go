// Package learn trains a feed-forward network to imitate the alpha-beta
// solver, and plays with it.
package learn

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
	"lukechampine.com/frand"

	"github.com/domino14/inarow/board"
)

// LearningRateDecay is applied to the learning rate after every round.
const LearningRateDecay = 0.9

var ErrShape = errors.New("network shape does not match board")

// Network is a fully connected network of sigmoid units. The input is a
// board's feature vector; output i scores square i+1. A trained Network
// is read-only and can be shared between goroutines.
type Network struct {
	lines   *board.LineTable
	layers  []int
	weights []*mat.Dense
	biases  []*mat.VecDense
}

// New returns a network with random weights in [-0.5, 0.5) for boards of
// lt. hidden lists the hidden layer sizes.
func New(lt *board.LineTable, hidden []int, rng *frand.RNG) *Network {
	n2 := lt.NumSquares()
	layers := append(append([]int{3 * n2}, hidden...), n2)
	nw := &Network{lines: lt, layers: layers}
	for l := 1; l < len(layers); l++ {
		w := make([]float64, layers[l]*layers[l-1])
		for i := range w {
			w[i] = rng.Float64() - 0.5
		}
		b := make([]float64, layers[l])
		for i := range b {
			b[i] = rng.Float64() - 0.5
		}
		nw.weights = append(nw.weights, mat.NewDense(layers[l], layers[l-1], w))
		nw.biases = append(nw.biases, mat.NewVecDense(layers[l], b))
	}
	return nw
}

// Layers returns the size of every layer, input and output included.
func (nw *Network) Layers() []int {
	return nw.layers
}

func sigmoid(v *mat.VecDense) {
	raw := v.RawVector().Data
	for i, x := range raw {
		raw[i] = 1 / (1 + math.Exp(-x))
	}
}

// forward returns the activations of every layer.
func (nw *Network) forward(b board.Board) []*mat.VecDense {
	acts := make([]*mat.VecDense, len(nw.layers))
	acts[0] = mat.NewVecDense(nw.layers[0], b.FeatureVector())
	for l, w := range nw.weights {
		z := mat.NewVecDense(nw.layers[l+1], nil)
		z.MulVec(w, acts[l])
		z.AddVec(z, nw.biases[l])
		sigmoid(z)
		acts[l+1] = z
	}
	return acts
}

// Output returns the raw score of every square.
func (nw *Network) Output(b board.Board) []float64 {
	acts := nw.forward(b)
	return acts[len(acts)-1].RawVector().Data
}

// BestMove implements player.Player. It plays the highest scoring empty
// square.
func (nw *Network) BestMove(b board.Board) int {
	out := nw.Output(b)
	empty := b.Empty()
	best, bestScore := 0, math.Inf(-1)
	for i, s := range out {
		if empty&(1<<i) != 0 && s > bestScore {
			best, bestScore = i+1, s
		}
	}
	if best == 0 {
		panic(fmt.Sprintf("network found no legal move on %v", b))
	}
	return best
}

func target(n2, move int) *mat.VecDense {
	t := mat.NewVecDense(n2, nil)
	t.SetVec(move-1, 1)
	return t
}

// step runs one sample through the network and updates the weights by
// gradient descent on the squared error.
func (nw *Network) step(s Sample, rate float64) {
	acts := nw.forward(s.Board)
	last := len(nw.weights) - 1

	delta := mat.NewVecDense(nw.layers[last+1], nil)
	delta.SubVec(acts[last+1], target(nw.lines.NumSquares(), s.Move))

	for l := last; l >= 0; l-- {
		a := acts[l+1].RawVector().Data
		d := delta.RawVector().Data
		for i := range d {
			d[i] *= a[i] * (1 - a[i])
		}
		var prev *mat.VecDense
		if l > 0 {
			prev = mat.NewVecDense(nw.layers[l], nil)
			prev.MulVec(nw.weights[l].T(), delta)
		}
		nw.weights[l].RankOne(nw.weights[l], -rate, delta, acts[l])
		nw.biases[l].AddScaledVec(nw.biases[l], -rate, delta)
		delta = prev
	}
}

// TrainOptions controls Train.
type TrainOptions struct {
	Rounds       int
	Epochs       int
	LearningRate float64
	RNG          *frand.RNG
}

// Train runs opts.Rounds rounds of opts.Epochs passes over samples,
// shuffling before each pass. The learning rate decays after each round.
func (nw *Network) Train(samples []Sample, opts TrainOptions) {
	rate := opts.LearningRate
	order := make([]int, len(samples))
	for i := range order {
		order[i] = i
	}
	for r := 0; r < opts.Rounds; r++ {
		ts := time.Now()
		for e := 0; e < opts.Epochs; e++ {
			opts.RNG.Shuffle(len(order), func(i, j int) {
				order[i], order[j] = order[j], order[i]
			})
			for _, idx := range order {
				nw.step(samples[idx], rate)
			}
		}
		log.Debug().
			Int("round", r+1).
			Float64("rate", rate).
			Float64("loss", nw.Loss(samples)).
			Dur("elapsed", time.Since(ts)).
			Msg("trained-round")
		rate *= LearningRateDecay
	}
}

// Loss is the mean squared error over samples.
func (nw *Network) Loss(samples []Sample) float64 {
	if len(samples) == 0 {
		return 0
	}
	var total float64
	for _, s := range samples {
		out := nw.Output(s.Board)
		for i, o := range out {
			want := 0.0
			if i == s.Move-1 {
				want = 1
			}
			total += (o - want) * (o - want)
		}
	}
	return total / float64(len(samples))
}

// Accuracy is the fraction of samples where the network plays the
// labeled move.
func (nw *Network) Accuracy(samples []Sample) float64 {
	if len(samples) == 0 {
		return 0
	}
	correct := 0
	for _, s := range samples {
		if nw.BestMove(s.Board) == s.Move {
			correct++
		}
	}
	return float64(correct) / float64(len(samples))
}

type savedNetwork struct {
	BoardSize int         `yaml:"board_size"`
	Layers    []int       `yaml:"layers"`
	Weights   [][]float64 `yaml:"weights"`
	Biases    [][]float64 `yaml:"biases"`
}

// Save writes the network to w as YAML.
func (nw *Network) Save(w io.Writer) error {
	sn := savedNetwork{BoardSize: nw.lines.Size(), Layers: nw.layers}
	for l := range nw.weights {
		sn.Weights = append(sn.Weights, nw.weights[l].RawMatrix().Data)
		sn.Biases = append(sn.Biases, nw.biases[l].RawVector().Data)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(&sn)
}

// Load reads a network written by Save. It must have been trained for
// boards of lt.
func Load(r io.Reader, lt *board.LineTable) (*Network, error) {
	var sn savedNetwork
	if err := yaml.NewDecoder(r).Decode(&sn); err != nil {
		return nil, fmt.Errorf("decoding network: %w", err)
	}
	if sn.BoardSize != lt.Size() || len(sn.Layers) < 2 ||
		sn.Layers[0] != 3*lt.NumSquares() || sn.Layers[len(sn.Layers)-1] != lt.NumSquares() {
		return nil, fmt.Errorf("%w: size %d layers %v", ErrShape, sn.BoardSize, sn.Layers)
	}
	if len(sn.Weights) != len(sn.Layers)-1 || len(sn.Biases) != len(sn.Layers)-1 {
		return nil, fmt.Errorf("%w: %d weight matrices for %d layers", ErrShape, len(sn.Weights), len(sn.Layers))
	}
	nw := &Network{lines: lt, layers: sn.Layers}
	for l := 1; l < len(sn.Layers); l++ {
		w, b := sn.Weights[l-1], sn.Biases[l-1]
		if len(w) != sn.Layers[l]*sn.Layers[l-1] || len(b) != sn.Layers[l] {
			return nil, fmt.Errorf("%w: layer %d", ErrShape, l)
		}
		nw.weights = append(nw.weights, mat.NewDense(sn.Layers[l], sn.Layers[l-1], w))
		nw.biases = append(nw.biases, mat.NewVecDense(sn.Layers[l], b))
	}
	return nw, nil
}
