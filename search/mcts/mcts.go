// Package mcts picks moves with Monte-Carlo Tree Search. The tree is one
// level deep: the root position and one child per legal move. Each
// iteration selects a child with UCT, plays a uniformly random game out
// from it, and credits the result to that child. After the iteration
// budget is spent, the child with the best mean reward is played.
package mcts

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
	"lukechampine.com/frand"

	"github.com/domino14/inarow/board"
	"github.com/domino14/inarow/rng"
)

const DefaultIterations = 1000

// DefaultExploration is the UCT exploration constant used while searching.
var DefaultExploration = math.Sqrt(0.5)

type node struct {
	board board.Board
	move  int

	reward float64
	visits float64
}

func (n *node) mean() float64 {
	if n.visits == 0 {
		return 0
	}
	return n.reward / n.visits
}

// LogChild is one root child in the search log.
type LogChild struct {
	Move   int     `yaml:"move"`
	Visits float64 `yaml:"visits"`
	Reward float64 `yaml:"reward"`
	Mean   float64 `yaml:"mean"`
}

// LogSearch is written to the log stream after every search.
type LogSearch struct {
	Position   string     `yaml:"position"`
	Iterations int        `yaml:"iterations"`
	Chosen     int        `yaml:"chosen"`
	Children   []LogChild `yaml:"children,flow"`
}

// Solver implements the MCTS algorithm. A Solver is not safe for
// concurrent use.
type Solver struct {
	iterations  int
	exploration float64
	rng         *frand.RNG
	logStream   io.Writer

	// scratch space for tie-breaking
	ties []int
}

func NewSolver(iterations int) *Solver {
	if iterations < 1 {
		iterations = DefaultIterations
	}
	return &Solver{
		iterations:  iterations,
		exploration: DefaultExploration,
		rng:         frand.New(),
	}
}

func (s *Solver) Iterations() int {
	return s.iterations
}

// SetExploration sets the exploration constant used during the search.
// The final move choice always uses 0.
func (s *Solver) SetExploration(c float64) {
	s.exploration = c
}

// SetSeed makes the search reproducible. A seed of 0 restores a
// randomly seeded generator.
func (s *Solver) SetSeed(seed uint64) {
	s.rng = rng.New(seed)
}

// SetLogStream makes the solver append a YAML record of every search to l.
func (s *Solver) SetLogStream(l io.Writer) {
	s.logStream = l
}

// Solve searches b and returns the mean reward of the chosen move along
// with the move. The move is 0 if b is already over.
func (s *Solver) Solve(b board.Board) (float64, int) {
	if b.State() != board.Unfinished {
		return 0, 0
	}
	ts := time.Now()

	nodes := expand(b)
	for i := 0; i < s.iterations; i++ {
		child := s.treePolicy(nodes, s.exploration)
		nodes[0].visits++
		s.randomRollout(&nodes[child])
	}
	chosen := &nodes[s.treePolicy(nodes, 0)]

	log.Debug().
		Int("iterations", s.iterations).
		Int("move", chosen.move).
		Float64("mean", chosen.mean()).
		Float64("visits", chosen.visits).
		Dur("elapsed", time.Since(ts)).
		Msg("mcts-searched")

	if s.logStream != nil {
		s.writeLog(b, nodes, chosen.move)
	}
	return chosen.mean(), chosen.move
}

// BestMove implements player.Player.
func (s *Solver) BestMove(b board.Board) int {
	_, move := s.Solve(b)
	return move
}

// expand returns the tree arena: the root at index 0 followed by one
// child per legal move, in move order.
func expand(b board.Board) []node {
	moves := b.GenMoves()
	nodes := make([]node, 1, len(moves)+1)
	nodes[0] = node{board: b}
	for _, m := range moves {
		child := b
		child.Make(m)
		nodes = append(nodes, node{board: child, move: m})
	}
	return nodes
}

// treePolicy returns the index of the child with the highest UCT score,
// choosing uniformly among ties.
func (s *Solver) treePolicy(nodes []node, c float64) int {
	parentVisits := nodes[0].visits
	maxScore := math.Inf(-1)
	s.ties = s.ties[:0]

	for i := 1; i < len(nodes); i++ {
		score := ucbScore(parentVisits, &nodes[i], c)
		if score > maxScore {
			maxScore = score
			s.ties = append(s.ties[:0], i)
		} else if score == maxScore {
			s.ties = append(s.ties, i)
		}
	}
	if len(s.ties) == 0 {
		panic("mcts: no child to select")
	}
	return s.ties[s.rng.Intn(len(s.ties))]
}

// ucbScore is the UCT value of child. Unvisited children come first.
func ucbScore(parentVisits float64, child *node, c float64) float64 {
	if child.visits == 0 {
		return math.Inf(1)
	}
	exploitation := child.reward / child.visits
	exploration := 2 * c * math.Sqrt(2*math.Log(parentVisits)/child.visits)
	return exploitation + exploration
}

// randomRollout plays random moves from n until the game ends and
// credits n with the result. The player who moved into n has won exactly
// when the final position has the same player to move as n.
func (s *Solver) randomRollout(n *node) {
	b := n.board
	state := b.State()
	for state == board.Unfinished {
		b.Make(b.RandomMove(s.rng))
		state = b.State()
	}

	n.visits++

	switch state {
	case board.Draw:
		n.reward += 0.5
	case board.Unfinished:
		panic(fmt.Sprintf("unfinished random rollout from %v", n.board))
	default:
		if n.board.Turn == b.Turn {
			n.reward += 1
		}
	}
}

func (s *Solver) writeLog(b board.Board, nodes []node, chosen int) {
	entry := LogSearch{
		Position:   b.String(),
		Iterations: s.iterations,
		Chosen:     chosen,
		Children: lo.Map(nodes[1:], func(n node, _ int) LogChild {
			return LogChild{Move: n.move, Visits: n.visits, Reward: n.reward, Mean: n.mean()}
		}),
	}
	out, err := yaml.Marshal([]LogSearch{entry})
	if err != nil {
		log.Err(err).Msg("mcts-log-marshal")
		return
	}
	if _, err := s.logStream.Write(out); err != nil {
		log.Err(err).Msg("mcts-log-write")
	}
}
