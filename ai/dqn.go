package ai

import (
	"encoding/gob"
	"log"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

const (
	// Learning parameters
	DQNLearningRate = 0.005
	DQNDiscount     = 0.95
	InitialEpsilon  = 1.0
	EpsilonDecay    = 0.99
	MinEpsilon      = 0.01

	// Network parameters
	BatchSize        = 32
	ReplayBufferSize = 5000
	HiddenLayerSize  = 24
	InputFeatures    = 8 // 4 food direction flags + 4 danger flags
	GradientClip     = 0.5

	// Share of the online weights blended into the target network per batch
	targetTau = 0.01
)

var outputActions = int(numActions)

// Transition is a single step of experience
type Transition struct {
	State     []float64
	Action    Action
	Reward    float64
	NextState []float64
	Done      bool
}

// ReplayBuffer is a fixed-size ring of transitions sampled uniformly
type ReplayBuffer struct {
	buffer   []Transition
	position int
	size     int
	rng      *rand.Rand
}

func NewReplayBuffer(maxSize int, rng *rand.Rand) *ReplayBuffer {
	return &ReplayBuffer{
		buffer: make([]Transition, maxSize),
		rng:    rng,
	}
}

// Add stores t, overwriting the oldest transition once full
func (b *ReplayBuffer) Add(t Transition) {
	b.buffer[b.position] = t
	b.position = (b.position + 1) % len(b.buffer)
	if b.size < len(b.buffer) {
		b.size++
	}
}

func (b *ReplayBuffer) Len() int {
	return b.size
}

// Sample draws n transitions with replacement
func (b *ReplayBuffer) Sample(n int) []Transition {
	batch := make([]Transition, n)
	for i := range batch {
		batch[i] = b.buffer[b.rng.Intn(b.size)]
	}
	return batch
}

// network is one compiled graph: x -> relu(x*w1 + b1) -> *w2 + b2. A
// trainable network also carries the masked squared error and its gradients.
type network struct {
	batch          int
	g              *gorgonia.ExprGraph
	x, y, mask     *gorgonia.Node
	w1, b1, w2, b2 *gorgonia.Node
	pred, loss     *gorgonia.Node
	vm             gorgonia.VM
}

func newNetwork(batch int, trainable bool) (*network, error) {
	g := gorgonia.NewGraph()
	n := &network{batch: batch, g: g}

	n.x = gorgonia.NewMatrix(g, tensor.Float64, gorgonia.WithShape(batch, InputFeatures), gorgonia.WithName("x"))
	n.w1 = gorgonia.NewMatrix(g, tensor.Float64,
		gorgonia.WithShape(InputFeatures, HiddenLayerSize),
		gorgonia.WithName("w1"),
		gorgonia.WithInit(gorgonia.GlorotU(1.0)))
	n.b1 = gorgonia.NewMatrix(g, tensor.Float64,
		gorgonia.WithShape(1, HiddenLayerSize),
		gorgonia.WithName("b1"),
		gorgonia.WithInit(gorgonia.Zeroes()))
	n.w2 = gorgonia.NewMatrix(g, tensor.Float64,
		gorgonia.WithShape(HiddenLayerSize, outputActions),
		gorgonia.WithName("w2"),
		gorgonia.WithInit(gorgonia.GlorotU(1.0)))
	n.b2 = gorgonia.NewMatrix(g, tensor.Float64,
		gorgonia.WithShape(1, outputActions),
		gorgonia.WithName("b2"),
		gorgonia.WithInit(gorgonia.Zeroes()))

	// Biases are broadcast over the batch by a column of ones
	ones := make([]float64, batch)
	for i := range ones {
		ones[i] = 1
	}
	onesNode := gorgonia.NewMatrix(g, tensor.Float64,
		gorgonia.WithShape(batch, 1),
		gorgonia.WithName("ones"),
		gorgonia.WithValue(tensor.New(tensor.WithShape(batch, 1), tensor.WithBacking(ones))))

	h1 := gorgonia.Must(gorgonia.Mul(n.x, n.w1))
	h1 = gorgonia.Must(gorgonia.Add(h1, gorgonia.Must(gorgonia.Mul(onesNode, n.b1))))
	h1 = gorgonia.Must(gorgonia.Rectify(h1))

	out := gorgonia.Must(gorgonia.Mul(h1, n.w2))
	n.pred = gorgonia.Must(gorgonia.Add(out, gorgonia.Must(gorgonia.Mul(onesNode, n.b2))))

	if !trainable {
		n.vm = gorgonia.NewTapeMachine(g)
		return n, nil
	}

	// Only the taken action's output carries error
	n.y = gorgonia.NewMatrix(g, tensor.Float64, gorgonia.WithShape(batch, outputActions), gorgonia.WithName("y"))
	n.mask = gorgonia.NewMatrix(g, tensor.Float64, gorgonia.WithShape(batch, outputActions), gorgonia.WithName("mask"))
	diff := gorgonia.Must(gorgonia.HadamardProd(gorgonia.Must(gorgonia.Sub(n.pred, n.y)), n.mask))
	n.loss = gorgonia.Must(gorgonia.Mean(gorgonia.Must(gorgonia.Square(diff))))

	if _, err := gorgonia.Grad(n.loss, n.learnables()...); err != nil {
		return nil, errors.Wrap(err, "build gradients")
	}
	n.vm = gorgonia.NewTapeMachine(g, gorgonia.BindDualValues(n.learnables()...))
	return n, nil
}

func (n *network) learnables() gorgonia.Nodes {
	return gorgonia.Nodes{n.w1, n.b1, n.w2, n.b2}
}

func (n *network) matrix(data []float64, cols int) tensor.Tensor {
	return tensor.New(tensor.WithShape(n.batch, cols), tensor.WithBacking(data))
}

// forward returns batch rows of action values for batch rows of features
func (n *network) forward(states []float64) ([]float64, error) {
	defer n.vm.Reset()
	if err := gorgonia.Let(n.x, n.matrix(states, InputFeatures)); err != nil {
		return nil, errors.Wrap(err, "bind states")
	}
	if err := n.vm.RunAll(); err != nil {
		return nil, errors.Wrap(err, "forward pass")
	}
	predictions := make([]float64, n.batch*outputActions)
	copy(predictions, n.pred.Value().Data().([]float64))
	return predictions, nil
}

// train runs one gradient step towards targets on the masked outputs
func (n *network) train(states, targets, mask []float64, solver gorgonia.Solver) error {
	defer n.vm.Reset()
	if err := gorgonia.Let(n.x, n.matrix(states, InputFeatures)); err != nil {
		return errors.Wrap(err, "bind states")
	}
	if err := gorgonia.Let(n.y, n.matrix(targets, outputActions)); err != nil {
		return errors.Wrap(err, "bind targets")
	}
	if err := gorgonia.Let(n.mask, n.matrix(mask, outputActions)); err != nil {
		return errors.Wrap(err, "bind mask")
	}
	if err := n.vm.RunAll(); err != nil {
		return errors.Wrap(err, "backprop")
	}
	return errors.Wrap(solver.Step(gorgonia.NodesToValueGrads(n.learnables())), "solver step")
}

// weights exposes the live parameter slices by name
func (n *network) weights() map[string][]float64 {
	return map[string][]float64{
		"w1": n.w1.Value().Data().([]float64),
		"b1": n.b1.Value().Data().([]float64),
		"w2": n.w2.Value().Data().([]float64),
		"b2": n.b2.Value().Data().([]float64),
	}
}

// blendWeights moves target towards source by tau; tau 1 copies
func blendWeights(target, source *network, tau float64) {
	src := source.weights()
	for name, dst := range target.weights() {
		for i := range dst {
			dst[i] = tau*src[name][i] + (1-tau)*dst[i]
		}
	}
}

// DQN is a small deep Q-network agent with experience replay and a soft
// updated target network.
type DQN struct {
	mu     sync.Mutex
	saveMu sync.Mutex

	online *network // trained, batch sized
	target *network // bootstraps next-state values
	policy *network // single row, picks actions
	solver gorgonia.Solver
	replay *ReplayBuffer
	rng    *rand.Rand

	Discount        float64
	Epsilon         float64
	TrainingEpisode int
	TotalReward     float64
}

func NewDQN(seed uint64) (*DQN, error) {
	online, err := newNetwork(BatchSize, true)
	if err != nil {
		return nil, err
	}
	target, err := newNetwork(BatchSize, false)
	if err != nil {
		return nil, err
	}
	policy, err := newNetwork(1, false)
	if err != nil {
		return nil, err
	}
	blendWeights(target, online, 1)
	blendWeights(policy, online, 1)

	rng := rand.New(rand.NewSource(seed))
	return &DQN{
		online: online,
		target: target,
		policy: policy,
		solver: gorgonia.NewAdamSolver(
			gorgonia.WithLearnRate(DQNLearningRate),
			gorgonia.WithL2Reg(1e-6),
			gorgonia.WithClip(GradientClip)),
		replay:   NewReplayBuffer(ReplayBufferSize, rng),
		rng:      rng,
		Discount: DQNDiscount,
		Epsilon:  InitialEpsilon,
	}, nil
}

// Features encodes a state as the network's input row
func Features(s State) []float64 {
	f := make([]float64, InputFeatures)
	f[Up] = flag(s.RelativeFoodDir[1] < 0)
	f[Right] = flag(s.RelativeFoodDir[0] > 0)
	f[Down] = flag(s.RelativeFoodDir[1] > 0)
	f[Left] = flag(s.RelativeFoodDir[0] < 0)
	for a := Up; a < numActions; a++ {
		f[int(numActions)+int(a)] = flag(s.DangerDirs[a])
	}
	return f
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func (d *DQN) GetAction(state State, forbidden Action) Action {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.rng.Float64() < d.Epsilon {
		for {
			a := Action(d.rng.Intn(outputActions))
			if a != forbidden {
				return a
			}
		}
	}
	return d.bestAction(state, forbidden)
}

func (d *DQN) BestAction(state State, forbidden Action) Action {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bestAction(state, forbidden)
}

func (d *DQN) bestAction(state State, forbidden Action) Action {
	q, err := d.policy.forward(Features(state))
	if err != nil {
		log.Printf("dqn: %v", err)
		q = make([]float64, outputActions)
	}

	best := Action(-1)
	bestValue := math.Inf(-1)
	for a := Up; a < numActions; a++ {
		if a == forbidden {
			continue
		}
		v := q[a]
		if state.DangerDirs[a] {
			v -= 1e-6
		}
		if v > bestValue {
			bestValue = v
			best = a
		}
	}
	return best
}

// qValues is the policy network's output for state
func (d *DQN) qValues(state State) ([]float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.policy.forward(Features(state))
}

// Update stores the transition and, once the buffer holds a batch, trains
// on a random sample of it. Terminal transitions decay exploration.
func (d *DQN) Update(state State, action Action, reward float64, next State, terminal bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.replay.Add(Transition{
		State:     Features(state),
		Action:    action,
		Reward:    reward,
		NextState: Features(next),
		Done:      terminal,
	})
	d.TotalReward += reward
	if terminal {
		d.TrainingEpisode++
		d.Epsilon = math.Max(MinEpsilon, InitialEpsilon*math.Pow(EpsilonDecay, float64(d.TrainingEpisode)))
	}

	if d.replay.Len() < BatchSize {
		return
	}
	if err := d.trainOnBatch(d.replay.Sample(BatchSize)); err != nil {
		log.Printf("dqn: %v", err)
	}
}

func (d *DQN) trainOnBatch(batch []Transition) error {
	states := make([]float64, 0, len(batch)*InputFeatures)
	nextStates := make([]float64, 0, len(batch)*InputFeatures)
	for _, t := range batch {
		states = append(states, t.State...)
		nextStates = append(nextStates, t.NextState...)
	}

	nextQ, err := d.target.forward(nextStates)
	if err != nil {
		return err
	}

	targets := make([]float64, len(batch)*outputActions)
	mask := make([]float64, len(batch)*outputActions)
	for i, t := range batch {
		y := t.Reward
		if !t.Done {
			maxQ := math.Inf(-1)
			for _, v := range nextQ[i*outputActions : (i+1)*outputActions] {
				maxQ = math.Max(maxQ, v)
			}
			y += d.Discount * maxQ
		}
		targets[i*outputActions+int(t.Action)] = y
		mask[i*outputActions+int(t.Action)] = 1
	}

	if err := d.online.train(states, targets, mask, d.solver); err != nil {
		return err
	}
	blendWeights(d.policy, d.online, 1)
	blendWeights(d.target, d.online, targetTau)
	return nil
}

func (d *DQN) Stats() (int, float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.TrainingEpisode, d.TotalReward
}

// dqnFile is the gob encoding of a trained agent
type dqnFile struct {
	Weights         map[string][]float64
	Epsilon         float64
	TrainingEpisode int
}

// Save writes the online weights and exploration state with gob
func (d *DQN) Save(filename string) error {
	d.saveMu.Lock()
	defer d.saveMu.Unlock()

	d.mu.Lock()
	file := dqnFile{
		Weights:         make(map[string][]float64),
		Epsilon:         d.Epsilon,
		TrainingEpisode: d.TrainingEpisode,
	}
	for name, w := range d.online.weights() {
		file.Weights[name] = append([]float64(nil), w...)
	}
	d.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return errors.Wrap(err, "create weights directory")
	}
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "create weights file %s", filename)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(file); err != nil {
		return errors.Wrapf(err, "encode weights %s", filename)
	}
	return nil
}

// Load replaces all three networks' weights with the ones in filename
func (d *DQN) Load(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return errors.Wrapf(err, "open weights file %s", filename)
	}
	defer f.Close()

	var file dqnFile
	if err := gob.NewDecoder(f).Decode(&file); err != nil {
		return errors.Wrapf(err, "decode weights %s", filename)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	live := d.online.weights()
	for name, dst := range live {
		src, ok := file.Weights[name]
		if !ok || len(src) != len(dst) {
			return errors.Errorf("weights %s: %s does not match the network", filename, name)
		}
	}
	for name, dst := range live {
		copy(dst, file.Weights[name])
	}
	blendWeights(d.target, d.online, 1)
	blendWeights(d.policy, d.online, 1)
	d.Epsilon = file.Epsilon
	d.TrainingEpisode = file.TrainingEpisode
	return nil
}
