package ai

import "github.com/pkg/errors"

// Agent kinds selectable from the command line
const (
	AgentTable = "table"
	AgentDQN   = "dqn"
)

// Agent is a learner the autopilot and trainer can drive. Implementations
// must be safe for concurrent use by several trainer workers.
type Agent interface {
	// GetAction may explore; BestAction never does. Neither returns forbidden.
	GetAction(state State, forbidden Action) Action
	BestAction(state State, forbidden Action) Action
	Update(state State, action Action, reward float64, next State, terminal bool)
	Save(filename string) error
	Load(filename string) error
	// Stats reports finished games and the reward collected so far
	Stats() (games int, totalReward float64)
}

// NewAgent builds an agent of the given kind
func NewAgent(kind string, seed uint64) (Agent, error) {
	switch kind {
	case AgentTable, "":
		return NewQLearning(seed), nil
	case AgentDQN:
		return NewDQN(seed)
	default:
		return nil, errors.Errorf("unknown agent %q (want %s or %s)", kind, AgentTable, AgentDQN)
	}
}

// AgentFile is the file name an agent kind is persisted under
func AgentFile(kind string) string {
	if kind == AgentDQN {
		return "dqn_weights.gob"
	}
	return "qtable.json"
}
