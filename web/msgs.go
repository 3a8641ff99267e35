package web

import (
	"encoding/json"

	codenames "github.com/bcspragu/codenames-table"
	"github.com/bcspragu/codenames-table/game"
)

var (
	agentNames = map[codenames.Agent]string{
		codenames.UnknownAgent: "",
		codenames.RedAgent:     "red",
		codenames.BlueAgent:    "blue",
		codenames.Bystander:    "bystander",
		codenames.Assassin:     "assassin",
	}
	teamNames = map[codenames.Team]string{
		codenames.NoTeam:   "",
		codenames.RedTeam:  "red",
		codenames.BlueTeam: "blue",
	}
)

type jsCard struct {
	Codename string `json:"codename"`
	Agent    string `json:"agent,omitempty"`
	Revealed bool   `json:"revealed"`
}

type jsState struct {
	Phase          codenames.Phase  `json:"phase"`
	FirstMover     string           `json:"first_mover"`
	Score          codenames.Score  `json:"score"`
	RemainingWords int              `json:"remaining_words"`
	// CanSubstitute is false once the game starts or the spare words run out,
	// at which point the board should only offer to start.
	CanSubstitute  bool             `json:"can_substitute"`
	Result         codenames.Result `json:"result,omitempty"`
	Winner         string           `json:"winner,omitempty"`
	Cards          [][]jsCard       `json:"cards"`
}

// toJSState converts a game snapshot into rows of cards. Unrevealed agents are
// hidden, the legend is only served to spymasters.
func toJSState(gs *codenames.GameState) *jsState {
	b := gs.Board.Hidden()
	cards := make([][]jsCard, b.Size)
	for i := 0; i < b.Size; i++ {
		for _, c := range b.Cards[i*b.Size : (i+1)*b.Size] {
			cards[i] = append(cards[i], jsCard{
				Codename: c.Codename,
				Agent:    agentNames[c.Agent],
				Revealed: c.Revealed,
			})
		}
	}

	return &jsState{
		Phase:          gs.Phase,
		FirstMover:     teamNames[gs.FirstMover],
		Score:          gs.Score,
		RemainingWords: gs.RemainingWords,
		CanSubstitute:  gs.Phase == codenames.PhaseSubstitution && gs.RemainingWords > 0,
		Result:         gs.Result,
		Winner:         teamNames[gs.Winner],
		Cards:          cards,
	}
}

type jsOutcome struct {
	Kind   game.OutcomeKind `json:"kind"`
	Card   jsCard           `json:"card"`
	Winner string           `json:"winner,omitempty"`
	Score  codenames.Score  `json:"score"`
	Phase  codenames.Phase  `json:"phase"`
}

func toJSOutcome(out *game.Outcome) *jsOutcome {
	c := jsCard{Codename: out.Card.Codename, Revealed: out.Card.Revealed}
	if out.Card.Revealed {
		c.Agent = agentNames[out.Card.Agent]
	}
	return &jsOutcome{
		Kind:   out.Kind,
		Card:   c,
		Winner: teamNames[out.Winner],
		Score:  out.Score,
		Phase:  out.Phase,
	}
}

type jsLegend struct {
	FirstMover string     `json:"first_mover"`
	Agents     [][]string `json:"agents"`
}

func toJSLegend(l *codenames.Legend) *jsLegend {
	agents := make([][]string, l.Size)
	for i := 0; i < l.Size; i++ {
		for j := 0; j < l.Size; j++ {
			agents[i] = append(agents[i], agentNames[l.At(i, j)])
		}
	}
	return &jsLegend{FirstMover: teamNames[l.FirstMover], Agents: agents}
}

// StateUpdate is pushed over the websocket whenever the game changes.
type StateUpdate struct {
	*jsState
}

func (su *StateUpdate) MarshalJSON() ([]byte, error) {
	return withAction("STATE", su.jsState)
}

// withAction marshals msg, which must encode to a JSON object, with an extra
// "action" key so clients know what they're looking at.
func withAction(action string, msg interface{}) ([]byte, error) {
	dat, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(dat, &fields); err != nil {
		return nil, err
	}
	if fields["action"], err = json.Marshal(action); err != nil {
		return nil, err
	}

	return json.Marshal(fields)
}
