package codenames

import (
	"errors"
	"strings"
)

const (
	// MinSize is the smallest board dimension that yields a sane split of
	// agents. Below it, the team counts are zero or negative.
	MinSize = 3
	// MaxSize bounds the board dimension, so that size*size can't overflow
	// and a typo doesn't allocate a huge board.
	MaxSize = 1000
	// DefaultSize is the dimension of a standard Codenames board.
	DefaultSize = 5
	// MaxWordLen is the exclusive upper bound on the length of a codename.
	MaxWordLen = 14
)

var (
	ErrInvalidSize            = errors.New("codenames: board size must be between 3 and 1000")
	ErrInsufficientVocabulary = errors.New("codenames: not enough unique words for board")
	ErrUnknownWord            = errors.New("codenames: word is not on the board")
	ErrWordNotFound           = errors.New("codenames: word to replace not found")
	ErrAlreadyRevealed        = errors.New("codenames: card has already been revealed")
	ErrSubstitutionExhausted  = errors.New("codenames: no replacement words left")
	ErrSubstitutionClosed     = errors.New("codenames: words can only be replaced before the game starts")
	ErrNotPlaying             = errors.New("codenames: game hasn't started yet")
	ErrAlreadyPlaying         = errors.New("codenames: game has already started")
	ErrSessionOver            = errors.New("codenames: game is over")
)

// Board contains the words of a game, and their hidden affiliations.
type Board struct {
	// Size is the number of rows (and columns) on the board.
	Size int `json:"size"`
	// Cards holds Size*Size cards in row-major order. The zeroth card
	// corresponds to the top-left, and the last card to the bottom-right.
	Cards []Card `json:"cards"`
}

// Card is a single game card, and its corresponding affiliation.
type Card struct {
	Codename string `json:"codename"`
	Agent    Agent  `json:"agent"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	Revealed bool   `json:"revealed"`
}

// Index returns the position of the card holding the given word, or -1.
func (b *Board) Index(word string) int {
	for i, c := range b.Cards {
		if strings.EqualFold(c.Codename, word) {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	if b == nil {
		return nil
	}
	cards := make([]Card, len(b.Cards))
	copy(cards, b.Cards)
	return &Board{Size: b.Size, Cards: cards}
}

// Hidden returns a copy of the board where unrevealed cards don't give away
// their agent. This is what operatives get to see.
func (b *Board) Hidden() *Board {
	out := b.Clone()
	for i, c := range out.Cards {
		if !c.Revealed {
			out.Cards[i].Agent = UnknownAgent
		}
	}
	return out
}

// Legend is the secret mapping from board position to agent. It's generated
// once per game and never changes.
type Legend struct {
	Size       int     `json:"size"`
	FirstMover Team    `json:"first_mover"`
	Agents     []Agent `json:"agents"`
}

// Counts returns how many cells belong to each agent type.
func (l *Legend) Counts() map[Agent]int {
	out := make(map[Agent]int)
	for _, a := range l.Agents {
		out[a]++
	}
	return out
}

// Score returns the initial number of cards each team has to reveal.
func (l *Legend) Score() Score {
	c := l.Counts()
	return Score{Red: c[RedAgent], Blue: c[BlueAgent]}
}

// At returns the agent at the given row and column.
func (l *Legend) At(row, col int) Agent {
	return l.Agents[row*l.Size+col]
}

// Clone returns a copy of the legend.
func (l *Legend) Clone() *Legend {
	if l == nil {
		return nil
	}
	agents := make([]Agent, len(l.Agents))
	copy(agents, l.Agents)
	return &Legend{Size: l.Size, FirstMover: l.FirstMover, Agents: agents}
}

// Score is the number of cards each team still has to find. Bystanders and
// the assassin aren't counted.
type Score struct {
	Red  int `json:"red"`
	Blue int `json:"blue"`
}

// Remaining returns the count for the team that owns the given agent.
func (s Score) Remaining(t Team) int {
	switch t {
	case RedTeam:
		return s.Red
	case BlueTeam:
		return s.Blue
	}
	return 0
}

// Total is the number of team cards left on the board.
func (s Score) Total() int {
	return s.Red + s.Blue
}

// Agent is the affiliation of a codename.
type Agent int

const (
	// UnknownAgent means we don't know who the codename belongs to.
	UnknownAgent Agent = iota
	// RedAgent means the codename belongs to an agent on the red team.
	RedAgent
	// BlueAgent means the codename belongs to an agent on the blue team.
	BlueAgent
	// Bystander means the codename doesn't belong to an agent.
	Bystander
	// Assassin means the codename belongs to the assassin.
	Assassin
)

func (a Agent) String() string {
	switch a {
	case UnknownAgent:
		return "Agent Status Unknown"
	case RedAgent:
		return "Red Agent"
	case BlueAgent:
		return "Blue Agent"
	case Bystander:
		return "Bystander"
	case Assassin:
		return "Assassin"
	}
	return ""
}

// Team returns the team an agent works for, NoTeam for bystanders and the
// assassin.
func (a Agent) Team() Team {
	switch a {
	case RedAgent:
		return RedTeam
	case BlueAgent:
		return BlueTeam
	}
	return NoTeam
}

type Team int

const (
	// NoTeam is an error case.
	NoTeam Team = iota
	RedTeam
	BlueTeam
)

func (t Team) String() string {
	switch t {
	case RedTeam:
		return "Red Team"
	case BlueTeam:
		return "Blue Team"
	}
	return ""
}

// Agent returns the agent type belonging to the team.
func (t Team) Agent() Agent {
	switch t {
	case RedTeam:
		return RedAgent
	case BlueTeam:
		return BlueAgent
	}
	return UnknownAgent
}

// Other returns the opposing team.
func (t Team) Other() Team {
	switch t {
	case RedTeam:
		return BlueTeam
	case BlueTeam:
		return RedTeam
	}
	return NoTeam
}

// Phase is where a game is in its lifecycle.
type Phase string

const (
	// PhaseSubstitution is before the game starts, words can still be swapped.
	PhaseSubstitution = Phase("SUBSTITUTION")
	// PhasePlaying means cards are being revealed.
	PhasePlaying = Phase("PLAYING")
	// PhaseFinished means a team won or the assassin was found. Nothing can
	// change anymore.
	PhaseFinished = Phase("FINISHED")
)

// Result is how a finished game ended.
type Result string

const (
	NoResult     = Result("")
	TeamWin      = Result("TEAM_WIN")
	Assassinated = Result("ASSASSINATED")
)

// GameState is a read-only snapshot of a game, for renderers.
type GameState struct {
	Phase          Phase  `json:"phase"`
	FirstMover     Team   `json:"first_mover"`
	Board          *Board `json:"board"`
	Score          Score  `json:"score"`
	RemainingWords int    `json:"remaining_words"`
	Result         Result `json:"result,omitempty"`
	// Winner is only set when Result == TeamWin.
	Winner Team `json:"winner,omitempty"`
}

// Clone returns a deep copy of the state.
func (gs *GameState) Clone() *GameState {
	if gs == nil {
		return nil
	}
	out := *gs
	out.Board = gs.Board.Clone()
	return &out
}
