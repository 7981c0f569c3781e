package dispatch

// State is a step of a single dispatch.
//
//	Idle → Matching → {Disabled | Dropped | HelpRequested | Invoking} → Normalizing → Replied
type State int

const (
	StateIdle State = iota
	StateMatching
	StateDisabled
	StateDropped
	StateHelpRequested
	StateInvoking
	StateNormalizing
	StateReplied
)

var stateNames = [...]string{
	StateIdle:          "idle",
	StateMatching:      "matching",
	StateDisabled:      "disabled",
	StateDropped:       "dropped",
	StateHelpRequested: "help_requested",
	StateInvoking:      "invoking",
	StateNormalizing:   "normalizing",
	StateReplied:       "replied",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Terminal reports whether no further transition follows s.
func (s State) Terminal() bool {
	return s == StateDropped || s == StateReplied
}
