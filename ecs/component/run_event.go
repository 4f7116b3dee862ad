package component

type RunOutcome string

const (
	RunOutcomeDeath    RunOutcome = "death"
	RunOutcomeComplete RunOutcome = "complete"
)

// RunEvent is emitted once when a life ends. The game loop drains it to
// update run history and the completion panel.
type RunEvent struct {
	Outcome RunOutcome
	Elapsed float64
}

var RunEventComponent = NewComponent[RunEvent]()
