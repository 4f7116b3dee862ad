package system

import (
	"github.com/milk9111/dashrunner/ecs"
	"github.com/milk9111/dashrunner/ecs/component"
)

// RequestReload asks the game loop to rebuild the current level.
func RequestReload(w *ecs.World, reason string) {
	if w == nil {
		return
	}
	ent := ecs.CreateEntity(w)
	_ = ecs.Add(w, ent, component.ReloadRequestComponent.Kind(), &component.ReloadRequest{Reason: reason})
}

// RequestPause asks the game loop to toggle pause.
func RequestPause(w *ecs.World) {
	if w == nil {
		return
	}
	ent := ecs.CreateEntity(w)
	_ = ecs.Add(w, ent, component.PauseRequestComponent.Kind(), &component.PauseRequest{})
}

func emitRunEvent(w *ecs.World, outcome component.RunOutcome, elapsed float64) {
	ent := ecs.CreateEntity(w)
	_ = ecs.Add(w, ent, component.RunEventComponent.Kind(), &component.RunEvent{Outcome: outcome, Elapsed: elapsed})
}

// DrainRunEvents removes and returns every pending run event.
func DrainRunEvents(w *ecs.World) []component.RunEvent {
	var events []component.RunEvent
	ecs.ForEach(w, component.RunEventComponent.Kind(), func(e ecs.Entity, ev *component.RunEvent) {
		events = append(events, *ev)
		ecs.DestroyEntity(w, e)
	})
	return events
}

// DrainReloadRequest removes pending reload requests and reports the reason
// of the last one.
func DrainReloadRequest(w *ecs.World) (string, bool) {
	reason, found := "", false
	ecs.ForEach(w, component.ReloadRequestComponent.Kind(), func(e ecs.Entity, req *component.ReloadRequest) {
		reason, found = req.Reason, true
		ecs.DestroyEntity(w, e)
	})
	return reason, found
}

// DrainPauseRequests removes pending pause toggles and returns how many there
// were.
func DrainPauseRequests(w *ecs.World) int {
	n := 0
	ecs.ForEach(w, component.PauseRequestComponent.Kind(), func(e ecs.Entity, _ *component.PauseRequest) {
		n++
		ecs.DestroyEntity(w, e)
	})
	return n
}
