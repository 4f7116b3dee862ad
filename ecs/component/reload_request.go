package component

// ReloadRequest asks the game loop to rebuild the current level. Systems
// create a short-lived entity carrying it.
type ReloadRequest struct {
	Reason string
}

var ReloadRequestComponent = NewComponent[ReloadRequest]()

// PauseRequest asks the game loop to toggle pause.
type PauseRequest struct{}

var PauseRequestComponent = NewComponent[PauseRequest]()
