package system

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/dashrunner/ecs"
	"github.com/milk9111/dashrunner/ecs/component"
	"github.com/milk9111/dashrunner/prefabs"
)

// Contact actions a dispatch script may return.
const (
	ContactActionNone     = ""
	ContactActionLand     = "land"
	ContactActionDie      = "die"
	ContactActionComplete = "complete"
)

// RunnerContactSystem reacts to contacts that began during the last physics
// step. It runs after physics.
type RunnerContactSystem struct {
	scripts map[string]*contactScript
	log     *log.Logger
}

type contactScript struct {
	compiled *tengo.Compiled
}

func NewRunnerContactSystem(logger *log.Logger) *RunnerContactSystem {
	return &RunnerContactSystem{scripts: map[string]*contactScript{}, log: logger}
}

func (cs *RunnerContactSystem) Update(w *ecs.World) {
	if cs == nil || w == nil {
		return
	}
	ecs.ForEach2(w, component.RunnerStateComponent.Kind(), component.ContactsComponent.Kind(), func(e ecs.Entity, state *component.RunnerState, contacts *component.Contacts) {
		begun := contacts.Begun
		contacts.Begun = nil
		for _, contact := range begun {
			if state.Dead || state.Completed {
				return
			}
			cs.dispatch(w, e, state, contact)
		}
	})
}

func (cs *RunnerContactSystem) dispatch(w *ecs.World, e ecs.Entity, state *component.RunnerState, contact component.Contact) {
	action := DefaultContactAction(contact.Tag, state.Grounded)
	if script, ok := ecs.Get(w, e, component.ContactScriptComponent.Kind()); ok && strings.TrimSpace(script.Path) != "" {
		scripted, err := cs.resolve(script.Path, contact.Tag, state.Grounded)
		if err != nil {
			if cs.log != nil {
				cs.log.Warn("contact script failed, using built-in rules", "script", script.Path, "err", err)
			}
		} else {
			action = scripted
		}
	}

	switch action {
	case ContactActionLand:
		if runner, ok := ecs.Get(w, e, component.RunnerComponent.Kind()); ok {
			PlaySFXPitched(w, e, component.ClipLand, runner.LandPitch.Min, runner.LandPitch.Max)
		}
	case ContactActionDie:
		Die(w, e)
	case ContactActionComplete:
		CompleteLevel(w, e)
	}
}

// DefaultContactAction maps a collider tag to an action. Landing only counts
// when the runner was already grounded before the contact.
func DefaultContactAction(tag string, grounded bool) string {
	switch tag {
	case component.TagGround:
		if grounded {
			return ContactActionLand
		}
	case component.TagObstacle:
		return ContactActionDie
	case component.TagGoal:
		return ContactActionComplete
	}
	return ContactActionNone
}

func (cs *RunnerContactSystem) resolve(path, tag string, grounded bool) (string, error) {
	script, err := cs.script(path)
	if err != nil {
		return "", err
	}
	if err := script.compiled.Set("tag", tag); err != nil {
		return "", fmt.Errorf("set tag: %w", err)
	}
	if err := script.compiled.Set("grounded", grounded); err != nil {
		return "", fmt.Errorf("set grounded: %w", err)
	}
	if err := script.compiled.Run(); err != nil {
		return "", fmt.Errorf("run: %w", err)
	}
	if !script.compiled.IsDefined("action") {
		return "", fmt.Errorf("script does not define action")
	}
	return strings.TrimSpace(script.compiled.Get("action").String()), nil
}

func (cs *RunnerContactSystem) script(path string) (*contactScript, error) {
	if s, ok := cs.scripts[path]; ok {
		return s, nil
	}

	src, err := prefabs.LoadScript(path)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", path, err)
	}
	script := tengo.NewScript(src)
	_ = script.Add("tag", "")
	_ = script.Add("grounded", false)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", path, err)
	}
	s := &contactScript{compiled: compiled}
	cs.scripts[path] = s
	return s, nil
}

// ForgetScripts drops compiled scripts so edited files are picked up.
func (cs *RunnerContactSystem) ForgetScripts() {
	if cs == nil {
		return
	}
	cs.scripts = map[string]*contactScript{}
}
