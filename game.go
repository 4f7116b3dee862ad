package main

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/dashrunner/assets"
	"github.com/milk9111/dashrunner/config"
	"github.com/milk9111/dashrunner/ecs"
	"github.com/milk9111/dashrunner/ecs/component"
	"github.com/milk9111/dashrunner/ecs/entity"
	"github.com/milk9111/dashrunner/ecs/render"
	"github.com/milk9111/dashrunner/ecs/system"
	"github.com/milk9111/dashrunner/levels"
	"github.com/milk9111/dashrunner/prefabs"
	"github.com/milk9111/dashrunner/storage"
)

type Game struct {
	cfg       config.Config
	log       *log.Logger
	levelName string

	world     *ecs.World
	scheduler *ecs.Scheduler
	physics   *system.PhysicsSystem
	contacts  *system.RunnerContactSystem
	render    *system.RenderSystem

	store   *storage.Store
	watcher *prefabs.Watcher

	paused    bool
	completed bool
	quit      bool
	deaths    int
	summary   RunSummary

	pauseUI    *ebitenui.UI
	completeUI *completeUI
}

// GameOptions carries the services main wires in. Store and Watcher are
// optional.
type GameOptions struct {
	Config  config.Config
	Logger  *log.Logger
	Store   *storage.Store
	Watcher *prefabs.Watcher
}

func NewGame(opts GameOptions) (*Game, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	cfg := opts.Config

	var rng *rand.Rand
	if cfg.Seed != 0 {
		rng = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	}
	speaker := assets.NewSpeaker()
	speaker.SetGain(cfg.SFXGain())

	physics := system.NewPhysicsSystem(logger.WithPrefix("physics"))
	contacts := system.NewRunnerContactSystem(logger.WithPrefix("runner"))
	g := &Game{
		cfg:       cfg,
		log:       logger,
		levelName: strings.TrimSuffix(cfg.Level, ".json"),
		physics:   physics,
		contacts:  contacts,
		render:    system.NewRenderSystem(),
		store:     opts.Store,
		watcher:   opts.Watcher,
	}
	g.scheduler = ecs.NewScheduler(
		system.NewInputSystem(),
		system.NewRunnerSystem(physics, logger.WithPrefix("runner")),
		system.NewRunnerMotionSystem(),
		physics,
		contacts,
		system.NewRestartSystem(),
		system.NewCameraSystem(),
		system.NewSFXSystem(speaker, rng, logger.WithPrefix("sfx")),
		system.NewMusicSystem(nil, logger.WithPrefix("music")),
	)
	g.pauseUI = newPauseUI(g)
	g.completeUI = newCompleteUI(g)

	if err := g.loadLevel(nil); err != nil {
		return nil, err
	}
	return g, nil
}

// loadLevel builds a fresh world for the current level. music carries the
// playing track across reloads.
func (g *Game) loadLevel(music *component.MusicPlayer) error {
	lvl, err := levels.Load(g.levelName)
	if err != nil {
		return fmt.Errorf("game: %w", err)
	}

	world := ecs.NewWorld()
	if err := entity.LoadLevelToWorld(world, lvl); err != nil {
		return fmt.Errorf("game: build level %q: %w", g.levelName, err)
	}
	if music != nil {
		_, err = entity.NewMusicPlayerFromState(world, music)
	} else {
		_, err = entity.NewMusicPlayer(world)
		if player := entity.CurrentMusicPlayer(world); player != nil {
			player.MasterVolume *= g.cfg.MusicGain()
		}
	}
	if err != nil {
		return fmt.Errorf("game: %w", err)
	}

	g.physics.Reset()
	g.world = world
	g.paused = false
	g.completed = false
	return nil
}

func (g *Game) reload(reason string) {
	music := entity.CloneMusicPlayerState(entity.CurrentMusicPlayer(g.world))
	if err := g.loadLevel(music); err != nil {
		g.log.Error("reload failed, keeping current level", "level", g.levelName, "reason", reason, "err", err)
		return
	}
	g.log.Debug("level reloaded", "level", g.levelName, "reason", reason)
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}

	if name, ok := g.watcher.Poll(); ok {
		g.log.Info("file changed, reloading", "file", name)
		g.contacts.ForgetScripts()
		render.ForgetImages()
		g.reload("watch")
		return nil
	}

	if g.paused {
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			g.paused = false
		}
		g.pauseUI.Update()
		g.handleReload()
		return nil
	}

	g.scheduler.Update(g.world)

	if system.DrainPauseRequests(g.world)%2 == 1 {
		g.paused = true
	}
	for _, ev := range system.DrainRunEvents(g.world) {
		g.onRunEvent(ev)
	}
	if g.completed {
		g.completeUI.Update()
	}
	g.handleReload()
	return nil
}

func (g *Game) handleReload() {
	if reason, ok := system.DrainReloadRequest(g.world); ok {
		g.reload(reason)
	}
}

func (g *Game) onRunEvent(ev component.RunEvent) {
	jumps := 0
	if player, ok := entity.FindPlayer(g.world); ok {
		if state, ok := ecs.Get(g.world, player, component.RunnerStateComponent.Kind()); ok {
			jumps = state.Jumps
		}
	}

	outcome := storage.OutcomeDeath
	if ev.Outcome == component.RunOutcomeComplete {
		outcome = storage.OutcomeComplete
	} else {
		g.deaths++
	}
	g.recordRun(storage.Run{Level: g.levelName, Outcome: outcome, Elapsed: ev.Elapsed, Jumps: jumps})

	if ev.Outcome != component.RunOutcomeComplete {
		return
	}
	g.completed = true
	g.summary = RunSummary{Level: g.levelName, Elapsed: ev.Elapsed, Deaths: g.deaths, Jumps: jumps}
	if g.store != nil {
		if best, ok, err := g.store.BestTime(g.levelName); err == nil && ok {
			g.summary.Best = best
		}
	}
	g.completeUI.Show(g.summary)
	g.log.Info("level complete", "level", g.levelName, "time", fmt.Sprintf("%.2fs", ev.Elapsed), "deaths", g.deaths)
}

func (g *Game) recordRun(run storage.Run) {
	if g.store == nil {
		return
	}
	if _, err := g.store.RecordRun(run); err != nil {
		g.log.Warn("could not record run", "level", run.Level, "err", err)
	}
}

func (g *Game) togglePause() {
	g.paused = !g.paused
}

func (g *Game) restart() {
	g.paused = false
	system.RestartLevel(g.world)
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.render.Draw(g.world, screen)

	if g.cfg.Debug {
		system.DrawPhysicsDebug(g.physics.Space(), g.world, screen)
		system.DrawGroundCheckGizmo(g.world, screen)
	}

	ebitenutil.DebugPrint(screen, g.hud())

	if g.paused {
		g.pauseUI.Draw(screen)
	}
	if g.completed {
		g.completeUI.Draw(screen)
	}
}

func (g *Game) hud() string {
	elapsed := 0.0
	if player, ok := entity.FindPlayer(g.world); ok {
		if state, ok := ecs.Get(g.world, player, component.RunnerStateComponent.Kind()); ok {
			elapsed = state.Elapsed
		}
	}
	line := fmt.Sprintf("%s   time %s   deaths %d", g.levelName, formatSeconds(elapsed), g.deaths)
	if g.cfg.Debug {
		line += fmt.Sprintf("   FPS %.0f", ebiten.ActualFPS())
	}
	return line
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return float64(g.cfg.Window.Width), float64(g.cfg.Window.Height)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Window.Width, g.cfg.Window.Height
}
