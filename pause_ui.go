package main

import (
	"image/color"
	"sync"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"

	"github.com/milk9111/dashrunner/common"
)

var (
	panelColor  = color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 200}
	buttonColor = color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255}
	textColor   = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// menuFace is the built-in basic font, so no theme fonts need loading.
func menuFace() *ebtext.Face {
	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)
	return &face
}

func menuButton(face *ebtext.Face, label string, onClick func()) *widget.Button {
	btnImg := imageui.NewNineSliceColor(buttonColor)
	return widget.NewButton(
		widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Pressed: btnImg}),
		widget.ButtonOpts.Text(label, face, &widget.ButtonTextColor{Idle: textColor}),
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			onClick()
		}),
	)
}

func menuText(face *ebtext.Face, label string) *widget.Text {
	return widget.NewText(
		widget.TextOpts.Text(label, face, textColor),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	)
}

// centeredPanel returns the root container and the vertical panel centered
// in it.
func centeredPanel() (*widget.Container, *widget.Container) {
	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(imageui.NewNineSliceColor(panelColor)),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(common.BaseWidth/3, common.BaseHeight/3),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)
	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(panel)
	return root, panel
}

// newPauseUI builds the pause menu: Resume, Restart and Quit.
func newPauseUI(g *Game) *ebitenui.UI {
	face := menuFace()
	root, panel := centeredPanel()
	panel.AddChild(menuText(face, "Paused"))
	panel.AddChild(menuButton(face, "Resume", g.togglePause))
	panel.AddChild(menuButton(face, "Restart", g.restart))
	panel.AddChild(menuButton(face, "Quit", func() { g.quit = true }))
	return &ebitenui.UI{Container: root}
}

// completeUI is the level-completed panel. It shows the run summary and can
// copy it to the clipboard.
type completeUI struct {
	ui      *ebitenui.UI
	details *widget.Text
	copyBtn *widget.Button
	summary RunSummary
}

func newCompleteUI(g *Game) *completeUI {
	c := &completeUI{}
	face := menuFace()
	root, panel := centeredPanel()
	panel.AddChild(menuText(face, "Level complete"))
	c.details = menuText(face, "")
	panel.AddChild(c.details)
	panel.AddChild(menuButton(face, "Restart", g.restart))
	c.copyBtn = menuButton(face, "Copy result", func() {
		if err := copyToClipboard(c.summary.String()); err != nil {
			g.log.Warn("clipboard unavailable", "err", err)
			c.setCopyLabel("Copy failed")
			return
		}
		c.setCopyLabel("Copied")
	})
	panel.AddChild(c.copyBtn)
	panel.AddChild(menuButton(face, "Quit", func() { g.quit = true }))
	c.ui = &ebitenui.UI{Container: root}
	return c
}

func (c *completeUI) Show(summary RunSummary) {
	c.summary = summary
	c.details.Label = summary.Details()
	c.setCopyLabel("Copy result")
}

func (c *completeUI) setCopyLabel(label string) {
	if text := c.copyBtn.Text(); text != nil {
		text.Label = label
	}
}

func (c *completeUI) Update() { c.ui.Update() }

func (c *completeUI) Draw(screen *ebiten.Image) { c.ui.Draw(screen) }

var (
	clipboardOnce sync.Once
	clipboardErr  error
)

func copyToClipboard(s string) error {
	clipboardOnce.Do(func() { clipboardErr = clipboard.Init() })
	if clipboardErr != nil {
		return clipboardErr
	}
	clipboard.Write(clipboard.FmtText, []byte(s))
	return nil
}
