package ui

import (
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	log "github.com/sirupsen/logrus"

	"calculator/internal/calc"
	"calculator/internal/config"
	"calculator/internal/ui/cwidget"
	"calculator/processing/engine"
	"calculator/processing/recognizer"
)

type CalcApp struct {
	fyneApp fyne.App
	mainWin fyne.Window

	config     *config.Config
	configPath string
	model      engine.LoadResult
	log        *log.Entry

	calc    *calc.Calculator
	pad     *cwidget.PaintPad
	display *widget.Entry
	buttons map[calc.Command]*widget.Button

	shutdownOnce sync.Once
}

func CreateApp(cfg *config.Config, cfgPath string, model engine.LoadResult, entry *log.Entry) *CalcApp {
	return NewCalcApp(app.New(), cfg, cfgPath, model, entry)
}

// NewCalcApp builds the window on fyneApp. The app owns model from here on
// and releases it in Shutdown.
func NewCalcApp(fyneApp fyne.App, cfg *config.Config, cfgPath string, model engine.LoadResult, entry *log.Entry) *CalcApp {
	w := fyneApp.NewWindow("Handwriting Calculator")
	w.Resize(fyne.NewSize(float32(cfg.WinWidth), float32(cfg.WinHeight)))

	a := &CalcApp{
		fyneApp:    fyneApp,
		mainWin:    w,
		config:     cfg,
		configPath: cfgPath,
		model:      model,
		log:        entry,
		buttons:    make(map[calc.Command]*widget.Button),
	}

	a.pad = cwidget.NewPaintPad(cfg.PadSize, cfg.GetBrushWidth)

	var rec calc.Recognizer
	if model.Ready() {
		rec = recognizer.New(model.Model)
	} else {
		entry.WithError(model.Err).Warn("[UI] Model not loaded, recognition disabled")
	}
	a.calc = calc.New(a.pad, rec, entry)

	w.SetContent(a.build())
	w.SetCloseIntercept(func() {
		a.Shutdown()
		w.Close()
	})

	return a
}

func (a *CalcApp) Run() {
	a.mainWin.CenterOnScreen()
	a.mainWin.ShowAndRun()
	a.Shutdown()
}

func (a *CalcApp) build() fyne.CanvasObject {
	a.display = widget.NewEntry()
	a.display.SetPlaceHolder("Draw a digit and press Predict")
	a.display.OnChanged = a.calc.SetText

	for _, cmd := range calc.Commands {
		cmd := cmd
		a.buttons[cmd] = widget.NewButton(cmd.String(), func() { a.Press(cmd) })
	}
	a.buttons[calc.CmdPredict].SetIcon(theme.SearchIcon())
	a.buttons[calc.CmdPredict].Importance = widget.HighImportance
	a.buttons[calc.CmdClear].SetIcon(theme.ContentClearIcon())

	operators := container.NewGridWithColumns(4,
		a.buttons[calc.CmdAdd],
		a.buttons[calc.CmdSubtract],
		a.buttons[calc.CmdMultiply],
		a.buttons[calc.CmdDivide],
	)

	actions := container.NewGridWithColumns(4,
		a.buttons[calc.CmdClear],
		a.buttons[calc.CmdBackspace],
		a.buttons[calc.CmdEquals],
		a.buttons[calc.CmdPredict],
	)

	brushInput := cwidget.NewIntInput("Brush", a.config.GetBrushWidth(), 1, a.config.PadSize/4, a.config.SetBrushWidth)

	status := widget.NewLabel(a.modelStatus())
	status.TextStyle = fyne.TextStyle{Italic: true}

	return container.NewBorder(
		container.NewVBox(a.display, widget.NewSeparator()),
		container.NewVBox(operators, actions, widget.NewSeparator(), brushInput, status),
		nil, nil,
		container.NewCenter(a.pad),
	)
}

func (a *CalcApp) modelStatus() string {
	if !a.model.Ready() {
		return calc.MsgModelNotLoaded
	}
	info := a.model.Model.Info()
	return fmt.Sprintf("Model: %s (%s)", info.Engine, info.Source)
}

// Press runs cmd and shows the resulting buffer.
func (a *CalcApp) Press(cmd calc.Command) {
	a.display.SetText(a.calc.Do(cmd))
}

// Shutdown saves the brush width and releases the model; later calls do nothing.
func (a *CalcApp) Shutdown() {
	a.shutdownOnce.Do(func() {
		if a.configPath != "" {
			if err := a.config.SaveBrushWidth(a.configPath); err != nil {
				a.log.WithError(err).Warn("[UI] Couldn't save config")
			}
		}
		if err := a.model.Close(); err != nil {
			a.log.WithError(err).Warn("[UI] Couldn't release model")
		}
	})
}

func (a *CalcApp) Text() string { return a.display.Text }
