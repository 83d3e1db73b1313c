// Command desktop opens the to-do list in a native window.
package main

import (
	"flag"
	"os"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"github.com/charmbracelet/log"

	"github.com/MihkelHunter/tasklist/internal/app"
	"github.com/MihkelHunter/tasklist/internal/desktop"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config.toml")
		logLevel   = flag.String("log-level", "", "debug, info, warn or error")
		ephemeral  = flag.Bool("ephemeral", false, "keep tasks in memory only")
	)
	flag.Parse()

	a, err := app.Open(app.Options{
		ConfigPath: *configPath,
		LogLevel:   *logLevel,
		Ephemeral:  *ephemeral,
		LogOutput:  os.Stderr,
	})
	if err != nil {
		log.Fatal("startup failed", "err", err)
	}
	defer a.Close()

	fa := fyneapp.New()
	fa.Settings().SetTheme(desktop.DarkTheme{})

	win := fa.NewWindow("mkToDo")
	win.Resize(fyne.NewSize(560, 640))
	win.CenterOnScreen()

	ui := desktop.New(a.Service, win, a.Logger)
	win.SetContent(ui.Content())
	win.Canvas().Focus(ui.Input())

	win.ShowAndRun()
}
