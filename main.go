// Package main provides the entry point for the Pose Editor application.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"pose-editor/internal/app"
	"pose-editor/internal/version"
	"pose-editor/ui/mainwindow"
	"pose-editor/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
)

const appID = "com.example.pose-editor"

func main() {
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [image]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s", version.String())

	a := fyneapp.NewWithID(appID)
	a.Settings().SetTheme(&app.PoseEditorTheme{})

	appState := app.NewState()
	appPrefs := prefs.Load()
	log.Printf("Preferences: %s", appPrefs.Path())

	win := mainwindow.New(a, appState, appPrefs)

	if flag.NArg() > 0 {
		win.OpenImage(flag.Arg(0))
	}

	win.ShowAndRun()
}
