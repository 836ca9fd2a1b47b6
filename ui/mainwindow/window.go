// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"fmt"
	goimage "image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"pose-editor/internal/app"
	"pose-editor/internal/editor"
	"pose-editor/internal/image"
	"pose-editor/internal/pose"
	"pose-editor/internal/version"
	"pose-editor/ui/canvas"
	"pose-editor/ui/panels"
	"pose-editor/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const appTitle = "Pose Editor"

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	state     *app.State
	prefs     *prefs.Prefs
	canvas    *canvas.PoseCanvas
	sidePanel *panels.SidePanel
	statusBar *widget.Label

	// Cancels background image loads when the window closes.
	ctx    context.Context
	cancel context.CancelFunc

	labelsItem *fyne.MenuItem
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow(appTitle)
	ctx, cancel := context.WithCancel(context.Background())

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  p,
		ctx:    ctx,
		cancel: cancel,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupShortcuts()
	mw.setupEventHandlers()

	win.Resize(fyne.NewSize(
		float32(p.FloatWithFallback(prefs.KeyWindowWidth, 1100)),
		float32(p.FloatWithFallback(prefs.KeyWindowHeight, 750)),
	))
	win.SetCloseIntercept(func() {
		mw.SavePreferences()
		mw.cancel()
		win.Close()
	})
	return mw
}

// PoseCanvas returns the pose canvas.
func (mw *MainWindow) PoseCanvas() *canvas.PoseCanvas {
	return mw.canvas
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewPoseCanvas(nil)
	mw.sidePanel = panels.NewSidePanel(mw.state, mw.canvas)
	mw.statusBar = widget.NewLabel("Open an image to start")

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.FolderOpenIcon(), mw.onOpenImage),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentUndoIcon(), mw.onUndo),
		widget.NewToolbarAction(theme.ContentRedoIcon(), mw.onRedo),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ZoomOutIcon(), mw.onZoomOut),
		widget.NewToolbarAction(theme.ZoomInIcon(), mw.onZoomIn),
		widget.NewToolbarAction(theme.ZoomFitIcon(), mw.onActualSize),
	)

	canvasArea := container.NewBorder(toolbar, nil, nil, nil, mw.canvas)

	split := container.NewHSplit(mw.sidePanel.Container(), canvasArea)
	split.SetOffset(0.25)

	content := container.NewBorder(
		nil,
		container.NewPadded(mw.statusBar),
		nil,
		nil,
		split,
	)
	mw.SetContent(content)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mw.onOpenImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Keypoints", mw.onSave),
		fyne.NewMenuItem("Export Keypoints...", mw.onExportPoints),
		fyne.NewMenuItem("Export PNG...", mw.onExportPNG),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.SavePreferences(); mw.app.Quit() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", mw.onUndo),
		fyne.NewMenuItem("Redo", mw.onRedo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Reset to Detected", mw.onReset),
	)

	mw.labelsItem = fyne.NewMenuItem("Show Labels", mw.onToggleLabels)
	mw.labelsItem.Checked = mw.prefs.Bool(prefs.KeyShowLabels, false)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.onZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.onZoomOut),
		fyne.NewMenuItem("Actual Size", mw.onActualSize),
		fyne.NewMenuItemSeparator(),
		mw.labelsItem,
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu))
}

// setupShortcuts binds the usual editing keys.
func (mw *MainWindow) setupShortcuts() {
	c := mw.Window.Canvas()
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { mw.onUndo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { mw.onRedo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { mw.onSave() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { mw.onOpenImage() })
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventImageLoaded, func(data interface{}) {
		if sess, ok := data.(*app.Session); ok {
			mw.SetTitle(appTitle + " - " + filepath.Base(sess.ImagePath))
			mw.updateStatus(fmt.Sprintf("Opened %s (%dx%d)", filepath.Base(sess.ImagePath), sess.Width, sess.Height))
		}
	})

	mw.state.On(app.EventPointsDetected, func(data interface{}) {
		points, ok := data.(pose.PointSet)
		if !ok {
			return
		}
		mw.startEditor(points)
	})

	mw.state.On(app.EventPointsChanged, func(interface{}) {
		mw.markModified(true)
	})

	mw.state.On(app.EventPointsSaved, func(data interface{}) {
		mw.markModified(false)
		if ps, ok := data.(pose.PointSet); ok {
			mw.updateStatus(fmt.Sprintf("Saved %d keypoints", len(ps)))
		}
	})
}

// startEditor opens an editor on the active session's points.
func (mw *MainWindow) startEditor(points pose.PointSet) {
	sess := mw.state.Session()
	if sess == nil {
		return
	}

	cfg := editor.Config{
		Points:       points,
		OnChange:     mw.state.CommitPoints,
		OnSave:       mw.savePoints,
		HitRadius:    mw.prefs.FloatWithFallback(prefs.KeyHitRadius, editor.DefaultHitRadius),
		HistoryLimit: mw.prefs.Int(prefs.KeyHistoryLimit, 0),
	}
	if sess.Image != nil {
		cfg.Image = sess.Image.Image
	}
	ed := editor.New(cfg)
	ed.SetZoom(mw.prefs.FloatWithFallback(prefs.KeyZoom, 1))
	ed.SetShowLabels(mw.prefs.Bool(prefs.KeyShowLabels, false))

	mw.canvas.SetEditor(ed)
	mw.sidePanel.Sync()

	if sess.Image == nil {
		path := sess.ImagePath
		ed.LoadImage(mw.ctx, image.Loader(path), func() {
			log.Printf("Image load: %s ready", path)
			mw.canvas.Refresh()
			mw.sidePanel.Sync()
		})
	}
}

func (mw *MainWindow) savePoints(points pose.PointSet) {
	if err := mw.state.SavePoints(points, ""); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

func (mw *MainWindow) markModified(modified bool) {
	title := mw.Title()
	has := strings.HasSuffix(title, " *")
	switch {
	case modified && !has:
		mw.SetTitle(title + " *")
	case !modified && has:
		mw.SetTitle(strings.TrimSuffix(title, " *"))
	}
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDir)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefs.KeyLastDir, filepath.Dir(filePath))
}

// OpenImage starts a session for the image at path.
func (mw *MainWindow) OpenImage(path string) {
	if err := mw.state.OpenImage(path); err != nil {
		log.Printf("Failed to open image %s: %v", path, err)
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.saveLastDir(path)
}

// SavePreferences stores view settings and the window size.
func (mw *MainWindow) SavePreferences() {
	if ed := mw.canvas.Editor(); ed != nil {
		mw.prefs.SetFloat(prefs.KeyZoom, ed.Zoom())
		mw.prefs.SetBool(prefs.KeyShowLabels, ed.ShowLabels())
	}
	size := mw.Window.Canvas().Size()
	mw.prefs.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
	mw.prefs.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
	if err := mw.prefs.Save(); err != nil {
		log.Printf("Failed to save preferences: %v", err)
	}
}

// Menu action handlers

func (mw *MainWindow) onOpenImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		mw.OpenImage(reader.URI().Path())
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(image.SupportedFormats()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSave() {
	if ed := mw.canvas.Editor(); ed != nil {
		ed.Save()
	}
}

func (mw *MainWindow) onExportPoints() {
	ed := mw.canvas.Editor()
	if ed == nil {
		mw.updateStatus("Nothing to export")
		return
	}
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ".json" {
			path += ".json"
		}
		mw.saveLastDir(path)
		if err := mw.state.SavePoints(ed.Committed(), path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Exported keypoints to " + path)
	}, mw.Window)
	fd.SetFileName("keypoints.json")
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onExportPNG() {
	out := mw.canvas.RenderedOutput()
	if out == nil {
		mw.updateStatus("Nothing to export")
		return
	}
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if err := writePNG(path, out); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.saveLastDir(path)
		mw.updateStatus("Exported " + path)
	}, mw.Window)
	fd.SetFileName("pose.png")
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func writePNG(path string, img goimage.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return f.Close()
}

func (mw *MainWindow) onUndo() {
	mw.withEditor(func(ed *editor.Editor) { ed.Undo() })
}

func (mw *MainWindow) onRedo() {
	mw.withEditor(func(ed *editor.Editor) { ed.Redo() })
}

func (mw *MainWindow) onReset() {
	mw.withEditor(func(ed *editor.Editor) { ed.ResetToOriginal() })
}

func (mw *MainWindow) onZoomIn() {
	mw.canvas.ZoomIn()
	mw.sidePanel.Sync()
}

func (mw *MainWindow) onZoomOut() {
	mw.canvas.ZoomOut()
	mw.sidePanel.Sync()
}

func (mw *MainWindow) onActualSize() {
	mw.withEditor(func(ed *editor.Editor) { ed.SetZoom(1) })
}

func (mw *MainWindow) onToggleLabels() {
	mw.withEditor(func(ed *editor.Editor) {
		ed.ToggleLabels()
		mw.labelsItem.Checked = ed.ShowLabels()
	})
	if menu := mw.MainMenu(); menu != nil {
		menu.Refresh()
	}
}

// withEditor applies fn to the active editor and refreshes the views.
func (mw *MainWindow) withEditor(fn func(*editor.Editor)) {
	ed := mw.canvas.Editor()
	if ed == nil {
		return
	}
	fn(ed)
	mw.canvas.Refresh()
	mw.sidePanel.Sync()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+appTitle,
		fmt.Sprintf("%s v%s\n\n"+
			"Adjust detected body keypoints on a reference photo.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			appTitle, version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
