package ui

import (
	"DrawingApp/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// RunApp shows the drawing window and blocks until it is closed.
func RunApp(plane *state.Plane, bounds state.Bounds, shareLink string) {
	myApp := app.New()
	myWindow := myApp.NewWindow("DrawingApp")
	myWindow.Resize(fyne.NewSize(1100, 900))

	board := NewCanvasWidget(plane, bounds)
	panel := NewPropertyPanel(plane, BundledImage)
	boardSub := plane.SubscribeWith(board, board.Seed)
	panelSub := plane.SubscribeWith(panel, panel.Seed)
	defer plane.Unsubscribe(boardSub)
	defer plane.Unsubscribe(panelSub)

	status := widget.NewLabel("Ready")
	if shareLink != "" {
		status.SetText("Live feed: " + shareLink)
	}

	split := container.NewHSplit(panel.Content(), container.NewScroll(board))
	split.Offset = 0.22

	myWindow.SetContent(container.NewBorder(nil, status, nil, nil, split))
	myWindow.ShowAndRun()
}
