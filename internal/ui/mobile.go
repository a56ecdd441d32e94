package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// isMobile reports whether the app runs on a phone or tablet
func isMobile() bool {
	if fyne.CurrentApp() == nil {
		return false
	}
	return fyne.CurrentDevice().IsMobile()
}

// actionBar lays out row buttons: a horizontal strip on desktop, a two-column
// grid with larger touch targets on mobile.
func actionBar(buttons ...*widget.Button) *fyne.Container {
	objects := make([]fyne.CanvasObject, 0, len(buttons))
	for _, b := range buttons {
		objects = append(objects, b)
	}
	if !isMobile() {
		return container.NewHBox(objects...)
	}
	grid := container.NewGridWithColumns(2, objects...)
	for _, b := range buttons {
		b.Resize(fyne.NewSize(b.MinSize().Width, MinTouchTargetSize))
	}
	return grid
}
