package ui

import (
	"fyne.io/fyne/v2"
)

// AppIcon is the logo file looked up next to the binary
const AppIcon = "yt-jobtracker.png"

// LoadLogoResource loads the logo from the working directory
func LoadLogoResource() (fyne.Resource, error) {
	return fyne.LoadResourceFromPath(AppIcon)
}
