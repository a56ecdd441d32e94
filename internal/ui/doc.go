// Package ui contains the Fyne desktop front end. It submits URLs through the
// job tracker, renders one row per tracked job from store change events, and
// hands finished artifacts to a local sink. All strings go through Localization.
package ui
