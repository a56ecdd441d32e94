package config

import (
	"testing"

	"fyne.io/fyne/v2/test"
)

func TestPreferences_InitUsesSystemSchemeWhenUnset(t *testing.T) {
	app := test.NewApp()
	prefs := NewPreferences(app.Preferences(), func() bool { return true })

	var notified []bool
	prefs.OnThemeChange(func(dark bool) { notified = append(notified, dark) })
	prefs.Init()

	if !prefs.IsDarkMode() {
		t.Error("Expected system dark scheme to apply when nothing is saved")
	}
	if len(notified) != 1 || !notified[0] {
		t.Errorf("Expected one dark notification, got %v", notified)
	}
}

func TestPreferences_InitPrefersSavedTheme(t *testing.T) {
	app := test.NewApp()
	app.Preferences().SetString(KeyTheme, ThemeLight)

	prefs := NewPreferences(app.Preferences(), func() bool { return true })
	prefs.Init()

	if prefs.IsDarkMode() {
		t.Error("Expected saved light theme to win over system scheme")
	}
}

func TestPreferences_ToggleAndPersist(t *testing.T) {
	app := test.NewApp()
	prefs := NewPreferences(app.Preferences(), nil)
	prefs.Init()

	prefs.ToggleDarkMode()
	if !prefs.IsDarkMode() {
		t.Error("Expected dark mode after toggle")
	}
	if app.Preferences().String(KeyTheme) != ThemeDark {
		t.Errorf("Expected persisted theme %q, got %q", ThemeDark, app.Preferences().String(KeyTheme))
	}

	prefs.ToggleDarkMode()
	if prefs.IsDarkMode() || app.Preferences().String(KeyTheme) != ThemeLight {
		t.Error("Expected light mode after second toggle")
	}
}

func TestPreferences_LanguageObservers(t *testing.T) {
	app := test.NewApp()
	prefs := NewPreferences(app.Preferences(), nil)

	var seen []string
	unsubscribe := prefs.OnLanguageChange(func(lang string) { seen = append(seen, lang) })

	prefs.SetLanguage("uk")
	unsubscribe()
	prefs.SetLanguage("en")

	if len(seen) != 1 || seen[0] != "uk" {
		t.Errorf("Expected [uk], got %v", seen)
	}
	if prefs.Language() != "en" {
		t.Errorf("Expected current language en, got %s", prefs.Language())
	}
	if app.Preferences().String(KeyLanguage) != "en" {
		t.Error("Expected language to be persisted")
	}
}

func TestPreferences_IndependentInstances(t *testing.T) {
	a := NewPreferences(test.NewApp().Preferences(), nil)
	b := NewPreferences(test.NewApp().Preferences(), nil)

	a.SetDarkMode(true)
	if b.IsDarkMode() {
		t.Error("Expected instances not to share state")
	}
}
