package config

import (
	"sync"

	"fyne.io/fyne/v2"
)

// Persisted theme values
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Preferences holds theme and language state for the presentation layer.
// It is constructed once and passed to every consumer; consumers register
// observers instead of polling.
type Preferences struct {
	prefs      fyne.Preferences
	systemDark func() bool

	mu        sync.Mutex
	dark      bool
	language  string
	themeObs  map[uint64]func(bool)
	langObs   map[uint64]func(string)
	nextObsID uint64
}

// NewPreferences creates preferences backed by a Fyne preferences store.
// systemDark reports the OS color scheme and is consulted when no theme
// was ever saved; nil means light.
func NewPreferences(prefs fyne.Preferences, systemDark func() bool) *Preferences {
	if systemDark == nil {
		systemDark = func() bool { return false }
	}
	return &Preferences{
		prefs:      prefs,
		systemDark: systemDark,
		language:   DefaultLanguage,
		themeObs:   make(map[uint64]func(bool)),
		langObs:    make(map[uint64]func(string)),
	}
}

// Init reads the persisted theme and language and notifies current observers.
func (p *Preferences) Init() {
	saved := p.prefs.String(KeyTheme)
	dark := p.systemDark()
	if saved != "" {
		dark = saved == ThemeDark
	}
	lang := p.prefs.StringWithFallback(KeyLanguage, DefaultLanguage)

	p.mu.Lock()
	p.dark = dark
	p.language = lang
	themeObs := p.themeObserversLocked()
	langObs := p.languageObserversLocked()
	p.mu.Unlock()

	for _, fn := range themeObs {
		fn(dark)
	}
	for _, fn := range langObs {
		fn(lang)
	}
}

// IsDarkMode reports the current theme
func (p *Preferences) IsDarkMode() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dark
}

// SetDarkMode persists the theme and notifies observers
func (p *Preferences) SetDarkMode(dark bool) {
	value := ThemeLight
	if dark {
		value = ThemeDark
	}
	p.prefs.SetString(KeyTheme, value)

	p.mu.Lock()
	p.dark = dark
	observers := p.themeObserversLocked()
	p.mu.Unlock()

	for _, fn := range observers {
		fn(dark)
	}
}

// ToggleDarkMode flips the theme
func (p *Preferences) ToggleDarkMode() {
	p.SetDarkMode(!p.IsDarkMode())
}

// Language returns the current language code
func (p *Preferences) Language() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.language
}

// SetLanguage persists the language and notifies observers
func (p *Preferences) SetLanguage(lang string) {
	if lang == "" {
		lang = DefaultLanguage
	}
	p.prefs.SetString(KeyLanguage, lang)

	p.mu.Lock()
	p.language = lang
	observers := p.languageObserversLocked()
	p.mu.Unlock()

	for _, fn := range observers {
		fn(lang)
	}
}

// OnThemeChange registers fn and returns a function that unregisters it
func (p *Preferences) OnThemeChange(fn func(dark bool)) func() {
	p.mu.Lock()
	id := p.nextObsID
	p.nextObsID++
	p.themeObs[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.themeObs, id)
		p.mu.Unlock()
	}
}

// OnLanguageChange registers fn and returns a function that unregisters it
func (p *Preferences) OnLanguageChange(fn func(lang string)) func() {
	p.mu.Lock()
	id := p.nextObsID
	p.nextObsID++
	p.langObs[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.langObs, id)
		p.mu.Unlock()
	}
}

func (p *Preferences) themeObserversLocked() []func(bool) {
	out := make([]func(bool), 0, len(p.themeObs))
	for _, fn := range p.themeObs {
		out = append(out, fn)
	}
	return out
}

func (p *Preferences) languageObserversLocked() []func(string) {
	out := make([]func(string), 0, len(p.langObs))
	for _, fn := range p.langObs {
		out = append(out, fn)
	}
	return out
}
