package ui

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
)

// NumericalEntry is an Entry restricted to ASCII digits, used for ports and
// the timeline scale.
type NumericalEntry struct {
	widget.Entry
}

// NewNumericalEntry creates a new instance of NumericalEntry.
func NewNumericalEntry() *NumericalEntry {
	entry := &NumericalEntry{}
	entry.ExtendBaseWidget(entry)
	return entry
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// TypedRune drops anything but digits.
func (e *NumericalEntry) TypedRune(r rune) {
	if isDigit(r) {
		e.Entry.TypedRune(r)
	}
}

// TypedShortcut strips non-digits from pasted text. SetText is not filtered;
// the Validator covers it.
func (e *NumericalEntry) TypedShortcut(s fyne.Shortcut) {
	paste, ok := s.(*fyne.ShortcutPaste)
	if !ok || paste.Clipboard == nil {
		e.Entry.TypedShortcut(s)
		return
	}

	digits := strings.Map(func(r rune) rune {
		if isDigit(r) {
			return r
		}
		return -1
	}, paste.Clipboard.Content())

	for _, r := range digits {
		e.Entry.TypedRune(r)
	}
}

// Keyboard shows a numeric keypad on mobile devices.
func (e *NumericalEntry) Keyboard() mobile.KeyboardType {
	return mobile.NumberKeyboard
}
