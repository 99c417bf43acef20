package ui

import (
	"embed"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goccy/go-json"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-planner/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// SetupI18n initializes the translation bundle and detects available languages.
func (app *PlannerApp) SetupI18n() {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		return
	}

	var langs []string
	for _, entry := range entries {
		name := entry.Name()
		log := slog.With(config.LogKeyComponent, config.CompI18n, config.LogKeyFile, name)

		code, ok := localeCode(name)
		if !ok {
			log.Debug(config.MsgLocaleSkip)
			continue
		}
		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			log.Error(config.ErrLocaleLoad, config.LogKeyError, err)
			continue
		}
		langs = append(langs, code)
		log.Debug(config.MsgLocaleLoaded, config.LogKeyLang, code)
	}

	app.SupportedLanguages = langs
	app.I18nBundle = bundle
	app.UpdateLocalizer()
}

// localeCode extracts "fr" from "active.fr.json".
func localeCode(name string) (string, bool) {
	code, ok := strings.CutPrefix(name, "active.")
	if !ok {
		return "", false
	}
	code, ok = strings.CutSuffix(code, ".json")
	return code, ok && code != ""
}

// UpdateLocalizer refreshes the translator based on the user's language preference.
func (app *PlannerApp) UpdateLocalizer() {
	if app.I18nBundle == nil {
		return
	}
	lang := app.Preferences.StringWithFallback(config.PrefLanguage, config.DefaultLanguage)
	app.Localizer = i18n.NewLocalizer(app.I18nBundle, lang)
}

// GetMsg is a helper to translate a key safely.
func (app *PlannerApp) GetMsg(key string) string {
	return app.localize(&i18n.LocalizeConfig{MessageID: key})
}

// GetPlural translates a message that takes a Count.
func (app *PlannerApp) GetPlural(key string, count int) string {
	return app.localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: map[string]any{"Count": count},
		PluralCount:  count,
	})
}

// GetMsgWith translates a message with template data.
func (app *PlannerApp) GetMsgWith(key string, data map[string]any) string {
	return app.localize(&i18n.LocalizeConfig{MessageID: key, TemplateData: data})
}

// localize returns the key itself when no translation is available.
func (app *PlannerApp) localize(lc *i18n.LocalizeConfig) string {
	if app.Localizer == nil {
		slog.Debug(config.ErrLocNotInit, config.LogKeyComponent, config.CompI18n, config.LogKeyKey, lc.MessageID)
		return lc.MessageID
	}
	msg, err := app.Localizer.Localize(lc)
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, lc.MessageID,
			config.LogKeyError, err,
		)
		return lc.MessageID
	}
	return msg
}

// birthdayTitle localizes the title of an imported birthday.
func (app *PlannerApp) birthdayTitle(name string, age int, yearKnown bool) string {
	key := config.TKeyEvtBirthday
	data := map[string]any{"Name": name}
	if yearKnown && age > 0 {
		key = config.TKeyEvtBirthdayAge
		data["Age"] = age
	}

	msg := app.GetMsgWith(key, data)
	if msg != key {
		return msg
	}

	if key == config.TKeyEvtBirthdayAge {
		return fmt.Sprintf(config.FallbackBirthdayAge, name, age)
	}
	return fmt.Sprintf(config.FallbackBirthday, name)
}
