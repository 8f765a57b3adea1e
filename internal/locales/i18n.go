package locales

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
)

//go:embed *.json
var localeFS embed.FS

var (
	bundle          *i18n.Bundle
	defaultLanguage language.Tag
)

// Init loads the embedded message files. Users whose Telegram language has
// no file get defaultLangCode.
func Init(defaultLangCode string) error {
	var err error
	defaultLanguage, err = language.Parse(defaultLangCode)
	if err != nil {
		log.Warn().Err(err).Str("code", defaultLangCode).Msg("invalid default language, falling back to English")
		defaultLanguage = language.English
	}

	bundle = i18n.NewBundle(defaultLanguage)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir(".")
	if err != nil {
		return fmt.Errorf("read embedded locales: %w", err)
	}

	loadedFiles := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if _, err := bundle.LoadMessageFileFS(localeFS, entry.Name()); err != nil {
			log.Warn().Err(err).Str("file", entry.Name()).Msg("failed to load message file")
			continue
		}
		loadedFiles++
	}
	if loadedFiles == 0 {
		return fmt.Errorf("no message files loaded")
	}
	log.Info().Int("files", loadedFiles).Str("default", defaultLanguage.String()).Msg("i18n bundle initialized")
	return nil
}

// DefaultLanguage returns the configured default language tag.
func DefaultLanguage() language.Tag {
	if bundle == nil {
		panic("locales: DefaultLanguage called before Init")
	}
	return defaultLanguage
}

// NewLocalizer creates a localizer for the given language preferences,
// e.g. the LanguageCode of a Telegram user.
func NewLocalizer(langPrefs ...string) *i18n.Localizer {
	if bundle == nil {
		panic("locales: NewLocalizer called before Init")
	}
	return i18n.NewLocalizer(bundle, langPrefs...)
}

// GetMessage localizes msgID, falling back to English and then to the ID
// itself.
func GetMessage(localizer *i18n.Localizer, msgID string, templateData map[string]interface{}) string {
	config := &i18n.LocalizeConfig{
		MessageID:    msgID,
		TemplateData: templateData,
	}

	localized, err := localizer.Localize(config)
	if err == nil {
		return localized
	}
	log.Error().Err(err).Str("message_id", msgID).Msg("failed to localize message, falling back to English")

	fallback, fallbackErr := i18n.NewLocalizer(bundle, language.English.String()).Localize(config)
	if fallbackErr == nil {
		return fallback
	}
	return msgID
}
