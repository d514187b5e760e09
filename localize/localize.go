package localize

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	locale "github.com/Xuanwo/go-locale"
)

type AssetLoader func(path string) ([]byte, error)

type Strings map[string]string

type StringsSet map[string]Strings

// Replacements fill `{{name}}` placeholders in a string.
type Replacements map[string]string

const fallbackLang = "en"

// Localizer looks up UI strings by key in the current language, then in
// English, then gives the key back.
type Localizer struct {
	loadAsset  AssetLoader
	lang       string
	stringsSet StringsSet
}

func NewLocalizer(loadAsset AssetLoader) (*Localizer, error) {
	l := &Localizer{
		loadAsset:  loadAsset,
		lang:       fallbackLang,
		stringsSet: make(StringsSet),
	}
	err := l.LoadLocale(fallbackLang)
	if err != nil {
		return nil, err
	}

	return l, nil
}

func (l *Localizer) Lang() string {
	return l.lang
}

func (l *Localizer) SetLang(lang string) {
	log.Println("Switching to lang", lang)
	l.lang = normalize(lang)
}

func normalize(lang string) string {
	return strings.Replace(lang, "-", "_", -1)
}

func (l *Localizer) LoadLocale(lang string) error {
	lang = normalize(lang)
	if _, ok := l.stringsSet[lang]; ok {
		return nil
	}

	assetPath := fmt.Sprintf("data/locales/%s.json", lang)

	localeBytes, err := l.loadAsset(assetPath)
	if err != nil {
		return err
	}

	strings := Strings{}
	err = json.Unmarshal(localeBytes, &strings)
	if err != nil {
		log.Println("While parsing locale file", lang, err.Error())
		return err
	}

	l.stringsSet[lang] = strings

	return nil
}

// DetectLang switches to the first system language we have strings for.
func (l *Localizer) DetectLang() {
	tags, err := locale.DetectAll()
	if err != nil {
		log.Printf("Could not detect system language: %v", err)
		return
	}

	for _, tag := range tags {
		base, _ := tag.Base()
		for _, candidate := range []string{tag.String(), base.String()} {
			if l.LoadLocale(candidate) == nil {
				l.SetLang(candidate)
				return
			}
		}
	}
	log.Printf("No strings for %v, staying with %s", tags, l.lang)
}

func (l *Localizer) T(key string, args ...Replacements) string {
	for _, lang := range []string{l.lang, fallbackLang} {
		rule, ok := l.stringsSet[lang][key]
		if !ok {
			continue
		}

		result := rule
		for _, repl := range args {
			for k, v := range repl {
				result = strings.Replace(result, "{{"+k+"}}", v, -1)
			}
		}

		return result
	}

	return key
}
