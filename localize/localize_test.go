package localize

import (
	"fmt"
	"testing"
)

var testAssets = map[string]string{
	"data/locales/en.json": `{"greeting": "Hello {{name}}!", "only.en": "English only"}`,
	"data/locales/fr.json": `{"greeting": "Bonjour {{name}} !"}`,
	"data/locales/xx.json": `{not json`,
}

func loadTestAsset(path string) ([]byte, error) {
	if s, ok := testAssets[path]; ok {
		return []byte(s), nil
	}
	return nil, fmt.Errorf("%s: not found", path)
}

func TestT(t *testing.T) {
	l, err := NewLocalizer(loadTestAsset)
	if err != nil {
		t.Fatalf("NewLocalizer failed: %v", err)
	}

	if got := l.T("greeting", Replacements{"name": "AirPlay"}); got != "Hello AirPlay!" {
		t.Errorf("Unexpected english string %q", got)
	}

	err = l.LoadLocale("fr")
	if err != nil {
		t.Fatalf("LoadLocale failed: %v", err)
	}
	l.SetLang("fr")

	if got := l.T("greeting", Replacements{"name": "AirPlay"}); got != "Bonjour AirPlay !" {
		t.Errorf("Unexpected french string %q", got)
	}
	if got := l.T("only.en"); got != "English only" {
		t.Errorf("Expected english fallback, got %q", got)
	}
	if got := l.T("no.such.key"); got != "no.such.key" {
		t.Errorf("Expected key back, got %q", got)
	}
}

func TestLoadLocale_Errors(t *testing.T) {
	l, err := NewLocalizer(loadTestAsset)
	if err != nil {
		t.Fatalf("NewLocalizer failed: %v", err)
	}

	if err := l.LoadLocale("de"); err == nil {
		t.Errorf("Expected missing locale to fail")
	}
	if err := l.LoadLocale("xx"); err == nil {
		t.Errorf("Expected malformed locale to fail")
	}
}

func TestSetLang_Normalizes(t *testing.T) {
	l, err := NewLocalizer(loadTestAsset)
	if err != nil {
		t.Fatalf("NewLocalizer failed: %v", err)
	}
	l.SetLang("pt-BR")
	if l.Lang() != "pt_BR" {
		t.Errorf("Expected pt_BR, got %s", l.Lang())
	}
}
