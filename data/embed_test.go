package data

import "testing"

func TestLocales(t *testing.T) {
	langs := Locales()
	found := false
	for _, lang := range langs {
		if lang == "en" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected en among %v", langs)
	}

	if _, err := Asset("data/locales/en.json"); err != nil {
		t.Errorf("Expected en.json to be embedded: %v", err)
	}
	if _, err := Asset("locales/en.json"); err != nil {
		t.Errorf("Expected prefix to be optional: %v", err)
	}
	if _, err := Asset("data/locales/zz.json"); err == nil {
		t.Errorf("Expected missing asset to fail")
	}
}
