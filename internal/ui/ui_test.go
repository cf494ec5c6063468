package ui

import (
	"strings"
	"testing"
)

func TestValidateTheme(t *testing.T) {
	for _, ok := range []string{"", "system", "Light", "DARK", " dark "} {
		if err := ValidateTheme(ok); err != nil {
			t.Fatalf("ValidateTheme(%q) = %v", ok, err)
		}
	}
	if err := ValidateTheme("metal"); err == nil {
		t.Fatal("unknown theme accepted")
	}
}

func TestHelpTextMentionsSetup(t *testing.T) {
	if !strings.Contains(HelpText, "aiquizsetup") || !strings.Contains(HelpText, "API key") {
		t.Fatal("help text missing setup guidance")
	}
}
