package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pders01/skim/internal/config"
)

func TestShowBanner(t *testing.T) {
	var buf bytes.Buffer
	ShowBanner(&buf, "1.0.0-test")
	out := buf.String()

	if !strings.Contains(out, "RSVP headline reader") {
		t.Errorf("Expected banner to contain tagline, got: %s", out)
	}
	if !strings.Contains(out, "╔") || !strings.Contains(out, "╝") {
		t.Errorf("Expected banner to contain border characters, got: %s", out)
	}
	if !strings.Contains(out, "v1.0.0-test") {
		t.Errorf("Expected banner to contain version 'v1.0.0-test', got: %s", out)
	}
}

func TestShowBanner_DevVersion(t *testing.T) {
	var buf bytes.Buffer
	ShowBanner(&buf, "dev")

	if strings.Contains(buf.String(), "dev") {
		t.Errorf("Expected dev builds to omit the version, got: %s", buf.String())
	}
}

func TestRenderLogo(t *testing.T) {
	out := renderLogo()
	for _, line := range LogoLines {
		if !strings.Contains(out, line) {
			t.Errorf("Expected logo to contain %q", line)
		}
	}
}

func TestStyles_RenderText(t *testing.T) {
	cfg := config.TestConfig()
	for name, st := range map[string]Styles{
		"lit": NewStyles(cfg.UI.Colors),
		"dim": DimStyles(cfg.UI.Colors),
	} {
		if !strings.Contains(st.Pivot.Render("x"), "x") {
			t.Errorf("%s: pivot style dropped its text", name)
		}
		if !strings.Contains(st.Text.Render("word"), "word") {
			t.Errorf("%s: text style dropped its text", name)
		}
	}
}
