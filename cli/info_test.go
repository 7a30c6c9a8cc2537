package cli

import (
	"strings"
	"testing"

	"github.com/urfave/cli/v2"
)

func TestInfoCommand_WithProjectStructure(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"quiz.config.yml":            "port: 9100\noutputDir: out\ncache: true\ndebugHeaders: true\ndebugLogs: true\n",
		"views/layout.html":          validLayout,
		"views/main.html":            `main`,
		"views/quiz.html":            `quiz`,
		"views/result.html":          `result`,
		"views/partials/header.html": `{{ define "header" }}<header></header>{{ end }}`,
		"public/css/style.css":       `body{}`,
		"public/js/quiz.js":          `;`,
		"out/pages/index.html":       "<html>cached</html>",
	})
	chdir(t, dir)

	app := &cli.App{Commands: []*cli.Command{InfoCommand}}

	var runErr error
	output := captureOutput(func() {
		runErr = app.Run([]string{"quiz", "info"})
	})

	if runErr != nil {
		t.Fatalf("expected no error, got: %v", runErr)
	}

	for _, want := range []string{
		"🌐 Port: 9100",
		"📁 Output Directory: out",
		"🔁 Cache Enabled: true",
		"🔁 Debug Headers Enabled: true",
		"🔁 Debug Logs Enabled: true",
		"🗂️  Views Source: views",
		"🗂️  Views Found: 3",
		"📦 Partials Found: 1",
		"🎨 Public Assets Found: 2",
		"💾 Cached Pages: 1",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestInfoCommand_FallsBackToEmbedded(t *testing.T) {
	chdir(t, t.TempDir())

	app := &cli.App{Commands: []*cli.Command{InfoCommand}}

	var runErr error
	output := captureOutput(func() {
		runErr = app.Run([]string{"quiz", "info"})
	})

	if runErr != nil {
		t.Fatalf("expected no error, got: %v", runErr)
	}
	if !strings.Contains(output, "🗂️  Views Source: embedded") {
		t.Errorf("expected embedded views, got:\n%s", output)
	}
	if !strings.Contains(output, "🗂️  Views Found: 3") {
		t.Errorf("expected the three embedded views, got:\n%s", output)
	}
	if !strings.Contains(output, "🌐 Port: 9000") {
		t.Errorf("expected default port, got:\n%s", output)
	}
}
