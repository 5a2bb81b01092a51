package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nikogura/portfolio/pkg/config"
	"github.com/nikogura/portfolio/pkg/preference"
)

func writeBuildFixture(t *testing.T) (configPath, outDir string) {
	t.Helper()

	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")
	outDir = filepath.Join(dir, "public")

	err := os.MkdirAll(dataDir, 0750)
	if err != nil {
		t.Fatalf("Failed to create data dir: %v", err)
	}

	for lang, name := range map[string]string{"en": "Ana", "pt": "Ana PT"} {
		doc := `{"profile": {"name": "` + name + `"}, "labels": {"projects": "Projects"}}`
		err = os.WriteFile(filepath.Join(dataDir, "data-"+lang+".json"), []byte(doc), 0600)
		if err != nil {
			t.Fatalf("Failed to write data file: %v", err)
		}
	}

	cfg := config.Config{
		Name:         "test-user",
		DataLocation: dataDir,
		Languages:    []string{"en", "pt"},
		Preference: config.PreferenceConfig{
			Backend: preference.BackendFile,
			Path:    filepath.Join(dir, "preferences.json"),
		},
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}

	configPath = filepath.Join(dir, "config.json")
	err = os.WriteFile(configPath, data, 0600)
	if err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	return configPath, outDir
}

func setBuildFlags(t *testing.T, cfgPath, lang, outDir string) {
	t.Helper()

	configFile, buildLang, buildOutputDir = cfgPath, lang, outDir
	t.Cleanup(func() {
		configFile, buildLang, buildOutputDir = "", "", ""
	})
}

func TestRunBuild(t *testing.T) {
	tests := []struct {
		name     string
		lang     string
		want     string
		wantLang string
		wantErr  bool
	}{
		{name: "default language", lang: "", want: "Ana", wantLang: `lang="en"`},
		{name: "explicit language", lang: "pt", want: "Ana PT", wantLang: `lang="pt"`},
		{name: "missing language", lang: "fr", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfgPath, outDir := writeBuildFixture(t)
			setBuildFlags(t, cfgPath, tt.lang, outDir)

			err := runBuild(buildCmd, nil)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Failed to build: %v", err)
			}

			content, err := os.ReadFile(filepath.Join(outDir, "index.html"))
			if err != nil {
				t.Fatalf("Failed to read output: %v", err)
			}

			page := string(content)
			if !strings.Contains(page, tt.want) {
				t.Errorf("Expected page to contain %q", tt.want)
			}
			if !strings.Contains(page, tt.wantLang) {
				t.Errorf("Expected page to contain %q", tt.wantLang)
			}
		})
	}
}

func TestRunBuildLangDoesNotPersist(t *testing.T) {
	cfgPath, outDir := writeBuildFixture(t)
	setBuildFlags(t, cfgPath, "pt", outDir)

	err := runBuild(buildCmd, nil)
	if err != nil {
		t.Fatalf("Failed to build: %v", err)
	}

	prefsPath := filepath.Join(filepath.Dir(cfgPath), "preferences.json")
	_, err = os.Stat(prefsPath)
	if !os.IsNotExist(err) {
		t.Errorf("Expected no preference file after build --lang, got err=%v", err)
	}
}

func TestGetOutputDir(t *testing.T) {
	if got := getOutputDir("flag", "config"); got != "flag" {
		t.Errorf("Expected flag, got %s", got)
	}
	if got := getOutputDir("", "config"); got != "config" {
		t.Errorf("Expected config, got %s", got)
	}
}
