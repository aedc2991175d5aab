package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test graphics defaults
	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}

	// Test scene defaults
	if cfg.Scene.SizeX != 20 || cfg.Scene.SizeY != 20 {
		t.Errorf("expected 20x20 grid, got %gx%g", cfg.Scene.SizeX, cfg.Scene.SizeY)
	}
	if cfg.Scene.ResolutionX != 1024 || cfg.Scene.ResolutionY != 1024 {
		t.Errorf("expected 1024x1024 resolution, got %dx%d", cfg.Scene.ResolutionX, cfg.Scene.ResolutionY)
	}
	if cfg.Scene.WaterHeight != 0.5 {
		t.Errorf("expected water height 0.5, got %f", cfg.Scene.WaterHeight)
	}
	if cfg.Scene.DisabledClipHeight != 1000 {
		t.Errorf("expected disabled clip height 1000, got %f", cfg.Scene.DisabledClipHeight)
	}

	// Test water defaults
	if cfg.Water.ReflectionWidth != 640 || cfg.Water.ReflectionHeight != 360 {
		t.Errorf("expected 640x360 reflection, got %dx%d", cfg.Water.ReflectionWidth, cfg.Water.ReflectionHeight)
	}
	if cfg.Water.RefractionWidth != 320 || cfg.Water.RefractionHeight != 180 {
		t.Errorf("expected 320x180 refraction, got %dx%d", cfg.Water.RefractionWidth, cfg.Water.RefractionHeight)
	}

	// Test camera defaults
	if cfg.Camera.Position != [3]float32{0, 0, 3} {
		t.Errorf("expected camera at (0,0,3), got %v", cfg.Camera.Position)
	}
	if cfg.Camera.FOV != 80 {
		t.Errorf("expected fov 80, got %f", cfg.Camera.FOV)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

scene:
  size_x: 40
  resolution_x: 512
  water_height: 0.7
  sky_color: [0.1, 0.2, 0.3]

water:
  reflection_width: 1280
  wave_speed: 0.05

camera:
  position: [1, 2, 4]
  fov: 60

snow:
  enabled: true
  count: 500

assets:
  shader_dir: "shaders"
  watch_shaders: true

logging:
  level: "debug"
  log_file: "world.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Graphics.Width)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Graphics.VSync {
		t.Error("expected vsync to be false")
	}

	if cfg.Scene.SizeX != 40 {
		t.Errorf("expected size_x 40, got %f", cfg.Scene.SizeX)
	}
	if cfg.Scene.SizeY != 20 {
		t.Errorf("expected size_y to keep default 20, got %f", cfg.Scene.SizeY)
	}
	if cfg.Scene.ResolutionX != 512 {
		t.Errorf("expected resolution_x 512, got %d", cfg.Scene.ResolutionX)
	}
	if cfg.Scene.WaterHeight != 0.7 {
		t.Errorf("expected water height 0.7, got %f", cfg.Scene.WaterHeight)
	}
	if cfg.Scene.SkyColor != [3]float32{0.1, 0.2, 0.3} {
		t.Errorf("unexpected sky color %v", cfg.Scene.SkyColor)
	}

	if cfg.Water.ReflectionWidth != 1280 {
		t.Errorf("expected reflection width 1280, got %d", cfg.Water.ReflectionWidth)
	}
	if cfg.Water.ReflectionHeight != 360 {
		t.Errorf("expected reflection height to keep default 360, got %d", cfg.Water.ReflectionHeight)
	}

	if cfg.Camera.Position != [3]float32{1, 2, 4} {
		t.Errorf("unexpected camera position %v", cfg.Camera.Position)
	}
	if cfg.Camera.FOV != 60 {
		t.Errorf("expected fov 60, got %f", cfg.Camera.FOV)
	}

	if !cfg.Snow.Enabled || cfg.Snow.Count != 500 {
		t.Errorf("expected snow enabled with 500 particles, got %v/%d", cfg.Snow.Enabled, cfg.Snow.Count)
	}

	if cfg.Assets.ShaderDir != "shaders" || !cfg.Assets.WatchShaders {
		t.Errorf("unexpected assets %+v", cfg.Assets)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "world.log" {
		t.Errorf("expected log file 'world.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	// Create temporary config file with invalid YAML
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Try to load - should error
	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileWrongVectorLength(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("camera:\n  position: [1, 2]\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error for a two element position, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestLoadFromFileUnknownKey(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("scene:\n  water_hieght: 0.9\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Fatal("expected error for misspelled key, got nil")
	}
	if !strings.Contains(err.Error(), "water_hieght") {
		t.Errorf("expected error naming the key, got %v", err)
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, nil, 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("empty file should keep defaults: %v", err)
	}
	if cfg.Scene.WaterHeight != Default().Scene.WaterHeight {
		t.Errorf("expected default water height, got %f", cfg.Scene.WaterHeight)
	}
}

func TestLoadFromEnv(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "world.yaml")
	if err := os.WriteFile(configPath, []byte("scene:\n  water_height: 0.25\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	t.Setenv(EnvConfig, configPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Scene.WaterHeight != 0.25 {
		t.Errorf("expected water height 0.25 from env file, got %f", cfg.Scene.WaterHeight)
	}
	if cfg.Source() != configPath {
		t.Errorf("expected source %s, got %q", configPath, cfg.Source())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero window", func(c *Config) { c.Graphics.Width = 0 }, "window size"},
		{"negative grid", func(c *Config) { c.Scene.SizeY = -1 }, "grid size"},
		{"tiny resolution", func(c *Config) { c.Scene.ResolutionX = 1 }, "at least 2x2"},
		{"restart collision", func(c *Config) {
			c.Scene.ResolutionX = 10
			c.Scene.ResolutionY = 10
			c.Scene.RestartIndex = 99
		}, "restart index 99"},
		{"reflection size", func(c *Config) { c.Water.ReflectionHeight = 0 }, "reflection size"},
		{"refraction size", func(c *Config) { c.Water.RefractionWidth = -5 }, "refraction size"},
		{"fov too wide", func(c *Config) { c.Camera.FOV = 120 }, "fov"},
		{"fov too narrow", func(c *Config) { c.Camera.FOV = 0.5 }, "fov"},
		{"clip range", func(c *Config) { c.Camera.Far = c.Camera.Near }, "clip range"},
		{"empty snow", func(c *Config) {
			c.Snow.Enabled = true
			c.Snow.Count = 0
		}, "snow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestValidateRestartBoundary(t *testing.T) {
	cfg := Default()
	cfg.Scene.ResolutionX = 10
	cfg.Scene.ResolutionY = 10
	cfg.Scene.RestartIndex = 100
	if err := cfg.Validate(); err == nil {
		t.Error("100 vertices must collide with restart index 100")
	} else if !strings.Contains(err.Error(), "restart") {
		t.Errorf("expected restart collision, got %v", err)
	}

	cfg.Scene.RestartIndex = 101
	if err := cfg.Validate(); err != nil {
		t.Errorf("100 vertices fit below restart index 101: %v", err)
	}
}

func TestValidateReportsAll(t *testing.T) {
	cfg := Default()
	cfg.Graphics.Height = 0
	cfg.Camera.FOV = 100
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !strings.Contains(err.Error(), "window size") || !strings.Contains(err.Error(), "fov") {
		t.Errorf("expected both problems reported, got %v", err)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
	if filepath.Base(dir) != "virtual-world" {
		t.Errorf("expected virtual-world directory, got %s", dir)
	}

	// A relative XDG_CONFIG_HOME is ignored rather than returned
	t.Setenv("XDG_CONFIG_HOME", "relative/config")
	if dir := ConfigDir(); !filepath.IsAbs(dir) {
		t.Errorf("expected absolute fallback, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	// Keep the user's real config dir out of the search
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	// Save current directory
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	// Create temp directory and change to it
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// Create config.yaml in current directory
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	path = findConfigFile()
	if path != "config.yaml" {
		t.Errorf("expected config.yaml in current directory, got %q", path)
	}

	// The named file takes precedence; directories are skipped
	if err := os.Mkdir(filepath.Join(tmpDir, "virtual-world.yaml"), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if path = findConfigFile(); path != "config.yaml" {
		t.Errorf("expected directory to be skipped, got %q", path)
	}
	os.Remove(filepath.Join(tmpDir, "virtual-world.yaml"))
	if err := os.WriteFile(filepath.Join(tmpDir, "virtual-world.yaml"), nil, 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path = findConfigFile(); path != "virtual-world.yaml" {
		t.Errorf("expected virtual-world.yaml first, got %q", path)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "windowed flag",
			setup: func() { *flagWindowed = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() { *flagWindowed = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Graphics.Width)
				}
				if cfg.Graphics.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name: "shader flags",
			setup: func() {
				*flagShaders = "dev/shaders"
				*flagWatch = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Assets.ShaderDir != "dev/shaders" {
					t.Errorf("expected shader dir dev/shaders, got %s", cfg.Assets.ShaderDir)
				}
				if !cfg.Assets.WatchShaders {
					t.Error("expected shader watching with watch flag")
				}
			},
			teardown: func() {
				*flagShaders = ""
				*flagWatch = false
			},
		},
		{
			name:  "snow flag",
			setup: func() { *flagSnow = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Snow.Enabled {
					t.Error("expected snow enabled with snow flag")
				}
			},
			teardown: func() { *flagSnow = false },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			tt.setup()
			defer tt.teardown()

			// Apply flags to default config
			cfg := Default()
			applyFlags(cfg)

			// Verify
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	// Load config
	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}

	// Height should be from file (900) since no flag override
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("camera:\n  fov: 170\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected Load to reject fov 170, got nil")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Scene.WaterHeight = 0.9
	cfg.Assets.CaptureDir = "shots"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload saved config: %v", err)
	}
	if loaded.Scene.WaterHeight != 0.9 {
		t.Errorf("expected water height 0.9, got %f", loaded.Scene.WaterHeight)
	}
	if loaded.Assets.CaptureDir != "shots" {
		t.Errorf("expected capture dir shots, got %s", loaded.Assets.CaptureDir)
	}
}
