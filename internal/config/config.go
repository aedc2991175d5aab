// Package config handles configuration loading and management.
package config

// Config holds all settings of the world.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Scene    SceneConfig    `yaml:"scene"`
	Water    WaterConfig    `yaml:"water"`
	Camera   CameraConfig   `yaml:"camera"`
	Snow     SnowConfig     `yaml:"snow"`
	Assets   AssetsConfig   `yaml:"assets"`
	Logging  LoggingConfig  `yaml:"logging"`

	source string
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Title      string     `yaml:"title"`
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Fullscreen bool       `yaml:"fullscreen"`
	VSync      bool       `yaml:"vsync"`
	ClearColor [4]float32 `yaml:"clear_color"`
}

// SceneConfig describes the terrain grid and its lighting.
type SceneConfig struct {
	SizeX              float32    `yaml:"size_x"`
	SizeY              float32    `yaml:"size_y"`
	ResolutionX        int        `yaml:"resolution_x"`
	ResolutionY        int        `yaml:"resolution_y"`
	WaterHeight        float32    `yaml:"water_height"`
	SkyColor           [3]float32 `yaml:"sky_color"`
	LightPos           [3]float32 `yaml:"light_pos"`
	TerrainAmplitude   float32    `yaml:"terrain_amplitude"`
	DisabledClipHeight float32    `yaml:"disabled_clip_height"`
	RestartIndex       uint32     `yaml:"restart_index"` // 0 selects MaxUint32
	Heightmap          string     `yaml:"heightmap"`     // Grayscale image in texture_dir, empty for flat
}

// WaterConfig holds offscreen surface sizes and surface animation.
type WaterConfig struct {
	ReflectionWidth  int     `yaml:"reflection_width"`
	ReflectionHeight int     `yaml:"reflection_height"`
	RefractionWidth  int     `yaml:"refraction_width"`
	RefractionHeight int     `yaml:"refraction_height"`
	WaveSpeed        float32 `yaml:"wave_speed"`
}

// CameraConfig holds the initial fly-camera state.
type CameraConfig struct {
	Position    [3]float32 `yaml:"position"`
	FOV         float32    `yaml:"fov"`
	Speed       float32    `yaml:"speed"`
	Sensitivity float32    `yaml:"sensitivity"`
	Near        float32    `yaml:"near"`
	Far         float32    `yaml:"far"`
}

// SnowConfig controls the particle snowfall.
type SnowConfig struct {
	Enabled       bool       `yaml:"enabled"`
	Count         int        `yaml:"count"`
	EmitRate      int        `yaml:"emit_rate"` // Particles per second
	Gravity       float32    `yaml:"gravity"`
	GravityEffect float32    `yaml:"gravity_effect"`
	Life          float32    `yaml:"life"`
	Spread        [3]float32 `yaml:"spread"`
	PointSize     float32    `yaml:"point_size"`
}

// AssetsConfig holds asset locations.
type AssetsConfig struct {
	TextureDir   string `yaml:"texture_dir"`
	ShaderDir    string `yaml:"shader_dir"` // Overrides for the embedded shaders
	WatchShaders bool   `yaml:"watch_shaders"`
	CaptureDir   string `yaml:"capture_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Title:      "3D-Virtual-World",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			ClearColor: [4]float32{1, 1, 1, 1},
		},
		Scene: SceneConfig{
			SizeX:              20,
			SizeY:              20,
			ResolutionX:        1024,
			ResolutionY:        1024,
			WaterHeight:        0.5,
			SkyColor:           [3]float32{0.6, 0.7, 0.8},
			LightPos:           [3]float32{30, 30, 30},
			TerrainAmplitude:   1.5,
			DisabledClipHeight: 1000,
			Heightmap:          "heightmap.png",
		},
		Water: WaterConfig{
			ReflectionWidth:  640,
			ReflectionHeight: 360,
			RefractionWidth:  320,
			RefractionHeight: 180,
			WaveSpeed:        0.03,
		},
		Camera: CameraConfig{
			Position:    [3]float32{0, 0, 3},
			FOV:         80,
			Speed:       0.01,
			Sensitivity: 0.005,
			Near:        0.1,
			Far:         60,
		},
		Snow: SnowConfig{
			Enabled:       false,
			Count:         2000,
			EmitRate:      300,
			Gravity:       -0.5,
			GravityEffect: 0.3,
			Life:          6,
			Spread:        [3]float32{4, 4, 0.5},
			PointSize:     24,
		},
		Assets: AssetsConfig{
			TextureDir:   "assets/textures",
			ShaderDir:    "",
			WatchShaders: false,
			CaptureDir:   "captures",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
