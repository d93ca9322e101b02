package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/Dallionking/bubblebar/internal/flags"
)

// FileName is the config file looked up when --config is not given.
const FileName = "bubblebar.json"

// EnvPrefix prefixes environment overrides, e.g. BUBBLEBAR_DRAG_LONGPRESSMS.
const EnvPrefix = "BUBBLEBAR"

// Config represents the full bubblebar.json schema.
type Config struct {
	Flags     map[string]bool `json:"flags" mapstructure:"flags"`
	Layout    LayoutConfig    `json:"layout" mapstructure:"layout"`
	Animation AnimationConfig `json:"animation" mapstructure:"animation"`
	Drag      DragConfig      `json:"drag" mapstructure:"drag"`
	Screen    ScreenConfig    `json:"screen" mapstructure:"screen"`
	Remote    RemoteConfig    `json:"remote" mapstructure:"remote"`
	Icons     IconsConfig     `json:"icons" mapstructure:"icons"`
	State     StateConfig     `json:"state" mapstructure:"state"`
	Log       LogConfig       `json:"log" mapstructure:"log"`
}

// LayoutConfig holds bar geometry in terminal cells.
type LayoutConfig struct {
	IconSize        float64 `json:"iconSize" mapstructure:"iconSize"`
	Spacing         float64 `json:"spacing" mapstructure:"spacing"`
	CollapsedOffset float64 `json:"collapsedOffset" mapstructure:"collapsedOffset"`
	CollapsedScale  float64 `json:"collapsedScale" mapstructure:"collapsedScale"`
	Padding         float64 `json:"padding" mapstructure:"padding"`
	MaxStacked      int     `json:"maxStacked" mapstructure:"maxStacked"`
	HandleWidth     float64 `json:"handleWidth" mapstructure:"handleWidth"`
	HandleHeight    float64 `json:"handleHeight" mapstructure:"handleHeight"`
}

// AnimationConfig holds durations in milliseconds and the release spring.
type AnimationConfig struct {
	ExpandMs     int     `json:"expandMs" mapstructure:"expandMs"`
	StashMs      int     `json:"stashMs" mapstructure:"stashMs"`
	ArrowMs      int     `json:"arrowMs" mapstructure:"arrowMs"`
	PopulationMs int     `json:"populationMs" mapstructure:"populationMs"`
	FPS          int     `json:"fps" mapstructure:"fps"`
	SpringFreq   float64 `json:"springFrequency" mapstructure:"springFrequency"`
	SpringDamp   float64 `json:"springDamping" mapstructure:"springDamping"`
}

// DragConfig tunes gesture recognition and drop zones.
type DragConfig struct {
	LongPressMs      int     `json:"longPressMs" mapstructure:"longPressMs"`
	Slop             float64 `json:"slop" mapstructure:"slop"`
	VelocityWindowMs int     `json:"velocityWindowMs" mapstructure:"velocityWindowMs"`
	EdgeFraction     float64 `json:"edgeFraction" mapstructure:"edgeFraction"`
	DismissHeight    float64 `json:"dismissHeight" mapstructure:"dismissHeight"`
	FullscreenHeight float64 `json:"fullscreenHeight" mapstructure:"fullscreenHeight"`
}

// ScreenConfig places the bar.
type ScreenConfig struct {
	Bottom   float64 `json:"bottom" mapstructure:"bottom"`
	Location string  `json:"location" mapstructure:"location"`
}

// RemoteConfig locates the directories shared with the bubble authority.
type RemoteConfig struct {
	Inbox      string `json:"inbox" mapstructure:"inbox"`
	Outbox     string `json:"outbox" mapstructure:"outbox"`
	DebounceMs int    `json:"debounceMs" mapstructure:"debounceMs"`
}

// IconsConfig configures icon materialization.
type IconsConfig struct {
	Dir       string `json:"dir" mapstructure:"dir"`
	Workers   int    `json:"workers" mapstructure:"workers"`
	Size      int    `json:"size" mapstructure:"size"`
	BadgeSize int    `json:"badgeSize" mapstructure:"badgeSize"`
}

// StateConfig locates persisted bar state.
type StateConfig struct {
	Dir string `json:"dir" mapstructure:"dir"`
}

// LogConfig selects the log level and file.
type LogConfig struct {
	Level string `json:"level" mapstructure:"level"`
	File  string `json:"file" mapstructure:"file"`
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	return &Config{
		Flags: flags.Defaults(),
		Layout: LayoutConfig{
			IconSize:        6,
			Spacing:         2,
			CollapsedOffset: 2,
			CollapsedScale:  0.8,
			Padding:         1,
			MaxStacked:      2,
			HandleWidth:     8,
			HandleHeight:    1,
		},
		Animation: AnimationConfig{
			ExpandMs:     250,
			StashMs:      200,
			ArrowMs:      120,
			PopulationMs: 180,
			FPS:          60,
			SpringFreq:   7,
			SpringDamp:   0.7,
		},
		Drag: DragConfig{
			LongPressMs:      500,
			Slop:             1.5,
			VelocityWindowMs: 100,
			EdgeFraction:     0.2,
			DismissHeight:    3,
			FullscreenHeight: 2,
		},
		Screen: ScreenConfig{Bottom: 3, Location: "left"},
		Remote: RemoteConfig{Inbox: "inbox", Outbox: "outbox", DebounceMs: 50},
		Icons:  IconsConfig{Dir: "icons", Workers: 2, Size: 48, BadgeSize: 20},
		State:  StateConfig{Dir: "state"},
		Log:    LogConfig{Level: "info", File: "bubblebar.log"},
	}
}

// Load reads the config file into a fresh viper instance layered over the
// defaults and BUBBLEBAR_* environment variables. When file is empty,
// bubblebar.json is looked up in the working directory and then dir. A
// missing file is not an error. It returns the config and the file actually
// read, if any.
func Load(file, dir string) (*Config, string, error) {
	v := newViper(file, dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, "", fmt.Errorf("reading config: %w", err)
		}
	}
	cfg, err := decode(v)
	if err != nil {
		return nil, "", err
	}
	return cfg, v.ConfigFileUsed(), nil
}

// Watch reloads path whenever it is written and hands the result to fn, on
// the watcher's goroutine. A file that no longer parses is reported through
// err and the previous config stays in effect.
func Watch(path string, fn func(cfg *Config, err error)) error {
	v := newViper(path, "")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	v.OnConfigChange(func(fsnotify.Event) {
		fn(decode(v))
	})
	v.WatchConfig()
	return nil
}

func newViper(file, dir string) *viper.Viper {
	v := viper.New()
	setDefaults(v, Default())

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
		v.SetConfigType("json")
		v.AddConfigPath(".")
		if dir != "" {
			v.AddConfigPath(dir)
		}
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes cfg as indented JSON to path, creating its directory.
func Save(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// FlagTable returns the feature flags with unlisted flags at their defaults.
func (c *Config) FlagTable() flags.Table {
	return flags.New(c.Flags)
}

func setDefaults(v *viper.Viper, d *Config) {
	for name, on := range d.Flags {
		v.SetDefault("flags."+name, on)
	}

	v.SetDefault("layout.iconSize", d.Layout.IconSize)
	v.SetDefault("layout.spacing", d.Layout.Spacing)
	v.SetDefault("layout.collapsedOffset", d.Layout.CollapsedOffset)
	v.SetDefault("layout.collapsedScale", d.Layout.CollapsedScale)
	v.SetDefault("layout.padding", d.Layout.Padding)
	v.SetDefault("layout.maxStacked", d.Layout.MaxStacked)
	v.SetDefault("layout.handleWidth", d.Layout.HandleWidth)
	v.SetDefault("layout.handleHeight", d.Layout.HandleHeight)

	v.SetDefault("animation.expandMs", d.Animation.ExpandMs)
	v.SetDefault("animation.stashMs", d.Animation.StashMs)
	v.SetDefault("animation.arrowMs", d.Animation.ArrowMs)
	v.SetDefault("animation.populationMs", d.Animation.PopulationMs)
	v.SetDefault("animation.fps", d.Animation.FPS)
	v.SetDefault("animation.springFrequency", d.Animation.SpringFreq)
	v.SetDefault("animation.springDamping", d.Animation.SpringDamp)

	v.SetDefault("drag.longPressMs", d.Drag.LongPressMs)
	v.SetDefault("drag.slop", d.Drag.Slop)
	v.SetDefault("drag.velocityWindowMs", d.Drag.VelocityWindowMs)
	v.SetDefault("drag.edgeFraction", d.Drag.EdgeFraction)
	v.SetDefault("drag.dismissHeight", d.Drag.DismissHeight)
	v.SetDefault("drag.fullscreenHeight", d.Drag.FullscreenHeight)

	v.SetDefault("screen.bottom", d.Screen.Bottom)
	v.SetDefault("screen.location", d.Screen.Location)

	v.SetDefault("remote.inbox", d.Remote.Inbox)
	v.SetDefault("remote.outbox", d.Remote.Outbox)
	v.SetDefault("remote.debounceMs", d.Remote.DebounceMs)

	v.SetDefault("icons.dir", d.Icons.Dir)
	v.SetDefault("icons.workers", d.Icons.Workers)
	v.SetDefault("icons.size", d.Icons.Size)
	v.SetDefault("icons.badgeSize", d.Icons.BadgeSize)

	v.SetDefault("state.dir", d.State.Dir)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
}
