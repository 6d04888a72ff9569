package config

import (
	"fmt"
	"strings"
	"sync"

	"tradepulse/internal/logger"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// LogLevelWatcher follows the config file and applies log-level edits
// without a restart. Other fields require a restart to take effect.
type LogLevelWatcher struct {
	v *viper.Viper

	mu    sync.Mutex
	level string
}

// WatchLogLevel starts watching the config file at path.
func WatchLogLevel(path string, initial string) (*LogLevelWatcher, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("log level watcher requires path")
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config for watching failed: %w", err)
	}
	w := &LogLevelWatcher{v: v, level: strings.ToLower(strings.TrimSpace(initial))}
	v.OnConfigChange(func(evt fsnotify.Event) {
		w.reload(evt.Name)
	})
	v.WatchConfig()
	return w, nil
}

// Level returns the most recently applied log level.
func (w *LogLevelWatcher) Level() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.level
}

func (w *LogLevelWatcher) reload(source string) {
	level := strings.ToLower(strings.TrimSpace(w.v.GetString("app.log_level")))
	switch level {
	case "debug", "info", "warn", "error":
	default:
		logger.Warnf("config reload ignored invalid log level %q (%s)", level, source)
		return
	}
	w.mu.Lock()
	changed := level != w.level
	w.level = level
	w.mu.Unlock()
	if changed {
		logger.SetLevel(level)
		logger.Infof("log level changed to %s via config reload", level)
	}
}
