package config

import (
	"errors"
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Watch calls onChange with a freshly loaded config every time the file at
// path is written. It returns once the watch is installed; the watch lives
// as long as the process.
func Watch(path string, onChange func(*Config, error)) error {
	if path == "" {
		return errors.New("no config file to watch")
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	v.OnConfigChange(func(fsnotify.Event) {
		onChange(Load(path))
	})
	v.WatchConfig()
	return nil
}
