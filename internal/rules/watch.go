package rules

import (
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Watch monitors the rules file at path and invokes onChange with the newly
// compiled set whenever the file is modified on disk. A change that fails to
// parse or compile is skipped so the pipeline never swaps in a broken table;
// onError (optional) is called with the failure.
//
// Watch is non-blocking; it starts a background goroutine managed by viper.
func Watch(path string, onChange func(*Set), onError func(error)) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)

	// Initial read errors are ignored; callers load the set first.
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(fsnotify.Event) {
		s := &Set{}
		if err := v.Unmarshal(s); err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		if err := s.Compile(); err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(s)
	})
}
