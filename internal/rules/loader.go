package rules

import (
	"github.com/spf13/viper"

	"github.com/Hamaduzi123/ip/pkg/errors"
)

// Load reads a rule set from the YAML file at path and compiles it. The file
// replaces the built-in tables wholesale; there is no per-table merging, so a
// rules file must carry every table it needs.
func Load(path string) (*Set, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrCodeRuleTableInvalid,
			"failed to read rules file %q", path)
	}

	s := &Set{}
	if err := v.Unmarshal(s); err != nil {
		return nil, errors.Wrapf(err, errors.ErrCodeRuleTableInvalid,
			"failed to unmarshal rules file %q", path)
	}

	if err := s.Compile(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadOrDefault loads the rules file at path, or returns the compiled
// built-in set when path is empty.
func LoadOrDefault(path string) (*Set, error) {
	if path == "" {
		s := Default()
		if err := s.Compile(); err != nil {
			return nil, err
		}
		return s, nil
	}
	return Load(path)
}
