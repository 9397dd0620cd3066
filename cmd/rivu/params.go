package main

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// parseParam splits a repeatable "--x-param k=v" flag value into its key
// and best-effort-typed value (bool/int/float fall back to string).
// Dotted key paths are allowed.
func parseParam(raw string) (string, interface{}, error) {
	k, v, ok := strings.Cut(raw, "=")
	if !ok {
		return "", nil, errors.Errorf("param %q is not in k=v form", raw)
	}
	k = strings.TrimSpace(k)
	v = strings.TrimSpace(v)
	if k == "" {
		return "", nil, errors.Errorf("param %q has an empty key", raw)
	}

	if b, err := strconv.ParseBool(v); err == nil {
		return k, b, nil
	}
	if i, err := strconv.ParseInt(v, 10, 64); err == nil {
		return k, i, nil
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return k, f, nil
	}
	return k, v, nil
}

// paramViper builds a *viper.Viper populated from a set of "k=v" pairs,
// ready for Unmarshal into a mapstructure-tagged config struct.
func paramViper(pairs []string) (*viper.Viper, error) {
	v := viper.New()
	for _, raw := range pairs {
		k, val, err := parseParam(raw)
		if err != nil {
			return nil, err
		}
		v.Set(k, val)
	}
	return v, nil
}
