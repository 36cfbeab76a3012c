package config

import (
	"bytes"
	"encoding/json"
	"io"
	"reflect"
	"time"

	"github.com/a8m/envsubst"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
)

// Read reads a config from the given file, expanding ${VAR} references from the environment.
// Unset fields keep their value from Default.
func Read(filePath string) (*Config, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	cfg, err := FromReader(bytes.NewReader(buf))
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", filePath)
	}
	cfg.ConfigFilePath = filePath
	return cfg, nil
}

// FromReader reads a JSON config. Durations may be given as strings such as "10s" or as
// nanoseconds.
func FromReader(r io.Reader) (*Config, error) {
	var attrs map[string]interface{}
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&attrs); err != nil {
		return nil, errors.Wrap(err, "cannot parse config")
	}
	cfg, err := FromAttributes(attrs)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromAttributes decodes an attribute map onto Default.
func FromAttributes(attrs map[string]interface{}) (*Config, error) {
	cfg := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           cfg,
		ErrorUnused:      true,
		ZeroFields:       true,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			jsonNumberHook,
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(attrs); err != nil {
		return nil, errors.Wrap(err, "cannot decode config")
	}
	return cfg, nil
}

var durationType = reflect.TypeOf(time.Duration(0))

// jsonNumberHook turns json.Number values into the numeric kind of the target field.
func jsonNumberHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	n, ok := data.(json.Number)
	if !ok {
		return data, nil
	}
	switch to.Kind() {
	case reflect.Float32, reflect.Float64:
		return n.Float64()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if to == durationType {
			i, err := n.Int64()
			return time.Duration(i), err
		}
		return n.Int64()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return n.Int64()
	default:
		return n.String(), nil
	}
}
