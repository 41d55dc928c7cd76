package config

import "gopkg.in/yaml.v2"

// yamlMarshal wraps yaml.v2 Marshal for viper-default-compatible config
// marshaling (yaml.v3 is used elsewhere, by internal/api's YAML output; the
// dynamic override store encodes JSON).
func yamlMarshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}
