package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/quasar/pkg/qerrors"
)

// Load reads a YAML configuration file into config, substituting
// ${VAR_NAME} references with environment variable values first.
func Load(filePath string, config interface{}) error {
	data, err := os.ReadFile(filePath) //nolint:gosec // G304: path is controlled by the caller
	if err != nil {
		return qerrors.Wrap(err, qerrors.ErrorTypeConfig, "reading config file")
	}

	content := substituteEnvVars(string(data))
	if err := yaml.Unmarshal([]byte(content), config); err != nil {
		return qerrors.Wrap(err, qerrors.ErrorTypeConfig, "parsing config YAML")
	}
	return nil
}

// Save writes config to a YAML file.
func Save(filePath string, config interface{}) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return qerrors.Wrap(err, qerrors.ErrorTypeConfig, "marshaling config YAML")
	}
	if err := os.WriteFile(filePath, data, 0o644); err != nil { //nolint:gosec
		return qerrors.Wrap(err, qerrors.ErrorTypeConfig, "writing config file")
	}
	return nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable
// values. Unset variables substitute to the empty string.
func substituteEnvVars(content string) string {
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}
		end += start

		varName := content[start+2 : end]
		content = content[:start] + os.Getenv(varName) + content[end+1:]
	}
	return content
}
