// Package config resolves process configuration once at startup so the
// rest of the program receives credentials as plain values.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// EnvAPIKey is the environment variable holding the Moltbook API key.
const EnvAPIKey = "MOLTBOOK_API_KEY"

// Credentials holds the resolved API credentials. An empty APIKey is valid:
// protected endpoints then degrade to empty results instead of failing.
type Credentials struct {
	APIKey string
}

// credentialFile returns the local JSON credential file path,
// ~/.config/moltbook/credentials.json.
func credentialFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "moltbook", "credentials.json"), nil
}

// LoadCredentials resolves the API key in order: the explicit value, the
// MOLTBOOK_API_KEY environment variable, then the api_key field of the
// local credential file. A missing file is not an error.
func LoadCredentials(explicit string) (Credentials, error) {
	if explicit != "" {
		return Credentials{APIKey: explicit}, nil
	}

	v := viper.New()
	if err := v.BindEnv("api_key", EnvAPIKey); err != nil {
		return Credentials{}, err
	}

	if path, err := credentialFile(); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
			// Tolerate an unreadable home dir the same as a missing file;
			// only a present-but-broken file is worth surfacing.
			if _, statErr := os.Stat(path); statErr == nil {
				return Credentials{}, err
			}
		}
	}

	return Credentials{APIKey: v.GetString("api_key")}, nil
}
