package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Credential environment keys.
const (
	KeySimilarity = "EXA_API_KEY"
	KeyCompletion = "GROQ_API_KEY"
	KeyContacts   = "APOLLO_API_KEY"
)

// CredentialKeys lists every credential in prompt order.
var CredentialKeys = []string{KeySimilarity, KeyCompletion, KeyContacts}

// Credentials are the external API keys. Empty means not configured.
type Credentials struct {
	Similarity string
	Completion string
	Contacts   string
}

// Missing returns the keys that are not set, in prompt order.
func (c Credentials) Missing() []string {
	var out []string
	for _, key := range CredentialKeys {
		if strings.TrimSpace(c.Get(key)) == "" {
			out = append(out, key)
		}
	}
	return out
}

// Get returns the credential stored under key.
func (c Credentials) Get(key string) string {
	switch key {
	case KeySimilarity:
		return c.Similarity
	case KeyCompletion:
		return c.Completion
	case KeyContacts:
		return c.Contacts
	default:
		return ""
	}
}

func newEnvViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()
	for _, k := range CredentialKeys {
		_ = v.BindEnv(k)
	}
	return v
}

// LoadCredentials reads credentials from the dotenv file at path, with
// process environment variables taking precedence. A missing file is not an error.
func LoadCredentials(path string) (Credentials, error) {
	v := newEnvViper(path)
	if path != "" {
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Credentials{}, fmt.Errorf("read env file: %w", err)
		}
	}
	return Credentials{
		Similarity: v.GetString(KeySimilarity),
		Completion: v.GetString(KeyCompletion),
		Contacts:   v.GetString(KeyContacts),
	}, nil
}

// SaveCredentials writes the credentials to the dotenv file at path,
// keeping any other keys already in the file. Empty values leave the
// stored value unchanged.
func SaveCredentials(path string, creds Credentials) error {
	if path == "" {
		return fmt.Errorf("env file path is empty")
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read env file: %w", err)
		}
	}

	for _, key := range CredentialKeys {
		if val := creds.Get(key); strings.TrimSpace(val) != "" {
			v.Set(key, strings.TrimSpace(val))
		}
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write env file: %w", err)
	}
	return os.Chmod(path, 0o600)
}
