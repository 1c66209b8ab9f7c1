// Package vault reads deploy-time secrets from HashiCorp Vault so database
// credentials and signing keys stay out of config files.
package vault

import (
	"fmt"

	"github.com/hashicorp/vault/api"
)

type SecretManager struct {
	client *api.Client
}

func NewSecretManager(address, token string) (*SecretManager, error) {
	config := api.DefaultConfig()
	config.Address = address

	client, err := api.NewClient(config)
	if err != nil {
		return nil, err
	}

	client.SetToken(token)

	return &SecretManager{client: client}, nil
}

func (sm *SecretManager) read(path, key string) (string, error) {
	secret, err := sm.client.Logical().Read(path)
	if err != nil {
		return "", err
	}
	if secret == nil {
		return "", fmt.Errorf("no secret at %s", path)
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("unexpected secret layout at %s", path)
	}
	value, ok := data[key].(string)
	if !ok {
		return "", fmt.Errorf("key %s missing at %s", key, path)
	}
	return value, nil
}

// GetDatabaseURL returns the Postgres connection string.
func (sm *SecretManager) GetDatabaseURL() (string, error) {
	return sm.read("secret/data/database", "connection_string")
}

// GetJWTSecret returns the token signing key.
func (sm *SecretManager) GetJWTSecret() (string, error) {
	return sm.read("secret/data/jwt", "secret")
}
