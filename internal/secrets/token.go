package secrets

import (
	"errors"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// “Service” groups the app’s secrets in the OS keychain.
	KeyringService = "awardpool"

	proxyAccount = "awardpool:proxy-token"
)

var ErrNoToken = errors.New("proxy token not found in keychain")

// GetProxyToken returns the stored proxy API token. ErrNoToken means none is
// set, which is the normal case: the proxy works anonymously.
func GetProxyToken() (string, error) {
	tok, err := keyring.Get(KeyringService, proxyAccount)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(tok) == "" {
		return "", ErrNoToken
	}
	return tok, nil
}

func SetProxyToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("token is empty")
	}
	return keyring.Set(KeyringService, proxyAccount, strings.TrimSpace(token))
}

func DeleteProxyToken() error {
	err := keyring.Delete(KeyringService, proxyAccount)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
