package config

import (
	"errors"
	"fmt"
	"os/user"

	"github.com/zalando/go-keyring"
)

// keyringUser returns the account name credentials are stored under.
func keyringUser() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("looking up current user: %w", err)
	}
	return u.Uid, nil
}

// LoadClientID returns the Imgur Client-ID stored in the keyring.
// An empty string and nil error means no credential has been saved.
func LoadClientID() (string, error) {
	uid, err := keyringUser()
	if err != nil {
		return "", err
	}
	id, err := keyring.Get(keyringService, uid)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("reading client id from keyring: %w", err)
	}
	return id, nil
}

// SaveClientID stores the Imgur Client-ID in the keyring.
func SaveClientID(clientID string) error {
	if clientID == "" {
		return errors.New("client id is empty")
	}
	uid, err := keyringUser()
	if err != nil {
		return err
	}
	if err := keyring.Set(keyringService, uid, clientID); err != nil {
		return fmt.Errorf("saving client id to keyring: %w", err)
	}
	return nil
}

// DeleteClientID removes the stored Imgur Client-ID. Deleting a missing credential is not an error.
func DeleteClientID() error {
	uid, err := keyringUser()
	if err != nil {
		return err
	}
	if err := keyring.Delete(keyringService, uid); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("deleting client id from keyring: %w", err)
	}
	return nil
}

// ResolveClientID returns flagValue when set, otherwise the keyring value.
// config is imported by util/log in release builds, so failures are returned
// rather than logged here.
func ResolveClientID(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	return LoadClientID()
}
