//go:build windows

package store

import (
	"context"
	"errors"
	"fmt"

	envedit "github.com/goliatone/go-envedit"
	"golang.org/x/sys/windows/registry"
)

const (
	userEnvironmentKey   = `Environment`
	systemEnvironmentKey = `System\CurrentControlSet\Control\Session Manager\Environment`
)

// RegistryStore persists variables in the Windows registry: HKCU\Environment
// for the user scope and the Session Manager environment under HKLM for the
// system scope. Values are written as REG_EXPAND_SZ so embedded %NAME%
// references are expanded by consumers, never by this store.
type RegistryStore struct{}

// NewRegistryStore returns a RegistryStore.
func NewRegistryStore() *RegistryStore {
	return &RegistryStore{}
}

// Read implements envedit.Store.
func (s *RegistryStore) Read(_ context.Context, ref envedit.Ref) (string, bool, error) {
	key, err := openKey(ref.Scope, registry.QUERY_VALUE)
	if err != nil {
		return "", false, err
	}
	defer key.Close()

	value, _, err := key.GetStringValue(ref.Name)
	if errors.Is(err, registry.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("store: query %s: %w", ref.Identifier(), err)
	}
	return value, true, nil
}

// Write implements envedit.Store.
func (s *RegistryStore) Write(_ context.Context, ref envedit.Ref, value string) error {
	key, err := openKey(ref.Scope, registry.SET_VALUE)
	if err != nil {
		return err
	}
	defer key.Close()

	if err := key.SetExpandStringValue(ref.Name, value); err != nil {
		return fmt.Errorf("store: set %s: %w", ref.Identifier(), err)
	}
	return nil
}

// Delete implements envedit.Store. Deleting an absent name is not an error.
func (s *RegistryStore) Delete(_ context.Context, ref envedit.Ref) error {
	key, err := openKey(ref.Scope, registry.SET_VALUE)
	if err != nil {
		return err
	}
	defer key.Close()

	err = key.DeleteValue(ref.Name)
	if err != nil && !errors.Is(err, registry.ErrNotExist) {
		return fmt.Errorf("store: delete %s: %w", ref.Identifier(), err)
	}
	return nil
}

func openKey(scope envedit.Scope, access uint32) (registry.Key, error) {
	var (
		root registry.Key
		path string
	)
	switch scope {
	case envedit.ScopeSystem:
		root, path = registry.LOCAL_MACHINE, systemEnvironmentKey
	case envedit.ScopeUser:
		root, path = registry.CURRENT_USER, userEnvironmentKey
	default:
		return 0, ErrInvalidScope
	}
	key, err := registry.OpenKey(root, path, access)
	if err != nil {
		return 0, fmt.Errorf("store: open %s environment: %w", scope, err)
	}
	return key, nil
}
