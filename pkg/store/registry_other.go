//go:build !windows

package store

import (
	"context"

	envedit "github.com/goliatone/go-envedit"
)

// RegistryStore is unavailable off Windows; every call returns ErrUnsupported.
type RegistryStore struct{}

// NewRegistryStore returns a RegistryStore.
func NewRegistryStore() *RegistryStore {
	return &RegistryStore{}
}

func (s *RegistryStore) Read(context.Context, envedit.Ref) (string, bool, error) {
	return "", false, ErrUnsupported
}

func (s *RegistryStore) Write(context.Context, envedit.Ref, string) error {
	return ErrUnsupported
}

func (s *RegistryStore) Delete(context.Context, envedit.Ref) error {
	return ErrUnsupported
}
