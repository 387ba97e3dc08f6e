package envedit

import (
	"context"
	"errors"
)

// recordingStore is an in-memory Store that counts every call and can be
// told to fail.
type recordingStore struct {
	values map[string]string

	reads   int
	writes  int
	deletes int
	written []string

	readErr   error
	writeErr  error
	deleteErr error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{values: map[string]string{}}
}

func (s *recordingStore) put(ref Ref, value string) {
	s.values[ref.Identifier()] = value
}

func (s *recordingStore) get(ref Ref) (string, bool) {
	value, ok := s.values[ref.Identifier()]
	return value, ok
}

func (s *recordingStore) Read(_ context.Context, ref Ref) (string, bool, error) {
	s.reads++
	if s.readErr != nil {
		return "", false, s.readErr
	}
	value, ok := s.values[ref.Identifier()]
	return value, ok, nil
}

func (s *recordingStore) Write(_ context.Context, ref Ref, value string) error {
	s.writes++
	if s.writeErr != nil {
		return s.writeErr
	}
	s.values[ref.Identifier()] = value
	s.written = append(s.written, value)
	return nil
}

func (s *recordingStore) Delete(_ context.Context, ref Ref) error {
	s.deletes++
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.values, ref.Identifier())
	return nil
}

type recordingNotifier struct {
	changes []Change
	err     error
}

func (n *recordingNotifier) BroadcastChange(_ context.Context, change Change) error {
	n.changes = append(n.changes, change)
	return n.err
}

var errStoreDown = errors.New("store unavailable")

type fakeEnviron struct {
	values map[string]string
	sets   int
	err    error
}

func (e *fakeEnviron) Getenv(key string) string {
	return e.values[key]
}

func (e *fakeEnviron) Setenv(key, value string) error {
	e.sets++
	if e.err != nil {
		return e.err
	}
	if e.values == nil {
		e.values = map[string]string{}
	}
	e.values[key] = value
	return nil
}

type fakeProgramCache struct {
	data   map[string]any
	hits   int
	misses int
}

func (c *fakeProgramCache) Get(key string) (any, bool) {
	if c.data == nil {
		c.misses++
		return nil, false
	}
	value, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return value, ok
}

func (c *fakeProgramCache) Set(key string, value any) {
	if c.data == nil {
		c.data = map[string]any{}
	}
	c.data[key] = value
}
