package database

import "context"

// NoopLogger satisfies UserActionLogger and UserRepository when no MongoDB
// is configured.
type NoopLogger struct{}

func (NoopLogger) LogUserAction(int64, string, interface{}) error { return nil }

func (NoopLogger) UpdateUser(context.Context, int64, string, string, string, bool, string) error {
	return nil
}
