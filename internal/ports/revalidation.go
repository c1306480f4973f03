package ports

import "context"

// Revalidator asks frontends to drop cached copies of the given paths.
// Implementations must not block the calling mutation.
type Revalidator interface {
	Revalidate(paths ...string)
}

// RevalidationPublisher delivers one batch of paths to subscribers.
type RevalidationPublisher interface {
	Publish(ctx context.Context, paths []string) error
}
