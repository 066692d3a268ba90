package inbox

import "context"

// Inbox processes a dropped list file: one URL or video id per line.
type Inbox interface {
	Handle(ctx context.Context, path string) error
}
