package executor

import "context"

// Executor runs external programs such as yt-dlp.
type Executor interface {
	Run(ctx context.Context, cmd Command) (string, error)
}

// Command describes one program invocation. Dir is the working directory;
// empty means the current one.
type Command struct {
	Name string
	Args []string
	Dir  string
}
