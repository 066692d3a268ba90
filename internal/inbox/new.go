package inbox

import (
	"time"

	"github.com/nguyentantai21042004/transcript-flow/internal/config"
	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
	"github.com/nguyentantai21042004/transcript-flow/internal/processor"
)

type implInbox struct {
	processor     processor.Processor
	doneDir       string
	useSpellCheck bool
	useSummary    bool
	logger        logger.Logger
	now           func() time.Time
}

// New creates an Inbox that extracts every listed video with the enrichment
// flags of cfg and moves handled files into cfg.DoneDir.
func New(proc processor.Processor, cfg config.WatcherConfig, log logger.Logger) Inbox {
	return &implInbox{
		processor:     proc,
		doneDir:       cfg.DoneDir,
		useSpellCheck: cfg.UseSpellCheck,
		useSummary:    cfg.UseSummary,
		logger:        log,
		now:           time.Now,
	}
}
