package logger

import (
	"context"
	"os"
	"strconv"

	"github.com/grindlemire/graft"
	"go.trai.ch/anvil/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the logger Graft node.
	NodeID graft.ID = "adapter.logger"

	// JSONEnv selects JSON logging before the command line is parsed, so CI log
	// collectors also receive structured startup errors. --json-log still overrides it.
	JSONEnv = "ANVIL_JSON_LOG"
)

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Logger, error) {
			return fromEnv(os.Getenv), nil
		},
	})
}

// fromEnv creates the process logger. Unparsable values of JSONEnv leave pretty output on.
func fromEnv(getenv func(string) string) *Logger {
	l := &Logger{output: os.Stderr}
	if enabled, err := strconv.ParseBool(getenv(JSONEnv)); err == nil {
		l.jsonMode = enabled
	}
	l.rebuild()
	return l
}
