// Package spooler controls the Windows Print Spooler service.
//
// Restarting the spooler after a sweep is disabled in normal operation:
// the tool runs at startup/shutdown when the service state is managed by
// the system, and the swept keys are read lazily anyway. The restart
// exists for interactive remediation on a live machine and must be
// enabled both in config and on the command line.
package spooler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
)

// serviceName is the spooler's service identifier.
const serviceName = "spooler"

// Restart stops and starts the Print Spooler service.
func Restart(ctx context.Context, log zerolog.Logger) error {
	if runtime.GOOS != "windows" {
		return errors.New("the Print Spooler service only exists on windows")
	}

	log.Info().Str("service", serviceName).Msg("restarting Print Spooler")

	// "net stop" fails when the service is already stopped; that state
	// is fine to start from.
	if err := run(ctx, "net", "stop", serviceName); err != nil {
		log.Warn().Err(err).Str("service", serviceName).Msg("stop failed, attempting start anyway")
	}
	if err := run(ctx, "net", "start", serviceName); err != nil {
		return fmt.Errorf("start %s: %w", serviceName, err)
	}

	log.Info().Str("service", serviceName).Msg("Print Spooler restarted")
	return nil
}

// run executes a command and returns stderr in the error message if it fails.
func run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if errMsg := strings.TrimSpace(stderr.String()); errMsg != "" {
			return fmt.Errorf("%s", errMsg)
		}
		return err
	}
	return nil
}
