// Package tone spawns the external reference-tone utility.
package tone

import (
	"os/exec"

	"go.uber.org/zap"
)

// Play starts the configured audio command and walks away: no exit-status
// contract, no output captured. A failure to start is a warning, never a
// run failure.
func Play(log *zap.Logger, command string, args ...string) {
	if command == "" {
		return
	}

	cmd := exec.Command(command, args...)
	if err := cmd.Start(); err != nil {
		log.Warn("could not start reference tone", zap.String("command", command), zap.Error(err))
		return
	}
	go func() {
		_ = cmd.Wait()
	}()
	log.Debug("reference tone started", zap.String("command", command), zap.Int("pid", cmd.Process.Pid))
}
