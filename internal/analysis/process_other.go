//go:build !unix

package analysis

import "os/exec"

// configureProcess keeps exec's default cancellation, which kills the worker itself.
func configureProcess(cmd *exec.Cmd) {}
