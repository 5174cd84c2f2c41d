package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"cvattrack/internal/deps"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckBinary verifies that command resolves on PATH.
func CheckBinary(name, command, description string) Result {
	status := deps.CheckBinaries([]deps.Requirement{{Name: name, Command: command, Description: description}})[0]
	if !status.Available {
		return Result{Name: name, Detail: status.Detail}
	}
	return Result{Name: name, Passed: true, Detail: status.Command}
}
