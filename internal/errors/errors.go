package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/slotsheet/internal/logger"
)

// Error taxonomy shared by the reconciliation and submission engine.
var (
	// ErrValidationSkip marks a remote record that matches no slot in the current grid
	ErrValidationSkip = errors.New("record does not match any slot")
	// ErrRemoteRejected is returned when the timesheet service reports a failure
	ErrRemoteRejected = errors.New("remote service rejected the request")
	// ErrTransport is returned when the remote call itself could not complete
	ErrTransport = errors.New("remote service unreachable")
	// ErrCatalogMiss marks a job id that is absent from the loaded catalog
	ErrCatalogMiss = errors.New("job not found in catalog")
)

// IsRemoteFailure reports whether err is a rejection or a transport failure.
// Both count the same way when a batch is aggregated.
func IsRemoteFailure(err error) bool {
	return errors.Is(err, ErrRemoteRejected) || errors.Is(err, ErrTransport)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
