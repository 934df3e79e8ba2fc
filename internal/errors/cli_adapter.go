package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// CLIErrorAdapter handles error presentation and exit code determination for the CLI.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	var bbe *BlogBuilderError
	if errors.As(err, &bbe) {
		return a.exitCodeFromCategory(bbe)
	}

	return 1
}

// exitCodeFromCategory maps BlogBuilderError to exit codes.
func (a *CLIErrorAdapter) exitCodeFromCategory(err *BlogBuilderError) int {
	switch err.Category {
	case CategoryValidation:
		return 2 // Invalid usage
	case CategoryConfig:
		return 7 // Configuration error
	case CategoryGit:
		return 8 // External system error
	case CategoryContent, CategoryLayout, CategoryRender:
		return 11 // Build error
	case CategoryOutput, CategoryFileSystem:
		return 12 // Destination error
	case CategoryInternal:
		return 10 // Internal error
	default:
		return 1 // General error
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	var bbe *BlogBuilderError
	if errors.As(err, &bbe) {
		if a.verbose {
			return bbe.Error()
		}
		switch bbe.Category {
		case CategoryConfig, CategoryValidation:
			return bbe.Message
		default:
			return fmt.Sprintf("%s: %s", bbe.Category, bbe.Message)
		}
	}

	return fmt.Sprintf("Error: %v", err)
}

// HandleError processes an error and exits the program with appropriate code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}

	exitCode := a.ExitCodeFor(err)
	message := a.FormatError(err)

	if a.verbose || GetCategory(err) == CategoryInternal {
		a.logger.Error("Build error", slog.String("category", string(GetCategory(err))), slog.String("error", err.Error()))
	}

	fmt.Fprintf(os.Stderr, "%s\n", message)
	os.Exit(exitCode)
}
