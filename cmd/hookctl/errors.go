package main

import khookerrors "github.com/knowledgehooks/khook/pkg/errors"

// classifyErr maps a taxonomy error onto spec §6's CLI exit codes.
func classifyErr(err error) int {
	switch khookerrors.KindOf(err) {
	case "MalformedHook", "InvalidPlan", "ValidationError", "TemplateImpurity":
		return exitMalformedInput
	case "IoFailure", "LockUnavailable":
		return exitInfraFailure
	default:
		return exitWorkflowFailed
	}
}
