package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	khookerrors "github.com/knowledgehooks/khook/pkg/errors"
)

func TestClassifyErrMapsTaxonomyToExitCodes(t *testing.T) {
	require.Equal(t, exitMalformedInput, classifyErr(khookerrors.NewMalformedHook("h1", "bad", nil)))
	require.Equal(t, exitMalformedInput, classifyErr(khookerrors.NewInvalidPlan("h1", "cycle")))
	require.Equal(t, exitInfraFailure, classifyErr(khookerrors.NewIoFailure("op", nil)))
	require.Equal(t, exitInfraFailure, classifyErr(khookerrors.NewLockUnavailable("lock")))
	require.Equal(t, exitWorkflowFailed, classifyErr(khookerrors.NewStepFailure("s1", nil)))
}
