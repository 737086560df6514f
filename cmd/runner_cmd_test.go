package main

import (
	"errors"
	"testing"

	runnerpkg "github.com/lexlapax/go-llms/pkg/runner"
	"github.com/lexlapax/go-llms/pkg/runner/domain"
	"github.com/stretchr/testify/assert"
)

func TestExitCodeForSuccessIsZero(t *testing.T) {
	result := runnerpkg.RunResult{}
	assert.Equal(t, exitOK, exitCodeFor(result))
}

func TestExitCodeForBudgetStopTakesPriority(t *testing.T) {
	result := runnerpkg.RunResult{
		Err: errors.New("failed"),
		Batch: []domain.AttemptResult{
			{Metrics: &domain.RunMetrics{Budget: domain.BudgetSnapshot{HitStop: true}}},
		},
	}
	assert.Equal(t, exitBudgetExceeded, exitCodeFor(result))
}

func TestExitCodeForConsensusQuorumFailure(t *testing.T) {
	result := runnerpkg.RunResult{
		Err: errors.New("failed"),
		Batch: []domain.AttemptResult{
			{Metrics: &domain.RunMetrics{FailureKind: domain.FailureConsensusQuorum}},
		},
	}
	assert.Equal(t, exitQuorumNotMet, exitCodeFor(result))
}

func TestExitCodeForSchemaViolation(t *testing.T) {
	result := runnerpkg.RunResult{
		Err: errors.New("failed"),
		Batch: []domain.AttemptResult{
			{Metrics: &domain.RunMetrics{FailureKind: domain.FailureSchemaViolation}},
		},
	}
	assert.Equal(t, exitSchemaViolation, exitCodeFor(result))
}

func TestExitCodeForGenericFailureFallsBackToAllFailed(t *testing.T) {
	result := runnerpkg.RunResult{
		Err: errors.New("failed"),
		Batch: []domain.AttemptResult{
			{Metrics: &domain.RunMetrics{FailureKind: domain.FailureRetryable}},
		},
	}
	assert.Equal(t, exitAllFailed, exitCodeFor(result))
}

func TestExitCodeForSkipsNilMetrics(t *testing.T) {
	result := runnerpkg.RunResult{
		Err:   errors.New("failed"),
		Batch: []domain.AttemptResult{{Metrics: nil}},
	}
	assert.Equal(t, exitAllFailed, exitCodeFor(result))
}

func TestExitCodeFromErrorNilIsZero(t *testing.T) {
	assert.Equal(t, exitOK, exitCodeFromError(nil))
}

func TestExitCodeFromErrorExtractsCliExitError(t *testing.T) {
	err := &cliExitError{code: exitSchemaViolation, message: "bad schema"}
	assert.Equal(t, exitSchemaViolation, exitCodeFromError(err))
	assert.Equal(t, "bad schema", err.Error())
}

func TestExitCodeFromErrorDefaultsToOneForPlainError(t *testing.T) {
	assert.Equal(t, 1, exitCodeFromError(errors.New("unexpected")))
}

func TestExitErrorfWrapsCodeAndMessage(t *testing.T) {
	err := exitErrorf(exitConfigError, "missing %s", "flag")
	var exitErr *cliExitError
	assert.ErrorAs(t, err, &exitErr)
	assert.Equal(t, exitConfigError, exitErr.code)
	assert.Equal(t, "missing flag", exitErr.Error())
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, -4, int(parseLogLevel("debug")))
	assert.Equal(t, 0, int(parseLogLevel("info")))
	assert.Equal(t, 4, int(parseLogLevel("warn")))
	assert.Equal(t, 4, int(parseLogLevel("warning")))
	assert.Equal(t, 8, int(parseLogLevel("error")))
	assert.Equal(t, 0, int(parseLogLevel("")))
	assert.Equal(t, 0, int(parseLogLevel("nonsense")))
}
