package worker

import (
	"errors"
	"time"
)

// ErrQueueFull is returned by Dispatch when the pool cannot take more work
var ErrQueueFull = errors.New("worker queue full")

// ============================================================================
// Expiry Scheduling
// ============================================================================

const (
	// StandbyThreshold is how far out a sweep must be before the worker
	// sleeps in standby instead of arming the final timer
	StandbyThreshold = time.Hour
	// StandbyWakeBefore is how long before midnight the standby timer wakes
	StandbyWakeBefore = 45 * time.Minute
	// EarlyFireTolerance is how early a timer may fire and still sweep
	EarlyFireTolerance = 10 * time.Second
	// LateFireWindow separates an early fire from a slightly late one
	LateFireWindow = 23 * time.Hour
)

// ============================================================================
// Log Messages - Worker Pool
// ============================================================================

// LogMsgWorkerJobFailed is logged when a worker fails to process a job
const LogMsgWorkerJobFailed = "Worker job failed"

// ============================================================================
// Log Messages - Event Expiry Worker
// ============================================================================

const (
	LogMsgExpiryStandby         = "Event expiry worker in standby"
	LogMsgExpiryScheduled       = "Event expiry sweep scheduled"
	LogMsgExpiryStarting        = "Event expiry sweep starting"
	LogMsgExpiryCompleted       = "Event expiry sweep completed"
	LogMsgExpiryFailed          = "Event expiry sweep failed"
	LogMsgExpiryShuttingDown    = "Shutting down event expiry worker"
	LogMsgExpiryShutdownDone    = "Event expiry worker shutdown complete"
	LogMsgExpiryShutdownTimeout = "Event expiry worker shutdown timeout, a sweep may still be running"
)

// ============================================================================
// Test Configuration
// ============================================================================

// Test pool configuration values used in pool_test.go
const (
	TestWorkerCount           = 2
	TestQueueSize             = 10
	TestExpectedJobCount      = 2
	TestWorkerProcessWaitTime = 100 // milliseconds
)
