// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

// Package trackedlock provides a drop-in replacement for sync.Mutex that can
// report locks held for too long.
//
// Tracking is off until Up() is given a non-zero "TrackedLock.LockHoldTimeLimit".
// With tracking on, each Lock() records the locking goroutine and its stack
// trace. An Unlock() of a lock held longer than LockHoldTimeLimit logs a
// warning with the stack traces of both the Lock() and the Unlock(). If
// "TrackedLock.LockCheckPeriod" is also non-zero, a watcher goroutine wakes
// up once each period and logs any lock that is still held and has exceeded
// LockHoldTimeLimit, so that a lock that is never released is reported too.
//
// A Mutex locked before Up() is not tracked until its next Lock().
package trackedlock

import (
	"sync"
)

// Mutex wraps sync.Mutex with lock hold tracking. The zero value is an
// unlocked Mutex.
type Mutex struct {
	wrappedMutex sync.Mutex
	tracker      mutexTrack
}

func (m *Mutex) Lock() {
	m.wrappedMutex.Lock()

	m.tracker.lockTrack(m)
}

func (m *Mutex) Unlock() {
	m.tracker.unlockTrack(m)

	m.wrappedMutex.Unlock()
}
