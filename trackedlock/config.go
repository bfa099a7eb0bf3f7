// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package trackedlock

import (
	"sync/atomic"
	"time"

	"github.com/NVIDIA/navmap/conf"
	"github.com/NVIDIA/navmap/logger"
)

// Up enables lock tracking as configured by:
//
//	TrackedLock.LockHoldTimeLimit - hold time that triggers a warning (default: 0, tracking disabled)
//	TrackedLock.LockCheckPeriod   - how often held locks are checked (default: 0, only checked at Unlock())
//
// A value that is absent or malformed is taken to be 0. Up must be paired with
// a call to Down before it is called again.
func Up(confMap conf.ConfMap) (err error) {
	lockHoldTimeLimit, err := confMap.FetchOptionValueDuration("TrackedLock", "LockHoldTimeLimit")
	if nil != err {
		lockHoldTimeLimit = 0
	}

	lockCheckPeriod, err := confMap.FetchOptionValueDuration("TrackedLock", "LockCheckPeriod")
	if nil != err {
		lockCheckPeriod = 0
	}

	err = nil

	if (0 > lockHoldTimeLimit) || (0 > lockCheckPeriod) {
		logger.Warnf("trackedlock.Up(): negative LockHoldTimeLimit (%v) or LockCheckPeriod (%v) taken to be 0", lockHoldTimeLimit, lockCheckPeriod)
		if 0 > lockHoldTimeLimit {
			lockHoldTimeLimit = 0
		}
		if 0 > lockCheckPeriod {
			lockCheckPeriod = 0
		}
	}

	globals.Lock()
	globals.watched = make(map[*mutexTrack]interface{})
	globals.lockCheckPeriod = lockCheckPeriod
	globals.Unlock()

	atomic.StoreInt64(&globals.lockHoldTimeLimit, int64(lockHoldTimeLimit))

	logger.Tracef("trackedlock.Up(): LockHoldTimeLimit %v LockCheckPeriod %v", lockHoldTimeLimit, lockCheckPeriod)

	if (0 == lockHoldTimeLimit) || (0 == lockCheckPeriod) {
		return
	}

	globals.stopChan = make(chan struct{})
	globals.doneChan = make(chan struct{})
	globals.lockCheckTicker = time.NewTicker(lockCheckPeriod)

	go lockWatcher(globals.lockCheckTicker.C)

	return
}

// Down stops the lock watcher (if running) and disables lock tracking
func Down() (err error) {
	if nil != globals.lockCheckTicker {
		globals.lockCheckTicker.Stop()
		globals.lockCheckTicker = nil
		globals.stopChan <- struct{}{}
		<-globals.doneChan
	}

	atomic.StoreInt64(&globals.lockHoldTimeLimit, 0)

	globals.Lock()
	for mt := range globals.watched {
		mt.isWatched = false
	}
	globals.watched = nil
	globals.Unlock()

	logger.Tracef("trackedlock.Down(): lock tracking disabled")

	return
}
