// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package trackedlock

import (
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/NVIDIA/navmap/logger"
	"github.com/NVIDIA/navmap/utils"
)

const (
	stackTraceBufSize      = 4040
	lockWatcherLocksLogged = 16 // max overlimit locks logged by each lockWatcher() pass
)

type globalsStruct struct {
	sync.Mutex                                    // protects the fields below and every watched mutexTrack
	lockHoldTimeLimit int64                       // time.Duration; accessed atomically as Lock() checks it unlocked
	lockCheckPeriod   time.Duration               // lockWatcher() wakes up once each period (if non-zero)
	watched           map[*mutexTrack]interface{} // tracked locks -> the *Mutex wrapping them
	lockCheckTicker   *time.Ticker                // drives lockWatcher()
	stopChan          chan struct{}               // lockWatcher() should exit
	doneChan          chan struct{}               // lockWatcher() has exited
}

var globals globalsStruct

type mutexTrack struct {
	isWatched bool      // true if in globals.watched
	locked    bool      // true between a tracked Lock() and its Unlock()
	lockTime  time.Time // time last lock operation completed
	lockerGID uint64    // goroutine ID of the last locker
	lockStack string    // stack trace when last locked
}

func lockHoldTimeLimit() time.Duration {
	return time.Duration(atomic.LoadInt64(&globals.lockHoldTimeLimit))
}

func stackTrace() []byte {
	buf := make([]byte, stackTraceBufSize)
	return buf[:runtime.Stack(buf, false)]
}

func (mt *mutexTrack) lockTrack(wrappedLock interface{}) {
	if 0 == lockHoldTimeLimit() {
		return
	}

	lockStack := stackTrace()

	globals.Lock()

	mt.locked = true
	mt.lockTime = time.Now()
	mt.lockerGID = utils.StackTraceToGID(lockStack)
	mt.lockStack = string(lockStack)

	if !mt.isWatched && (nil != globals.watched) && (0 != globals.lockCheckPeriod) {
		globals.watched[mt] = wrappedLock
		mt.isWatched = true
	}

	globals.Unlock()
}

// Only the holder of the wrapped lock writes mt.locked, so it may be
// tested here without holding globals.
func (mt *mutexTrack) unlockTrack(wrappedLock interface{}) {
	if !mt.locked {
		return
	}

	globals.Lock()

	mt.locked = false
	lockTime := mt.lockTime
	lockStack := mt.lockStack
	mt.lockStack = ""

	globals.Unlock()

	limit := lockHoldTimeLimit()
	held := time.Since(lockTime)

	if (0 != limit) && (held >= limit) {
		logger.Warnf("Unlock(): %T at %p locked for %f sec; stack at call to Lock():\n%s stack at Unlock():\n%s",
			wrappedLock, wrappedLock, held.Seconds(), lockStack, string(stackTrace()))
	}
}

// longLockHolder is a snapshot of a lock held too long
type longLockHolder struct {
	lockPtr      interface{}
	lockTime     time.Time
	lockerGID    uint64
	lockStackStr string
}

// checkLocks logs (up to lockWatcherLocksLogged of) the locks held longer
// than the limit, longest held first. Locks that have been idle for a whole
// lockCheckPeriod stop being watched until they are next locked.
func checkLocks() {
	var (
		longLockHolders = make([]*longLockHolder, 0)
	)

	now := time.Now()
	limit := lockHoldTimeLimit()

	globals.Lock()
	for mt, lockPtr := range globals.watched {
		if !mt.locked {
			if now.Sub(mt.lockTime) >= globals.lockCheckPeriod {
				mt.isWatched = false
				delete(globals.watched, mt)
			}
			continue
		}
		if now.Sub(mt.lockTime) >= limit {
			longLockHolders = append(longLockHolders, &longLockHolder{
				lockPtr:      lockPtr,
				lockTime:     mt.lockTime,
				lockerGID:    mt.lockerGID,
				lockStackStr: mt.lockStack,
			})
		}
	}
	globals.Unlock()

	sort.Slice(longLockHolders, func(i int, j int) bool {
		return longLockHolders[i].lockTime.Before(longLockHolders[j].lockTime)
	})
	if len(longLockHolders) > lockWatcherLocksLogged {
		longLockHolders = longLockHolders[:lockWatcherLocksLogged]
	}

	for _, holder := range longLockHolders {
		logger.Warnf("trackedlock watcher: %T at %p locked for %f sec by goroutine %d; stack at call to Lock():\n%s",
			holder.lockPtr, holder.lockPtr, now.Sub(holder.lockTime).Seconds(), holder.lockerGID, holder.lockStackStr)
	}
}

// lockWatcher periodically checks for locks that have been held too long
func lockWatcher(tick <-chan time.Time) {
	for {
		select {
		case <-globals.stopChan:
			// perform one last check
			checkLocks()
			globals.doneChan <- struct{}{}
			return
		case <-tick:
			checkLocks()
		}
	}
}
