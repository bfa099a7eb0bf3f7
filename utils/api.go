// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

// Package utils provides miscellaneous utilities for navmap and its tools.
package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"runtime"
	"strconv"
	"time"
)

var (
	trailingPathElementRE = regexp.MustCompile(`[^\/]*$`)
	leadingPackageNameRE  = regexp.MustCompile(`^[^.]*`)
	trailingFuncNameRE    = regexp.MustCompile(`[^.]*$`)
)

// GetGID returns the goroutine id of the caller.
//
// Only intended for log fields. Nothing should make decisions based on it.
func GetGID() uint64 {
	b := make([]byte, 64)
	return StackTraceToGID(b[:runtime.Stack(b, false)])
}

// StackTraceToGID extracts the goroutine id from the "goroutine N [...]"
// header of a runtime.Stack() trace, returning 0 if it is malformed.
func StackTraceToGID(stackTrace []byte) uint64 {
	b := bytes.TrimPrefix(stackTrace, []byte("goroutine "))
	spaceIndex := bytes.IndexByte(b, ' ')
	if 0 > spaceIndex {
		return 0
	}
	n, _ := strconv.ParseUint(string(b[:spaceIndex]), 10, 64)
	return n
}

// getAFnName returns "<package>.<function>" for the function level frames above the caller.
func getAFnName(level int) string {
	pcs := make([]uintptr, 1)
	n := runtime.Callers(level+2, pcs) // skip runtime.Callers() and ourself
	if 0 == n {
		return "unknown.unknown"
	}
	frame, _ := runtime.CallersFrames(pcs[:n]).Next()
	if "" == frame.Function {
		return "unknown.unknown"
	}
	return trailingPathElementRE.FindString(frame.Function)
}

// GetFuncPackage returns separate strings for the function and package level
// frames above the caller, along with the caller's goroutine id.
func GetFuncPackage(level int) (fn string, pkg string, gid uint64) {
	funcPkg := getAFnName(level + 1)

	pkg = leadingPackageNameRE.FindString(funcPkg)
	fn = trailingFuncNameRE.FindString(funcPkg)
	gid = GetGID()

	return fn, pkg, gid
}

type Stopwatch struct {
	StartTime   time.Time
	StopTime    time.Time
	ElapsedTime time.Duration
	IsRunning   bool
}

func NewStopwatch() *Stopwatch {
	return &Stopwatch{StartTime: time.Now(), IsRunning: true}
}

// Stop is a no-op (returning the recorded duration) if the Stopwatch was not running.
func (sw *Stopwatch) Stop() time.Duration {
	if sw.IsRunning {
		sw.StopTime = time.Now()
		sw.ElapsedTime = sw.StopTime.Sub(sw.StartTime)
		sw.IsRunning = false
	}
	return sw.ElapsedTime
}

func (sw *Stopwatch) Elapsed() time.Duration {
	if !sw.IsRunning {
		return sw.ElapsedTime
	}
	return time.Since(sw.StartTime)
}

func (sw *Stopwatch) ElapsedUs() int64 {
	return int64(sw.Elapsed() / time.Microsecond)
}

func (sw *Stopwatch) ElapsedString() string {
	return sw.Elapsed().String()
}

// JSONify returns input marshaled as JSON, optionally indented. Marshaling
// failures are reported inline rather than returned.
func JSONify(input interface{}, indentify bool) (output string) {
	var (
		err             error
		inputJSON       bytes.Buffer
		inputJSONPacked []byte
	)

	inputJSONPacked, err = json.Marshal(input)
	if nil != err {
		output = fmt.Sprintf("<<<json.Marshal failed: %v>>>", err)
		return
	}

	if !indentify {
		output = string(inputJSONPacked)
		return
	}

	err = json.Indent(&inputJSON, inputJSONPacked, "", "\t")
	if nil != err {
		output = fmt.Sprintf("<<<json.Indent failed: %v>>>", err)
		return
	}

	output = inputJSON.String()

	return
}
