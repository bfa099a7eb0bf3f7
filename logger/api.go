// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

// Package logger provides logging wrappers
//
// These wrappers allow us to standardize logging while still using a third-party
// logging package.
//
// This package is currently implemented on top of the sirupsen/logrus package:
//	https://github.com/sirupsen/logrus
//
// The APIs here add package, calling function, and goroutine to all logs.
//
// Logging of trace and debug logs are enabled/disabled on a per package basis
// via the Logging.TraceLevelLogging and Logging.DebugLevelLogging options (see Up()).
package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/NVIDIA/navmap/utils"
)

type Level int

// Our logging levels
//
// We have more detailed logging levels than the logrus log package, so we map
// from our levels to the logrus ones before calling logrus APIs.
const (
	// PanicLevel corresponds to logrus.PanicLevel; Logrus will log and then call panic with the log message
	PanicLevel Level = iota
	// FatalLevel corresponds to logrus.FatalLevel; Logrus will log and then calls `os.Exit(1)`
	FatalLevel
	// ErrorLevel corresponds to logrus.ErrorLevel
	ErrorLevel
	// WarnLevel corresponds to logrus.WarnLevel
	WarnLevel
	// InfoLevel corresponds to logrus.InfoLevel
	InfoLevel

	// TraceLevel is used for operational logs that trace success path through a package.
	// Enabled per package; when enabled these are logged at logrus.InfoLevel.
	TraceLevel

	// DebugLevel is used for very verbose logging of a package's internal operations.
	// Enabled per package and debug id; when enabled these are logged at logrus.DebugLevel.
	DebugLevel
)

// Debug ids understood by DebugfID()
const (
	DbgInternal string = "debug_internal"
	DbgTesting  string = "debug_test"
)

var (
	settingsLock sync.Mutex

	traceLevelEnabled = false
	debugLevelEnabled = false

	// packageTraceSettings lists the packages whose tracing may be turned on via
	// Logging.TraceLevelLogging. A package absent from this map never traces.
	packageTraceSettings = map[string]bool{
		"blunder":     false,
		"bucketstats": false,
		"cmd":         false,
		"conf":        false,
		"logger":      false,
		"navmap":      false,
		"trackedlock": false,
	}

	// packageDebugSettings holds the enabled debug ids of each package that
	// may be turned on via Logging.DebugLevelLogging.
	packageDebugSettings = map[string][]string{
		"cmd":    []string{},
		"navmap": []string{},
	}
)

func setTraceLoggingLevel(confStrSlice []string) {
	settingsLock.Lock()
	defer settingsLock.Unlock()

	traceLevelEnabled = false
	for pkg := range packageTraceSettings {
		packageTraceSettings[pkg] = false
	}

	for _, pkg := range confStrSlice {
		if "none" == pkg {
			traceLevelEnabled = false
			break
		}
		if _, ok := packageTraceSettings[pkg]; ok {
			packageTraceSettings[pkg] = true
			traceLevelEnabled = true
		}
	}
}

func setDebugLoggingLevel(confStrSlice []string) {
	settingsLock.Lock()
	defer settingsLock.Unlock()

	debugLevelEnabled = false
	for pkg := range packageDebugSettings {
		packageDebugSettings[pkg] = []string{}
	}

	for _, pkg := range confStrSlice {
		if "none" == pkg {
			debugLevelEnabled = false
			break
		}
		if _, ok := packageDebugSettings[pkg]; ok {
			packageDebugSettings[pkg] = []string{DbgInternal, DbgTesting}
			debugLevelEnabled = true
		}
	}
}

func traceEnabled(pkg string) (isEnabled bool) {
	settingsLock.Lock()
	isEnabled = packageTraceSettings[pkg]
	settingsLock.Unlock()
	return
}

func debugEnabled(pkg string, debugID string) bool {
	settingsLock.Lock()
	defer settingsLock.Unlock()

	for _, id := range packageDebugSettings[pkg] {
		if id == debugID {
			return true
		}
	}
	return false
}

// Log fields supported by logger
const (
	packageKey  string = "package"
	functionKey string = "function"
	errorKey    string = "error"
	gidKey      string = "goroutine"
)

// FuncCtx saves the fields common between log calls within a function so
// that package and function are only extracted once.
type FuncCtx struct {
	funcContext *log.Entry
}

func (ctx *FuncCtx) getPackage() string {
	pkg, _ := ctx.funcContext.Data[packageKey].(string)
	return pkg
}

// newLogEntry creates a logrus Entry carrying the function, package and
// goroutine of the function level frames above our caller.
func newLogEntry(level int, fields log.Fields) *log.Entry {
	fn, pkg, gid := utils.GetFuncPackage(level + 1)

	if nil == fields {
		fields = make(log.Fields)
	}
	fields[functionKey] = fn
	fields[packageKey] = pkg
	fields[gidKey] = gid

	return log.WithFields(fields)
}

func newFuncCtx(level int) (ctx *FuncCtx) {
	return &FuncCtx{funcContext: newLogEntry(level+1, nil)}
}

func newFuncCtxWithError(level int, err error) (ctx *FuncCtx) {
	return &FuncCtx{funcContext: newLogEntry(level+1, log.Fields{errorKey: err})}
}

var backtraceOneLevel int = 1

func logEnabled(level Level) bool {
	if (TraceLevel == level) && !traceLevelEnabled {
		return false
	}
	if (DebugLevel == level) && !debugLevelEnabled {
		return false
	}
	return true
}

// EXTERNAL logging APIs
//
// Logger intentionally does not provide a Debugf() API; use DebugfID() instead.

func DebugfID(id string, format string, args ...interface{}) {
	level := DebugLevel
	if !logEnabled(level) {
		return
	}
	ctx := newFuncCtx(backtraceOneLevel)
	ctx.logWithID(level, id, fmt.Sprintf(format, args...))
}

func Errorf(format string, args ...interface{}) {
	level := ErrorLevel
	if !logEnabled(level) {
		return
	}
	ctx := newFuncCtx(backtraceOneLevel)
	ctx.log(level, fmt.Sprintf(format, args...))
}

func Fatalf(format string, args ...interface{}) {
	level := FatalLevel
	if !logEnabled(level) {
		return
	}
	ctx := newFuncCtx(backtraceOneLevel)
	ctx.log(level, fmt.Sprintf(format, args...))
}

func Infof(format string, args ...interface{}) {
	level := InfoLevel
	if !logEnabled(level) {
		return
	}
	ctx := newFuncCtx(backtraceOneLevel)
	ctx.log(level, fmt.Sprintf(format, args...))
}

func Tracef(format string, args ...interface{}) {
	level := TraceLevel
	if !logEnabled(level) {
		return
	}
	ctx := newFuncCtx(backtraceOneLevel)
	ctx.log(level, fmt.Sprintf(format, args...))
}

func Warnf(format string, args ...interface{}) {
	level := WarnLevel
	if !logEnabled(level) {
		return
	}
	ctx := newFuncCtx(backtraceOneLevel)
	ctx.log(level, fmt.Sprintf(format, args...))
}

func ErrorfWithError(err error, format string, args ...interface{}) {
	level := ErrorLevel
	if !logEnabled(level) {
		return
	}
	ctx := newFuncCtxWithError(backtraceOneLevel, err)
	ctx.log(level, fmt.Sprintf(format, args...))
}

func TracefWithError(err error, format string, args ...interface{}) {
	level := TraceLevel
	if !logEnabled(level) {
		return
	}
	ctx := newFuncCtxWithError(backtraceOneLevel, err)
	ctx.log(level, fmt.Sprintf(format, args...))
}

// TraceEnter generates a function entry trace and returns the FuncCtx to be
// handed to a (typically deferred) TraceExit().
func TraceEnter(argsPrefix string, args ...interface{}) (ctx FuncCtx) {
	if !logEnabled(TraceLevel) {
		return
	}

	ctx.funcContext = newLogEntry(backtraceOneLevel, nil)
	ctx.traceInternal(">> called", argsPrefix, args...)

	return
}

// TraceExit generates a function exit trace using the package and function
// captured by TraceEnter().
func (ctx *FuncCtx) TraceExit(argsPrefix string, args ...interface{}) {
	if !logEnabled(TraceLevel) || (nil == ctx.funcContext) {
		return
	}

	ctx.traceInternal("<< returning", argsPrefix, args...)
}

func (ctx *FuncCtx) traceInternal(formatPrefix string, argsPrefix string, args ...interface{}) {
	format := formatPrefix + " %s" + strings.Repeat(" %+v", len(args))
	newArgs := append([]interface{}{argsPrefix}, args...)

	ctx.log(TraceLevel, fmt.Sprintf(format, newArgs...))
}

// log is the common low-level logging function used internal to this package.
//
// Following logrus.entry.go's equivalent, this is not declared with a pointer
// receiver to avoid races when used from multiple goroutines.
func (ctx FuncCtx) log(level Level, args ...interface{}) {
	if (TraceLevel == level) && !traceEnabled(ctx.getPackage()) {
		return
	}

	switch level {
	case PanicLevel:
		ctx.funcContext.Panic(args...)
	case FatalLevel:
		ctx.funcContext.Fatal(args...)
	case ErrorLevel:
		ctx.funcContext.Error(args...)
	case WarnLevel:
		ctx.funcContext.Warn(args...)
	case TraceLevel:
		ctx.funcContext.Info(args...)
	case InfoLevel:
		ctx.funcContext.Info(args...)
	case DebugLevel:
		ctx.funcContext.Debug(args...)
	}
}

func (ctx FuncCtx) logWithID(level Level, id string, args ...interface{}) {
	if (DebugLevel == level) && !debugEnabled(ctx.getPackage(), id) {
		return
	}

	ctx.log(level, args...)
}

// AddLogTarget adds another target for log messages to be written to. writer
// is called once for each log message.
//
// Up() must be called before this function is used.
func AddLogTarget(writer io.Writer) {
	logTargets.addWriter(writer)
}

// LogBuffer captures the most recent log entries; useful for writing test cases.
type LogBuffer struct {
	sync.Mutex
	LogEntries   []string // most recent log entry is [0]
	TotalEntries int      // count of all entries seen
}

type LogTarget struct {
	LogBuf *LogBuffer
}

// Init a LogTarget to hold up to nEntry log entries.
func (target *LogTarget) Init(nEntry int) {
	target.LogBuf = &LogBuffer{TotalEntries: 0}
	target.LogBuf.LogEntries = make([]string, nEntry)
}

// Write is called by logger for each log entry
func (target LogTarget) Write(p []byte) (n int, err error) {
	target.LogBuf.Lock()
	defer target.LogBuf.Unlock()

	target.LogBuf.TotalEntries++

	if 0 < len(target.LogBuf.LogEntries) {
		copy(target.LogBuf.LogEntries[1:], target.LogBuf.LogEntries[:len(target.LogBuf.LogEntries)-1])
		target.LogBuf.LogEntries[0] = strings.TrimRight(string(p), "\n")
	}

	n = len(p)
	return
}
