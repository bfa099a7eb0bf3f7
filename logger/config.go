// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package logger

import (
	"io"
	"os"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/NVIDIA/navmap/conf"
)

type multiWriter struct {
	sync.Mutex
	writers []io.Writer
}

func (mw *multiWriter) addWriter(writer io.Writer) {
	mw.Lock()
	mw.writers = append(mw.writers, writer)
	mw.Unlock()
}

func (mw *multiWriter) reset() {
	mw.Lock()
	mw.writers = nil
	mw.Unlock()
}

func (mw *multiWriter) Write(p []byte) (n int, err error) {
	mw.Lock()
	defer mw.Unlock()

	for _, writer := range mw.writers {
		_, err = writer.Write(p)
		if nil != err {
			return
		}
	}

	n = len(p)
	return
}

var (
	logFile    *os.File
	logTargets multiWriter
)

// Up configures logging from the [Logging] section of confMap:
//
//	LogFilePath       - file to append log entries to (default: none, logging to stderr)
//	LogToConsole      - also log to stderr when LogFilePath is set (default: false)
//	TraceLevelLogging - packages whose Tracef() output is emitted (or "none")
//	DebugLevelLogging - packages whose DebugfID() output is emitted (or "none")
func Up(confMap conf.ConfMap) (err error) {
	log.SetFormatter(&log.TextFormatter{DisableColors: true})

	logTargets.reset()

	logFilePath, _ := confMap.FetchOptionValueString("Logging", "LogFilePath")
	if "" != logFilePath {
		logFile, err = os.OpenFile(logFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if nil != err {
			log.Errorf("couldn't open log file: %v", err)
			return
		}
		logTargets.addWriter(logFile)
	}

	logToConsole, err := confMap.FetchOptionValueBool("Logging", "LogToConsole")
	if nil != err {
		logToConsole = false
		err = nil
	}

	if ("" == logFilePath) || logToConsole {
		logTargets.addWriter(os.Stderr)
	}

	log.SetOutput(&logTargets)

	// We always enable max logging in logrus and decide in this package whether to log
	log.SetLevel(log.DebugLevel)

	traceConfSlice, _ := confMap.FetchOptionValueStringSlice("Logging", "TraceLevelLogging")
	setTraceLoggingLevel(traceConfSlice)

	debugConfSlice, _ := confMap.FetchOptionValueStringSlice("Logging", "DebugLevelLogging")
	setDebugLoggingLevel(debugConfSlice)

	return
}

// Down reverts logging to logrus defaults, closing any log file opened by Up()
func Down() (err error) {
	setTraceLoggingLevel(nil)
	setDebugLoggingLevel(nil)

	log.SetOutput(os.Stderr)
	logTargets.reset()

	if nil != logFile {
		err = logFile.Close()
		logFile = nil
	}

	return
}
