/*
Copyright 2016 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

// The log package logs to an io.Writer in the same format as CUPS, and
// optionally to the systemd journal.
package log

import (
	"strings"

	"github.com/coreos/go-systemd/journal"
)

// LogLevel represents a subset of the severity levels named by CUPS.
type LogLevel uint8

const (
	FATAL LogLevel = iota
	ERROR
	WARNING
	INFO
	DEBUG
)

func LevelFromString(level string) (LogLevel, bool) {
	switch strings.ToLower(level) {
	case "fatal":
		return FATAL, true
	case "error":
		return ERROR, true
	case "warning":
		return WARNING, true
	case "info":
		return INFO, true
	case "debug":
		return DEBUG, true
	default:
		return 0, false
	}
}

func (l LogLevel) priority() journal.Priority {
	switch l {
	case FATAL:
		return journal.PriCrit
	case ERROR:
		return journal.PriErr
	case WARNING:
		return journal.PriWarning
	case INFO:
		return journal.PriInfo
	default:
		return journal.PriDebug
	}
}

func Fatal(args ...interface{})                            { log(FATAL, "", "", args...) }
func Fatalf(format string, args ...interface{})            { log(FATAL, "", format, args...) }
func FatalQueue(queue string, args ...interface{})         { log(FATAL, queue, "", args...) }
func FatalQueuef(queue, format string, args ...interface{}) { log(FATAL, queue, format, args...) }

func Error(args ...interface{})                            { log(ERROR, "", "", args...) }
func Errorf(format string, args ...interface{})            { log(ERROR, "", format, args...) }
func ErrorQueue(queue string, args ...interface{})         { log(ERROR, queue, "", args...) }
func ErrorQueuef(queue, format string, args ...interface{}) { log(ERROR, queue, format, args...) }

func Warning(args ...interface{})                    { log(WARNING, "", "", args...) }
func Warningf(format string, args ...interface{})    { log(WARNING, "", format, args...) }
func WarningQueue(queue string, args ...interface{}) { log(WARNING, queue, "", args...) }
func WarningQueuef(queue, format string, args ...interface{}) {
	log(WARNING, queue, format, args...)
}

func Info(args ...interface{})                            { log(INFO, "", "", args...) }
func Infof(format string, args ...interface{})            { log(INFO, "", format, args...) }
func InfoQueue(queue string, args ...interface{})         { log(INFO, queue, "", args...) }
func InfoQueuef(queue, format string, args ...interface{}) { log(INFO, queue, format, args...) }

func Debug(args ...interface{})                            { log(DEBUG, "", "", args...) }
func Debugf(format string, args ...interface{})            { log(DEBUG, "", format, args...) }
func DebugQueue(queue string, args ...interface{})         { log(DEBUG, queue, "", args...) }
func DebugQueuef(queue, format string, args ...interface{}) { log(DEBUG, queue, format, args...) }
