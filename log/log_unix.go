// Copyright 2016 Google Inc. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

//go:build linux || darwin || freebsd
// +build linux darwin freebsd

package log

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/coreos/go-systemd/journal"
)

const (
	logFormat      = "%c [%s] %s\n"
	logQueueFormat = "%c [%s] [Queue %s] %s\n"

	dateTimeFormat = "02/Jan/2006:15:04:05 -0700"

	journalQueueFormat = "[Queue %s] %s"
)

var (
	levelToInitial = map[LogLevel]rune{
		FATAL:   'X', // "EMERG" in CUPS.
		ERROR:   'E',
		WARNING: 'W',
		INFO:    'I',
		DEBUG:   'D',
	}

	logger struct {
		writer         io.Writer
		level          LogLevel
		journalEnabled bool
	}
)

func init() {
	logger.writer = os.Stderr
	logger.level = WARNING
}

// SetWriter sets the io.Writer to log to. Default is os.Stderr.
func SetWriter(w io.Writer) {
	logger.writer = w
}

// SetLevel sets the minimum severity level to log. Default is WARNING;
// the wrappers talk to users on stderr, so chatter stays off by default.
func SetLevel(l LogLevel) {
	logger.level = l
}

// SetJournalEnabled enables or disables writing to the systemd journal. Default is false.
func SetJournalEnabled(b bool) {
	logger.journalEnabled = b
}

// JournalAvailable reports whether the systemd journal is listening.
func JournalAvailable() bool {
	return journal.Enabled()
}

func log(level LogLevel, queue, format string, args ...interface{}) {
	if level > logger.level {
		return
	}

	levelInitial := levelToInitial[level]
	dateTime := time.Now().Format(dateTimeFormat)
	var message string
	if format == "" {
		message = fmt.Sprint(args...)
	} else {
		message = fmt.Sprintf(format, args...)
	}

	journalVars := make(map[string]string)
	var journalMessage string
	if queue != "" {
		fmt.Fprintf(logger.writer, logQueueFormat, levelInitial, dateTime, queue, message)
		journalVars["QUEUE"] = queue
		journalMessage = fmt.Sprintf(journalQueueFormat, queue, message)
	} else {
		fmt.Fprintf(logger.writer, logFormat, levelInitial, dateTime, message)
		journalMessage = message
	}

	if logger.journalEnabled {
		pc := make([]uintptr, 1)
		runtime.Callers(3, pc)
		f := runtime.FuncForPC(pc[0])
		journalVars["CODE_FUNC"] = f.Name()
		file, line := f.FileLine(pc[0])
		journalVars["CODE_FILE"] = file
		journalVars["CODE_LINE"] = strconv.Itoa(line)
		journal.Send(journalMessage, level.priority(), journalVars)
	}
}
