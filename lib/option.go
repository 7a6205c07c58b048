/*
Copyright 2016 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

package lib

// Option is one parsed command line option, eg {"-P", "ajax"}.
// Value is empty for options that take no argument.
type Option struct {
	Flag  string
	Value string
}

// String returns the option as a single argv token, eg "-Pajax".
func (o Option) String() string {
	return o.Flag + o.Value
}

// ExtractOption finds every instance of flag in options and removes it.
// Both returned slices keep the order of options.
func ExtractOption(options []Option, flag string) (extracted, remaining []Option) {
	for _, o := range options {
		if o.Flag == flag {
			extracted = append(extracted, o)
		} else {
			remaining = append(remaining, o)
		}
	}
	return extracted, remaining
}

// LastValue returns the value of the last option, and false if there
// are no options.
func LastValue(options []Option) (string, bool) {
	if len(options) == 0 {
		return "", false
	}
	return options[len(options)-1].Value, true
}

// JoinOptions puts options back together into argv form, followed by
// the positional arguments.
func JoinOptions(options []Option, arguments []string) []string {
	args := make([]string, 0, len(options)+len(arguments))
	for _, o := range options {
		args = append(args, o.String())
	}
	return append(args, arguments...)
}
