/*
Copyright 2016 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

package wrapper

import (
	"bytes"
	"errors"
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/mit-athena/printing-config/dispatch"
	"github.com/mit-athena/printing-config/lib"
	"github.com/mit-athena/printing-config/queue"
)

const (
	ajaxPcap    = "ajax:rp=ajax:rm=GET-PRINT.MIT.EDU:ka#0:mc#0:"
	ashdownPcap = "ashdown:rp=ashdown:rm=MULCH.MIT.EDU:ka#0:mc#0:"
)

type lookup struct{ name, hesiodType string }

type fakeDirectory map[lookup][]string

func (d fakeDirectory) Lookup(name, hesiodType string) []string {
	return d[lookup{name, hesiodType}]
}

type fakeSpooler struct {
	uris         map[string]string
	defaultQueue string
}

func (s *fakeSpooler) DeviceURI(printer string) string { return s.uris[printer] }
func (s *fakeSpooler) DefaultDestination() string      { return s.defaultQueue }
func (s *fakeSpooler) Destinations() []string {
	var d []string
	for name := range s.uris {
		d = append(d, name)
	}
	return d
}

type fakeProber map[string]bool

func (p fakeProber) IsCUPSServer(host string) bool { return p[host] }

type fakeResolver queue.Resolution

func (r fakeResolver) Resolve(string) queue.Resolution { return queue.Resolution(r) }

type testEnv struct {
	*Environment
	stdout, stderr *bytes.Buffer
	execs          []*dispatch.Invocation
}

// The Athena world the tests run in: ajax is on a CUPS server, ashdown is
// on an LPRng server.
var athena = fakeDirectory{
	{"cups-print", "sloc"}: {"GET-PRINT.MIT.EDU"},
	{"ajax", "pcap"}:       {ajaxPcap},
	{"ashdown", "pcap"}:    {ashdownPcap},
}

var cupsServers = fakeProber{"GET-PRINT.MIT.EDU": true}

func newTestEnv(environ map[string]string, directory fakeDirectory, spooler *fakeSpooler) *testEnv {
	config := lib.DefaultConfig
	if spooler == nil {
		spooler = &fakeSpooler{}
	}

	te := &testEnv{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	te.Environment = &Environment{
		Config:    &config,
		Resolver:  queue.NewResolver(directory, spooler, cupsServers, config.CUPSFrontends, config.CUPSBackendLocations),
		Directory: directory,
		Spooler:   spooler,
		LookupEnv: func(key string) (string, bool) {
			v, exists := environ[key]
			return v, exists
		},
		Environ: func() []string {
			var env []string
			for k, v := range environ {
				env = append(env, k+"="+v)
			}
			sort.Strings(env)
			return env
		},
		Hostname: func() (string, error) { return "w20-575-1.mit.edu", nil },
		Stdout:   te.stdout,
		Stderr:   te.stderr,
		Exec: func(i *dispatch.Invocation) error {
			te.execs = append(te.execs, i)
			return nil
		},
		QueueState: func(host, queue string) (string, error) {
			return "", errors.New("no lpd in tests")
		},
		CUPSClientIsOld: func() bool { return false },
	}
	return te
}

// exec returns the single backend invocation.
func (te *testEnv) exec(t *testing.T) *dispatch.Invocation {
	t.Helper()
	if len(te.execs) != 1 {
		t.Fatalf("expected one exec, got %d; stderr %q", len(te.execs), te.stderr.String())
	}
	return te.execs[0]
}

func expectInvocation(t *testing.T, i *dispatch.Invocation, binary string, argv []string) {
	t.Helper()
	if i.Binary != binary {
		t.Errorf("ran %s, expected %s", i.Binary, binary)
	}
	if !reflect.DeepEqual(i.Argv, argv) {
		t.Errorf("argv %q, expected %q", i.Argv, argv)
	}
}

func hasEnv(i *dispatch.Invocation, kv string) bool {
	for _, e := range i.Env {
		if e == kv {
			return true
		}
	}
	return false
}

func TestLprNonexistentPrinter(t *testing.T) {
	te := newTestEnv(map[string]string{"ATHENA_USER": "quentin"}, fakeDirectory{}, nil)

	if status := te.Lpr([]string{"lpr", "-Pstark", "puppies biting nose.jpg"}); status != 0 {
		t.Fatalf("exit %d", status)
	}

	expectInvocation(t, te.exec(t), "cups-lpr",
		[]string{"lpr", "-Uquentin", "-Pstark", "-m", "puppies biting nose.jpg"})
	if !strings.Contains(te.stderr.String(), "The print queue 'stark' does not appear to exist.") ||
		!strings.Contains(te.stderr.String(), "'mitprint' queue") {
		t.Errorf("no missing queue warning in %q", te.stderr.String())
	}
}

func TestLprNoDefaultPrinter(t *testing.T) {
	te := newTestEnv(map[string]string{"ATHENA_USER": "quentin"}, fakeDirectory{}, nil)

	if status := te.Lpr([]string{"lpr", "puppies biting nose.jpg"}); status != lib.ExitUsage {
		t.Fatalf("exit %d, expected %d", status, lib.ExitUsage)
	}
	if len(te.execs) != 0 {
		t.Fatalf("ran %v", te.execs)
	}
	if !strings.Contains(te.stderr.String(), "No default printer configured. Specify a -P option") {
		t.Errorf("stderr %q", te.stderr.String())
	}
}

func TestLprAthenaCUPSQueue(t *testing.T) {
	te := newTestEnv(map[string]string{"ATHENA_USER": "jdreed"}, athena, nil)

	if status := te.Lpr([]string{"lpr", "-P", "ajax"}); status != 0 {
		t.Fatalf("exit %d", status)
	}

	i := te.exec(t)
	expectInvocation(t, i, "cups-lpr", []string{"lpr", "-Ujdreed", "-Pajax", "-m"})
	if !hasEnv(i, "CUPS_SERVER=GET-PRINT.MIT.EDU") {
		t.Errorf("env %v", i.Env)
	}
	if te.stderr.Len() != 0 {
		t.Errorf("unexpected warnings %q", te.stderr.String())
	}
}

func TestLprAthenaLPRngQueue(t *testing.T) {
	te := newTestEnv(map[string]string{"ATHENA_USER": "jdreed"}, athena, nil)

	te.Lpr([]string{"lpr", "-Pashdown", "thesis.ps"})

	i := te.exec(t)
	expectInvocation(t, i, "mit-lpr", []string{"lpr", "-Ujdreed", "-Pashdown", "-mzephyr%jdreed", "thesis.ps"})
	if !hasEnv(i, "CUPS_SERVER=MULCH.MIT.EDU") {
		t.Errorf("env %v", i.Env)
	}
}

func TestLprWithoutAthenaUser(t *testing.T) {
	te := newTestEnv(map[string]string{}, athena, nil)

	te.Lpr([]string{"lpr", "-Pajax", "-#", "2", "thesis.ps"})

	expectInvocation(t, te.exec(t), "cups-lpr", []string{"lpr", "-Pajax", "-#2", "thesis.ps"})
}

func TestLprNoZephyr(t *testing.T) {
	te := newTestEnv(map[string]string{"ATHENA_USER": "jdreed"}, athena, nil)

	te.Lpr([]string{"lpr", "-N", "-Pajax", "thesis.ps"})

	expectInvocation(t, te.exec(t), "cups-lpr", []string{"lpr", "-Ujdreed", "-Pajax", "thesis.ps"})
	if !strings.Contains(te.stderr.String(), "You appear to be using LPRng-style arguments") {
		t.Errorf("no deprecation warning in %q", te.stderr.String())
	}
}

func TestLprTranslatesLPRngOptions(t *testing.T) {
	te := newTestEnv(map[string]string{"ATHENA_USER": "jdreed"}, athena, nil)

	te.Lpr([]string{"lpr", "-Pajax", "-Zduplex", "-w80", "thesis.ps"})

	expectInvocation(t, te.exec(t), "cups-lpr",
		[]string{"lpr", "-Ujdreed", "-Pajax", "-osides=two-sided-long-edge", "-m", "thesis.ps"})
	if !strings.Contains(te.stderr.String(), "Warning: option -w80 not converted to CUPS\n") {
		t.Errorf("no translation warning in %q", te.stderr.String())
	}
}

func TestLprLPRngOptionsForLPRngQueue(t *testing.T) {
	te := newTestEnv(map[string]string{"ATHENA_USER": "jdreed"}, athena, nil)

	te.Lpr([]string{"lpr", "-Pashdown", "-Zduplex", "thesis.ps"})

	expectInvocation(t, te.exec(t), "mit-lpr",
		[]string{"lpr", "-Ujdreed", "-Pashdown", "-Zduplex", "-mzephyr%jdreed", "thesis.ps"})
}

func TestLprLPROPT(t *testing.T) {
	te := newTestEnv(map[string]string{"ATHENA_USER": "jdreed", "LPROPT": "-Zduplex"}, athena, nil)

	te.Lpr([]string{"lpr", "-P", "ajax"})

	expectInvocation(t, te.exec(t), "cups-lpr", []string{"lpr", "-Ujdreed", "-Pajax", "-m"})
	if !strings.Contains(te.stderr.String(), "$LPROPT environment variable is deprecated") {
		t.Errorf("no LPROPT warning in %q", te.stderr.String())
	}
}

func TestLprSyntaxError(t *testing.T) {
	te := newTestEnv(map[string]string{}, athena, nil)

	if status := te.Lpr([]string{"lpr", "-Q", "-Pajax"}); status != lib.ExitUsage {
		t.Fatalf("exit %d, expected %d", status, lib.ExitUsage)
	}
	if len(te.execs) != 0 {
		t.Fatalf("ran %v", te.execs)
	}
	stderr := te.stderr.String()
	if !strings.HasPrefix(stderr, "Syntax Error: Incorrect option passed.") ||
		!strings.Contains(stderr, "Valid options: -E -H [arg] -U [arg] -P [arg] -# [arg] -h -l -m -o [arg]") {
		t.Errorf("stderr %q", stderr)
	}
}

func TestLprDefaultFromEnvironment(t *testing.T) {
	te := newTestEnv(map[string]string{"PRINTER": "ajax"}, athena, &fakeSpooler{defaultQueue: "ashdown"})

	te.Lpr([]string{"lpr", "thesis.ps"})

	expectInvocation(t, te.exec(t), "cups-lpr", []string{"lpr", "-Pajax", "thesis.ps"})
}

func TestLprLastQueueWins(t *testing.T) {
	te := newTestEnv(map[string]string{}, athena, nil)

	te.Lpr([]string{"lpr", "-Pashdown", "-Pajax", "thesis.ps"})

	expectInvocation(t, te.exec(t), "cups-lpr", []string{"lpr", "-Pajax", "thesis.ps"})
}

func TestLprMisnamedLocalQueue(t *testing.T) {
	spooler := &fakeSpooler{uris: map[string]string{"w20": "ipp://cluster-printers.mit.edu:631/printers/ajax"}}
	te := newTestEnv(map[string]string{}, athena, spooler)

	te.Lpr([]string{"lpr", "-Pw20", "thesis.ps"})

	i := te.exec(t)
	expectInvocation(t, i, "cups-lpr", []string{"lpr", "-Pajax", "thesis.ps"})
	if !hasEnv(i, "CUPS_SERVER=GET-PRINT.MIT.EDU") {
		t.Errorf("env %v", i.Env)
	}
}

func TestLprLocalOnlyQueue(t *testing.T) {
	spooler := &fakeSpooler{uris: map[string]string{"patience": "mdns://patience._printer._tcp.local."}}
	te := newTestEnv(map[string]string{"CUPS_SERVER": "localhost"}, athena, spooler)

	te.Lpr([]string{"lpr", "-Ppatience", "thesis.ps"})

	i := te.exec(t)
	expectInvocation(t, i, "cups-lpr", []string{"lpr", "-Ppatience", "thesis.ps"})
	if !hasEnv(i, "CUPS_SERVER=localhost") {
		t.Errorf("env %v", i.Env)
	}
	if te.stderr.Len() != 0 {
		t.Errorf("unexpected warnings %q", te.stderr.String())
	}
}

func TestDebugEcho(t *testing.T) {
	te := newTestEnv(map[string]string{"ATHENA_USER": "jdreed", "DEBATHENA_DEBUG": "1"}, athena, nil)

	te.Lpr([]string{"lpr", "-Pajax"})

	if s := te.stderr.String(); s != "I: Running CUPS_SERVER=GET-PRINT.MIT.EDU cups-lpr -Ujdreed -Pajax -m\n" {
		t.Errorf("stderr %q", s)
	}
}

func TestUnknownSystem(t *testing.T) {
	te := newTestEnv(map[string]string{}, athena, nil)
	te.Resolver = fakeResolver{System: lib.PrintingSystem(42), Queue: "ajax"}

	if status := te.Lprm([]string{"lprm", "-Pajax"}); status != lib.ExitInternal {
		t.Fatalf("exit %d, expected %d", status, lib.ExitInternal)
	}
	if len(te.execs) != 0 {
		t.Fatalf("ran %v", te.execs)
	}
	if !strings.Contains(te.stderr.String(), "Error: Unknown printing infrastructure") {
		t.Errorf("stderr %q", te.stderr.String())
	}
}

func TestExecFailure(t *testing.T) {
	te := newTestEnv(map[string]string{}, athena, nil)
	te.Exec = func(*dispatch.Invocation) error { return errors.New("no such file or directory") }

	if status := te.Lp([]string{"lp", "-dajax", "thesis.ps"}); status != lib.ExitInternal {
		t.Fatalf("exit %d, expected %d", status, lib.ExitInternal)
	}
}

func TestLprmAllJobs(t *testing.T) {
	te := newTestEnv(map[string]string{}, athena, nil)
	te.Lprm([]string{"lprm", "-Pajax", "-"})
	expectInvocation(t, te.exec(t), "cups-lprm", []string{"lprm", "-Pajax", "-"})

	te = newTestEnv(map[string]string{}, athena, nil)
	te.Lprm([]string{"lprm", "-Pashdown", "-"})
	expectInvocation(t, te.exec(t), "mit-lprm", []string{"lprm", "-Pashdown"})
}

func TestLprmJob(t *testing.T) {
	te := newTestEnv(map[string]string{}, athena, &fakeSpooler{defaultQueue: "ajax"})

	te.Lprm([]string{"lprm", "-U", "jdreed", "123"})

	expectInvocation(t, te.exec(t), "cups-lprm", []string{"lprm", "-Pajax", "-Ujdreed", "123"})
}

func TestLpQueueFlag(t *testing.T) {
	te := newTestEnv(map[string]string{}, athena, nil)

	te.Lp([]string{"lp", "-n", "2", "-d", "ajax", "thesis.ps"})

	expectInvocation(t, te.exec(t), "cups-lp", []string{"lp", "-dajax", "-n2", "thesis.ps"})
}

func TestLpNoDefaultPrinter(t *testing.T) {
	te := newTestEnv(map[string]string{}, fakeDirectory{}, nil)

	if status := te.Lp([]string{"lp", "thesis.ps"}); status != lib.ExitUsage {
		t.Fatalf("exit %d, expected %d", status, lib.ExitUsage)
	}
	if !strings.Contains(te.stderr.String(), "Specify a -d option") {
		t.Errorf("stderr %q", te.stderr.String())
	}
}

func TestLpqDispatch(t *testing.T) {
	te := newTestEnv(map[string]string{}, athena, nil)

	te.Lpq([]string{"lpq", "-Pashdown", "-l"})

	expectInvocation(t, te.exec(t), "mit-lpq", []string{"lpq", "-Pashdown", "-l"})
}

func TestLpqRFC1179(t *testing.T) {
	te := newTestEnv(map[string]string{}, athena, nil)
	te.Config.LPQRFC1179Fallback = FallbackAlways
	var asked []string
	te.QueueState = func(host, queue string) (string, error) {
		asked = append(asked, host, queue)
		return "ajax is ready\nno entries\n", nil
	}

	if status := te.Lpq([]string{"lpq", "-Pajax"}); status != 0 {
		t.Fatalf("exit %d", status)
	}
	if len(te.execs) != 0 {
		t.Fatalf("ran %v", te.execs)
	}
	if !reflect.DeepEqual(asked, []string{"GET-PRINT.MIT.EDU", "ajax"}) {
		t.Errorf("asked %v", asked)
	}
	if te.stdout.String() != "ajax is ready\nno entries\n\n" {
		t.Errorf("stdout %q", te.stdout.String())
	}
}

func TestLpqRFC1179Failure(t *testing.T) {
	te := newTestEnv(map[string]string{}, athena, nil)
	te.Config.LPQRFC1179Fallback = FallbackAlways

	te.Lpq([]string{"lpq", "-Pajax"})

	expectInvocation(t, te.exec(t), "cups-lpq", []string{"lpq", "-Pajax"})
}

func TestLpqRFC1179Policy(t *testing.T) {
	testCases := []struct {
		policy   string
		oldCUPS  bool
		args     []string
		fallback bool
	}{
		{FallbackAuto, true, nil, true},
		{FallbackAuto, false, nil, false},
		{FallbackAlways, false, nil, true},
		{FallbackNever, true, nil, false},
		{FallbackAlways, true, []string{"-a"}, false},
	}

	for _, tc := range testCases {
		te := newTestEnv(map[string]string{}, athena, nil)
		te.Config.LPQRFC1179Fallback = tc.policy
		te.CUPSClientIsOld = func() bool { return tc.oldCUPS }
		te.QueueState = func(host, queue string) (string, error) { return "ready", nil }

		te.Lpq(append([]string{"lpq", "-Pajax"}, tc.args...))

		if fellBack := len(te.execs) == 0; fellBack != tc.fallback {
			t.Errorf("policy %s, old CUPS %v, args %v: fell back %v", tc.policy, tc.oldCUPS, tc.args, fellBack)
		}
	}
}

func TestLpqNeverFallsBackForLPRng(t *testing.T) {
	te := newTestEnv(map[string]string{}, athena, nil)
	te.Config.LPQRFC1179Fallback = FallbackAlways
	te.QueueState = func(host, queue string) (string, error) { return "ready", nil }

	te.Lpq([]string{"lpq", "-Pashdown"})

	expectInvocation(t, te.exec(t), "mit-lpq", []string{"lpq", "-Pashdown"})
}

func TestDefaultPrinter(t *testing.T) {
	cluster := fakeDirectory{
		{"w20-575-1.mit.edu", "cluster"}: {"zephyr neskaya.mit.edu", "lpr ajax"},
	}

	te := newTestEnv(map[string]string{}, cluster, nil)
	if p := te.DefaultPrinter(); p != "ajax" {
		t.Errorf("Hesiod cluster default %q", p)
	}

	te = newTestEnv(map[string]string{}, cluster, &fakeSpooler{defaultQueue: "patience"})
	if p := te.DefaultPrinter(); p != "patience" {
		t.Errorf("CUPS default %q", p)
	}

	te = newTestEnv(map[string]string{"PRINTER": "ashdown"}, cluster, &fakeSpooler{defaultQueue: "patience"})
	if p := te.DefaultPrinter(); p != "ashdown" {
		t.Errorf("$PRINTER default %q", p)
	}

	te = newTestEnv(map[string]string{}, fakeDirectory{}, nil)
	if p := te.DefaultPrinter(); p != "" {
		t.Errorf("no default expected, got %q", p)
	}
}
