/*
Copyright 2016 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/
package cups

/*
#cgo LDFLAGS: -lcups
#include <cups/cups.h>
#include <sys/socket.h> // AF_UNSPEC

const char
    *POST_RESOURCE = "/";
*/
import "C"
import (
	"fmt"
	"runtime"
	"time"

	"github.com/mit-athena/printing-config/log"
)

// cupsCore holds one connection to the CUPS server named by $CUPS_SERVER,
// client.conf, etc.
type cupsCore struct {
	host       *C.char
	port       C.int
	encryption C.http_encryption_t
	http       *C.http_t
}

func newCUPSCore(connectTimeout time.Duration) (*cupsCore, error) {
	host := C.cupsServer()
	port := C.ippPort()
	encryption := C.cupsEncryption()
	timeout := C.int(connectTimeout / time.Millisecond)

	switch encryption {
	case C.HTTP_ENCRYPTION_ALWAYS, C.HTTP_ENCRYPTION_IF_REQUESTED,
		C.HTTP_ENCRYPTION_NEVER, C.HTTP_ENCRYPTION_REQUIRED:
	default:
		encryption = C.HTTP_ENCRYPTION_REQUIRED
	}

	// Lock the OS thread so that thread-local storage is available to
	// cupsLastError() and cupsLastErrorString().
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	http := C.httpConnect2(host, port, nil, C.AF_UNSPEC, encryption, 1, timeout, nil)
	if http == nil {
		return nil, fmt.Errorf("Failed to connect to CUPS server %s:%d because %d %s",
			C.GoString(host), int(port), int(C.cupsLastError()), C.GoString(C.cupsLastErrorString()))
	}

	log.Debugf("Connected to CUPS server %s:%d", C.GoString(host), int(port))

	return &cupsCore{host, port, encryption, http}, nil
}

// doRequest calls cupsDoRequest(), which frees request.
//
// The caller is responsible to C.ippDelete the returned *C.ipp_t response.
func (cc *cupsCore) doRequest(request *C.ipp_t, acceptableStatusCodes []C.ipp_status_t) (*C.ipp_t, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	response := C.cupsDoRequest(cc.http, request, C.POST_RESOURCE)
	if response == nil {
		return nil, fmt.Errorf("cupsDoRequest failed: %d %s", int(C.cupsLastError()), C.GoString(C.cupsLastErrorString()))
	}
	statusCode := C.ippGetStatusCode(response)
	for _, sc := range acceptableStatusCodes {
		if statusCode == sc {
			return response, nil
		}
	}

	C.ippDelete(response)
	return nil, fmt.Errorf("IPP status code %d", int(statusCode))
}

func (cc *cupsCore) close() {
	if cc.http != nil {
		C.httpClose(cc.http)
		cc.http = nil
	}
}
