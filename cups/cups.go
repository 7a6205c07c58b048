/*
Copyright 2016 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

// Package cups asks the local CUPS daemon about its destinations.
package cups

/*
#cgo LDFLAGS: -lcups
#include <cups/cups.h>
#include <stdlib.h> // free

const char
    *DEVICE_URI           = "device-uri",
    *PRINTER_URI          = "printer-uri",
    *REQUESTED_ATTRIBUTES = "requested-attributes",
    *IPP                  = "ipp",
    *LOCALHOST            = "localhost";

// HTTP_MAX_URI is a #define, which cgo can't see.
const int URI_MAX_LENGTH = HTTP_MAX_URI;
*/
import "C"
import (
	"fmt"
	"runtime"
	"time"
	"unsafe"

	"github.com/mit-athena/printing-config/log"
)

// CUPS answers questions about the local CUPS daemon. Queries that fail
// are logged and answered with empty values.
type CUPS struct {
	cc *cupsCore
}

func NewCUPS(connectTimeout time.Duration) (*CUPS, error) {
	cc, err := newCUPSCore(connectTimeout)
	if err != nil {
		return nil, err
	}
	return &CUPS{cc}, nil
}

// Quit closes the connection to the CUPS daemon.
func (c *CUPS) Quit() {
	c.cc.close()
}

// Destinations returns the names of the daemon's printers and classes.
// Instances are not included.
func (c *CUPS) Destinations() []string {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var dests *C.cups_dest_t
	count := int(C.cupsGetDests2(c.cc.http, &dests))
	if count <= 0 {
		return nil
	}
	defer C.cupsFreeDests(C.int(count), dests)

	names := make([]string, 0, count)
	seen := make(map[string]struct{}, count)
	for _, d := range unsafe.Slice(dests, count) {
		name := C.GoString(d.name)
		if _, exists := seen[name]; exists {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// DefaultDestination returns the daemon's default destination, or empty.
func (c *CUPS) DefaultDestination() string {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	d := C.cupsGetDefault2(c.cc.http)
	if d == nil {
		return ""
	}
	return C.GoString(d)
}

// DeviceURI returns the device-uri attribute of printer, or empty when the
// daemon doesn't know printer.
func (c *CUPS) DeviceURI(printer string) string {
	uri := createPrinterURI(printer)
	defer C.free(unsafe.Pointer(uri))

	requested := [...]*C.char{C.DEVICE_URI}

	// ippNewRequest() returns ipp_t pointer which does not need explicit free.
	request := C.ippNewRequest(C.IPP_OP_GET_PRINTER_ATTRIBUTES)
	C.ippAddString(request, C.IPP_TAG_OPERATION, C.IPP_TAG_URI, C.PRINTER_URI, nil, uri)
	C.ippAddStrings(request, C.IPP_TAG_OPERATION, C.IPP_TAG_KEYWORD, C.REQUESTED_ATTRIBUTES,
		C.int(len(requested)), nil, &requested[0])

	response, err := c.cc.doRequest(request, []C.ipp_status_t{C.IPP_STATUS_OK})
	if err != nil {
		log.DebugQueuef(printer, "Failed to get printer attributes: %s", err)
		return ""
	}
	defer C.ippDelete(response)

	a := C.ippFindAttribute(response, C.DEVICE_URI, C.IPP_TAG_URI)
	if a == nil {
		return ""
	}
	return C.GoString(C.ippGetString(a, 0, nil))
}

// createPrinterURI creates a uri string for the printer-uri attribute.
//
// The caller is responsible to C.free the returned *C.char.
func createPrinterURI(printer string) *C.char {
	uri := (*C.char)(C.malloc(C.size_t(C.URI_MAX_LENGTH)))

	resource := C.CString(fmt.Sprintf("/printers/%s", printer))
	defer C.free(unsafe.Pointer(resource))
	C.httpAssembleURI(C.HTTP_URI_CODING_ALL,
		uri, C.URI_MAX_LENGTH, C.IPP, nil, C.LOCALHOST, C.ippPort(), resource)

	return uri
}
