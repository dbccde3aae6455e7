// Package main exposes the Freeverb reverberator over a C ABI for
// embedding in non-Go hosts. Build with:
//
//	go build -buildmode=c-shared -o libalgofx.so ./capi
//
// Handles returned by freeverb_create are opaque and owned by the caller;
// each must be released exactly once with freeverb_destroy. process must
// not run concurrently with destroy or with another process call on the
// same handle.
package main

/*
#include <stddef.h>
#include <stdint.h>
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"

	"github.com/cwbudde/algo-fx/dsp/reverb"
)

//export freeverb_create
func freeverb_create(sampleRate C.double) C.uintptr_t {
	r, err := reverb.NewFreeverb(float64(sampleRate))
	if err != nil {
		return 0
	}
	return C.uintptr_t(cgo.NewHandle(r))
}

//export freeverb_destroy
func freeverb_destroy(handle C.uintptr_t) {
	destroyHandle(uintptr(handle))
}

// destroyHandle releases a handle, ignoring the zero sentinel that
// freeverb_create returns on error so an unconditional create/destroy
// pair on the host side cannot crash.
func destroyHandle(handle uintptr) {
	if handle == 0 {
		return
	}
	cgo.Handle(handle).Delete()
}

//export freeverb_process
func freeverb_process(handle C.uintptr_t, inL, inR, outL, outR *C.float, count C.size_t) {
	r := lookup(handle)
	n := int(count)
	if r == nil || n <= 0 {
		return
	}

	inLeft := unsafe.Slice((*float32)(inL), n)
	inRight := unsafe.Slice((*float32)(inR), n)
	outLeft := unsafe.Slice((*float32)(outL), n)
	outRight := unsafe.Slice((*float32)(outR), n)

	for i := 0; i < n; i++ {
		l, rr := r.Tick(float64(inLeft[i]), float64(inRight[i]))
		outLeft[i] = float32(l)
		outRight[i] = float32(rr)
	}
}

//export freeverb_set_damping
func freeverb_set_damping(handle C.uintptr_t, value C.double) {
	if r := lookup(handle); r != nil {
		r.SetDamping(float64(value))
	}
}

//export freeverb_set_frozen
func freeverb_set_frozen(handle C.uintptr_t, frozen C.int) {
	if r := lookup(handle); r != nil {
		r.SetFrozen(frozen != 0)
	}
}

//export freeverb_set_wet
func freeverb_set_wet(handle C.uintptr_t, value C.double) {
	if r := lookup(handle); r != nil {
		r.SetWet(float64(value))
	}
}

//export freeverb_set_width
func freeverb_set_width(handle C.uintptr_t, value C.double) {
	if r := lookup(handle); r != nil {
		r.SetWidth(float64(value))
	}
}

//export freeverb_set_room_size
func freeverb_set_room_size(handle C.uintptr_t, value C.double) {
	if r := lookup(handle); r != nil {
		r.SetRoomSize(float64(value))
	}
}

func lookup(handle C.uintptr_t) *reverb.Freeverb {
	if handle == 0 {
		return nil
	}
	r, ok := cgo.Handle(handle).Value().(*reverb.Freeverb)
	if !ok {
		return nil
	}
	return r
}

func main() {}
