package codecache

import "unsafe"

// addrOf returns the host address of a byte slice's backing array. Used
// only to compute absolute native call targets for dispatch-table entries;
// the slice itself remains the owner and must outlive any address derived
// from it (true for the lifetime of the Cache that holds it).
func addrOf(b []byte) uintptr {
	return uintptr(unsafe.Pointer(&b[0]))
}
