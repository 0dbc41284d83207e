package state

import "reflect"

// ptrOf exposes a pointer's bit pattern for hash mixing only.
func ptrOf(p any) uintptr {
	v := reflect.ValueOf(p)
	if v.IsNil() {
		return 0
	}
	return v.Pointer()
}
