//go:build llama

package manager

// Link flags for the go-llama.cpp loader. libllama.so is expected next to the
// chatd binary (./bin) at link time and at run time ($ORIGIN rpath).

/*
#cgo LDFLAGS: -Wl,-rpath,'$ORIGIN' -L${SRCDIR}/../../bin -lllama
*/
import "C"
