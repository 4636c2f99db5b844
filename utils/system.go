package utils

import (
	"fmt"
	"math"
	"math/cmplx"
	"runtime"
)

// MemUsage is a snapshot of the heap, sizes in MiB
type MemUsage struct {
	Alloc      uint64 `json:"AllocMiB"`
	TotalAlloc uint64 `json:"TotalAllocMiB"`
	Sys        uint64 `json:"SysMiB"`
	NumGC      uint32 `json:"NumGC"`
}

func GetMemUsage() MemUsage {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	// For info on each, see: https://golang.org/pkg/runtime/#MemStats
	bToMb := func(b uint64) uint64 {
		return b / 1024 / 1024
	}
	return MemUsage{
		Alloc:      bToMb(m.Alloc),
		TotalAlloc: bToMb(m.TotalAlloc),
		Sys:        bToMb(m.Sys),
		NumGC:      m.NumGC,
	}
}

func (mu MemUsage) String() string {
	return fmt.Sprintf("Alloc = %v MiB TotalAlloc = %v MiB Sys = %v MiB NumGC = %v",
		mu.Alloc, mu.TotalAlloc, mu.Sys, mu.NumGC)
}

func IsNan(A any) bool {
	switch v := A.(type) {
	case float64:
		return math.IsNaN(v)
	case complex128:
		return cmplx.IsNaN(v)
	case []float64:
		for _, f := range v {
			if math.IsNaN(f) {
				return true
			}
		}
	case []complex128:
		for _, c := range v {
			if cmplx.IsNaN(c) {
				return true
			}
		}
	case [][]complex128:
		for _, c := range v {
			if IsNan(c) {
				return true
			}
		}
	}
	return false
}
