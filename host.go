package main

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/df07/go-pathtracer/pkg/core"
)

const gib = 1 << 30

// defaultWorkers returns the logical CPU count
func defaultWorkers() int {
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// logHostInfo logs the CPU count and memory headroom
func logHostInfo(logger core.Logger) {
	workers := defaultWorkers()
	vm, err := mem.VirtualMemory()
	if err != nil {
		logger.Printf("Host: %d logical CPUs\n", workers)
		return
	}
	logger.Printf("Host: %d logical CPUs, %.1f GiB available of %.1f GiB\n",
		workers, float64(vm.Available)/gib, float64(vm.Total)/gib)
}
