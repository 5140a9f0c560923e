/*
Copyright © 2024 the vader authors.
This file is part of vader.

vader is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

vader is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with vader.  If not, see <http://www.gnu.org/licenses/>.
*/

package vader

import (
	"runtime"
	"sync"
)

// minPointsPerProc is the smallest number of points worth handing to
// a separate goroutine.
const minPointsPerProc = 64

// forEachPoint concurrently runs work over the horizontal points
// [0, npoints). Each goroutine gets one call to newWorker, so that the
// returned function can own scratch space; the worker is then called
// once for each point assigned to it. Points must be independent of
// each other: no worker may write to another point's data.
func forEachPoint(npoints int, newWorker func() func(n int)) {
	nprocs := runtime.GOMAXPROCS(0) // number of processors
	if limit := (npoints + minPointsPerProc - 1) / minPointsPerProc; nprocs > limit {
		nprocs = limit
	}
	if nprocs <= 1 {
		if npoints > 0 {
			w := newWorker()
			for n := 0; n < npoints; n++ {
				w(n)
			}
		}
		return
	}
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			w := newWorker()
			for n := pp; n < npoints; n += nprocs {
				w(n)
			}
			wg.Done()
		}(pp)
	}
	wg.Wait()
}

// pointFunc adapts a scratch-free per-point function for forEachPoint.
func pointFunc(f func(n int)) func() func(n int) {
	return func() func(n int) { return f }
}
