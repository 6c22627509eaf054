// This file is part of Gopher2600.
//
// Gopher2600 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher2600 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher2600.  If not, see <https://www.gnu.org/licenses/>.

// Package diagnostics hosts the console's optional runtime profiling and
// object-graph dumping aids. Neither is on the hot path unless explicitly
// enabled.
package diagnostics

import (
	"io"

	"github.com/bradleyjkemp/memviz"
	"github.com/go-echarts/statsview"
)

// Profiler serves a statsview dashboard of the process's Go runtime
// statistics, viewable live in a browser during development. Nothing
// from the scheduler (per-entry or per-peripheral timing) is published
// through it.
type Profiler struct {
	mgr *statsview.ViewManager
}

// NewProfiler is the preferred method of initialisation for the Profiler
// type. It does not start the HTTP server; call Start for that.
func NewProfiler() *Profiler {
	return &Profiler{mgr: statsview.New()}
}

// Start begins serving the statsview dashboard in the background.
func (p *Profiler) Start() {
	go p.mgr.Start()
}

// Stop shuts the dashboard server down.
func (p *Profiler) Stop() {
	p.mgr.Stop()
}

// DumpGraph feeds v (typically the live *console.Console) through
// memviz.Map, producing a Graphviz dot representation of the object
// graph for debugging reference cycles and aggregate shape.
func DumpGraph(w io.Writer, v any) {
	memviz.Map(w, v)
}
