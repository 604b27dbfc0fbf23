/*
 * molplot.go, part of gomol.
 *
 * Copyright 2024 The gomol developers
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package molplot draws diagnostics for gomol. For now that is the
//convergence trace of a relaxation run, which is the first thing to look at
//when an edit feels slow or a structure won't settle.
package molplot

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	mol "github.com/gomolcad/gomol"
)

// Convergence plots the largest per-atom adjustment of each relaxation
// iteration against the iteration number and saves the plot to filename
// (format taken from the extension: .png, .svg, .pdf...).
func Convergence(stats *mol.RelaxStats, title, filename string) error {
	if stats == nil || len(stats.Trace) == 0 {
		return fmt.Errorf("molplot: no relaxation trace to plot")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Iteration"
	p.Y.Label.Text = "Largest adjustment"

	pts := make(plotter.XYs, len(stats.Trace))
	for i, v := range stats.Trace {
		pts[i].X = float64(i + 1)
		pts[i].Y = v
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("molplot: %w", err)
	}
	p.Add(line, plotter.NewGrid())

	if err := p.Save(14*vg.Centimeter, 10*vg.Centimeter, filename); err != nil {
		return fmt.Errorf("molplot: %w", err)
	}
	return nil
}
