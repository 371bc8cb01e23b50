// SPDX-License-Identifier: MIT
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/katalvlaran/kinfit/kinfit"
	"github.com/katalvlaran/kinfit/solver"
	"github.com/katalvlaran/kinfit/telemetry"
)

type vertexReport struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
	SigmaX float64 `json:"sigma_x"`
	SigmaY float64 `json:"sigma_y"`
	SigmaZ float64 `json:"sigma_z"`
	Chi2   float64 `json:"chi2"`
	NDF    float64 `json:"ndf"`
}

// report is the per-file outcome printed by fit.
type report struct {
	File       string        `json:"file"`
	Decay      string        `json:"decay"`
	Group      string        `json:"group,omitempty"`
	Constraint string        `json:"constraint"`
	Status     string        `json:"status"`
	Valid      bool          `json:"valid"`
	Mass       float64       `json:"mass"`
	P4         [4]float64    `json:"p4"`
	Vertex     *vertexReport `json:"vertex,omitempty"`
	Error      string        `json:"error,omitempty"`
}

func newReport(path, name, group string, kind solver.ConstraintKind, c *kinfit.Candidate, r kinfit.Result) report {
	p := c.TotalMomentum()
	rep := report{
		File:       path,
		Decay:      name,
		Group:      group,
		Constraint: kind.String(),
		Status:     telemetry.Status(r),
		Valid:      c.IsValidFit(),
		Mass:       c.Mass(),
		P4:         [4]float64{p.Px, p.Py, p.Pz, p.E},
	}
	if v := c.TopVertex(); v.Valid {
		e := v.PositionError()
		rep.Vertex = &vertexReport{
			X: v.Position.X, Y: v.Position.Y, Z: v.Position.Z,
			SigmaX: e.X, SigmaY: e.Y, SigmaZ: e.Z,
			Chi2: v.Chi2, NDF: v.NDF,
		}
	}
	if r.Err != nil {
		rep.Error = r.Err.Error()
	}

	return rep
}

func writeJSON(w io.Writer, reports []report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(reports)
}

func writeText(w io.Writer, reports []report) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tDECAY\tCONSTRAINT\tSTATUS\tMASS\tVERTEX\tCHI2/NDF")
	for _, r := range reports {
		vtx, chi := "-", "-"
		if r.Vertex != nil {
			vtx = fmt.Sprintf("(%.4g, %.4g, %.4g)", r.Vertex.X, r.Vertex.Y, r.Vertex.Z)
			chi = fmt.Sprintf("%.3g/%g", r.Vertex.Chi2, r.Vertex.NDF)
		}
		mass := "-"
		if r.Mass >= 0 {
			mass = fmt.Sprintf("%.6g", r.Mass)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", r.File, r.Decay, r.Constraint, r.Status, mass, vtx, chi)
	}
	_ = tw.Flush()
}
