package sim

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/robotalks/trackdrive/pkg/arclength"
	"github.com/robotalks/trackdrive/pkg/geom"
	"github.com/robotalks/trackdrive/pkg/path"
)

// ConvergenceConfig defines a random-path arc-length convergence survey.
type ConvergenceConfig struct {
	// Paths is the number of random paths per family.
	Paths int
	// Queries is the number of inversions per path.
	Queries int
	// Extent bounds the endpoint coordinates to [-Extent, Extent].
	Extent float64
	Seed   uint64
	// Workspace is shared by all paths, a default one when nil.
	Workspace *arclength.Workspace
}

// ConvergenceReport summarizes one path family.
type ConvergenceReport struct {
	Family string
	Paths  int
	arclength.Convergence
}

// SurveyConvergence inverts arc lengths on random cubic and quintic paths
// and reports the iteration counts per family.
func SurveyConvergence(conf ConvergenceConfig) ([]ConvergenceReport, error) {
	src := rand.NewPCG(conf.Seed, conf.Seed+1)
	coord := distuv.Uniform{Min: -conf.Extent, Max: conf.Extent, Src: src}
	heading := distuv.Uniform{Min: -math.Pi, Max: math.Pi, Src: src}
	curvature := distuv.Uniform{Min: -1, Max: 1, Src: src}
	pose := func() geom.Pose2D {
		return geom.NewPose(coord.Rand(), coord.Rand(), heading.Rand())
	}

	families := []struct {
		name string
		gen  func() path.Path
	}{
		{"cubic", func() path.Path { return path.NewCubic(pose(), pose()) }},
		{"quintic", func() path.Path {
			return path.NewQuintic(pose(), pose(), curvature.Rand(), curvature.Rand())
		}},
	}

	a := arclength.New(conf.Workspace)
	reports := make([]ConvergenceReport, 0, len(families))
	for _, f := range families {
		rep := ConvergenceReport{Family: f.name}
		var total float64
		for i := 0; i < conf.Paths; i++ {
			if err := a.SetPath(f.gen()); err != nil {
				return nil, err
			}
			c := arclength.Survey(a, conf.Queries)
			rep.Paths++
			rep.Queries += c.Queries
			rep.NotConverged += c.NotConverged
			if c.MaxIter > rep.MaxIter {
				rep.MaxIter = c.MaxIter
			}
			total += c.AvgIter * float64(c.Queries)
		}
		if rep.Queries > 0 {
			rep.AvgIter = total / float64(rep.Queries)
		}
		reports = append(reports, rep)
	}
	return reports, nil
}
