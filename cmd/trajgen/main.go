// Command trajgen generates synthetic trajectory CSVs: a random walk with
// accumulating heading drift, or a directed walk perturbed around a fixed
// reference direction.
package main

import (
	"flag"
	"log"
	"math/rand/v2"
	"os"

	"github.com/banshee-data/trajectory.report/internal/traj"
)

func main() {
	output := flag.String("o", "trajectory.csv", "output path")
	n := flag.Int("n", 1000, "number of points")
	step := flag.Float64("step", 2, "mean step length")
	angularSD := flag.Float64("angular-sd", 0.5, "heading error standard deviation (radians)")
	linearSD := flag.Float64("linear-sd", 0.2, "step length error standard deviation")
	heading := flag.Float64("heading", 0, "reference direction for directed walks (radians)")
	fps := flag.Float64("fps", traj.DefaultFPS, "frame rate for synthesised timestamps")
	directed := flag.Bool("directed", false, "directed walk (heading resets each step)")
	seed := flag.Uint64("seed", 0, "random seed (0 for non-deterministic output)")
	flag.Parse()

	cfg := traj.GenerateConfig{
		N:          *n,
		StepLength: *step,
		AngularSD:  *angularSD,
		LinearSD:   *linearSD,
		Heading:    *heading,
		FPS:        *fps,
		Kind:       traj.RandomWalk,
	}
	if *directed {
		cfg.Kind = traj.DirectedWalk
	}
	if *seed != 0 {
		cfg.Src = rand.NewPCG(*seed, *seed)
	}

	t, err := traj.Generate(cfg)
	if err != nil {
		log.Fatalf("failed to generate trajectory: %v", err)
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("failed to create output file: %v", err)
	}
	defer f.Close()
	if err := traj.WriteCSV(f, t); err != nil {
		log.Fatalf("failed to write csv: %v", err)
	}
	log.Printf("✓ Created: %s (%d points, path length %.2f)", *output, t.NFrames, t.PathLength())
}
