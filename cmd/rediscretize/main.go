// Command rediscretize resamples a trajectory CSV to a constant along-path
// step length.
package main

import (
	"flag"
	"log"
	"os"
	"strconv"

	"github.com/banshee-data/trajectory.report/internal/traj"
)

func main() {
	input := flag.String("i", "", "input CSV path")
	output := flag.String("o", "rediscretized.csv", "output CSV path")
	step := flag.Float64("step", 1, "target step length")
	xCol := flag.String("x-col", "x", "x column (name or index)")
	yCol := flag.String("y-col", "y", "y column (name or index)")
	timeCol := flag.String("time-col", "", "time column (name or index, optional)")
	fps := flag.Float64("fps", traj.DefaultFPS, "frame rate when no time column is given")
	flag.Parse()

	if *input == "" {
		log.Fatal("input path is required (-i)")
	}

	table, err := traj.LoadCSV(*input)
	if err != nil {
		log.Fatalf("failed to read %s: %v", *input, err)
	}

	opts := traj.TableOptions{
		XColumn: columnRef(*xCol),
		YColumn: columnRef(*yCol),
		FPS:     *fps,
	}
	if *timeCol != "" {
		ref := columnRef(*timeCol)
		opts.TimeColumn = &ref
	}

	t, err := traj.FromTable(table, opts)
	if err != nil {
		log.Fatalf("failed to build trajectory: %v", err)
	}

	out, err := traj.Rediscretize(t, *step)
	if err != nil {
		log.Fatalf("failed to rediscretize: %v", err)
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("failed to create output file: %v", err)
	}
	defer f.Close()
	if err := traj.WriteCSV(f, out); err != nil {
		log.Fatalf("failed to write csv: %v", err)
	}
	log.Printf("✓ %s: %d points -> %d points at step %g", *output, t.NFrames, out.NFrames, *step)
}

// columnRef interprets the flag value as a zero-based index when numeric,
// otherwise as a header name.
func columnRef(v string) traj.ColumnRef {
	if i, err := strconv.Atoi(v); err == nil {
		return traj.IndexedColumn(i)
	}
	return traj.NamedColumn(v)
}
