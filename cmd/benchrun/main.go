package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// run executes a command and prints its combined output. Returns exit code.
func run(name string, args ...string) int {
	cmd := exec.Command(name, args...)
	cmd.Env = os.Environ()
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	fmt.Print(out.String())
	if err == nil {
		return 0
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	fmt.Fprintf(os.Stderr, "error running %s: %v\n", name, err)
	return 1
}

const fenKiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

type perftRun struct {
	label string
	fen   string
	depth string
}

var perftRuns = []perftRun{
	{"Initial", "", "4"},
	{"Initial", "", "5"},
	{"Initial", "", "6"},
	{"Kiwipete", fenKiwipete, "3"},
	{"Kiwipete", fenKiwipete, "4"},
}

func main() {
	// Usage: go run ./cmd/benchrun
	// Format: BenchmarkName  Iterations  ns/op  B/op  allocs/op
	fmt.Println("Columns: BENCHMARK  N  ns/op  B/op  allocs/op")
	code := run("go", "test", "./bench", "./engine", "-run", "^$", "-bench", ".", "-benchmem", "-benchtime=1s")
	if code != 0 {
		os.Exit(code)
	}

	fmt.Println("\nPerft Performance:")
	fmt.Println("TEST \t\tDepth \t\tNodes \t\tTime \tNPS")
	for _, r := range perftRuns {
		args := []string{"run", "./cmd/perft", "-depth", r.depth, "-label", r.label}
		if r.fen != "" {
			args = append(args, "-fen", r.fen)
		}
		run("go", args...)
	}

	fmt.Println("\nSearch Performance:")
	run("go", "run", "./cmd/searchbench", "-depth", "7", "-threads", "1")
	run("go", "run", "./cmd/searchbench", "-fen", fenKiwipete, "-depth", "6")
	os.Exit(0)
}
