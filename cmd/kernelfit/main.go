// Command kernelfit fits BBKS's free shape parameter Gamma against a
// reference two-column transfer-function table, the same CMA-ES
// single-objective search cmd/optimize runs for ecosystem parameters,
// adapted here to a one-dimensional cosmological shape fit.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"gonum.org/v1/gonum/optimize"

	"github.com/icgen/cosmicic/config"
	"github.com/icgen/cosmicic/streams"
	"github.com/icgen/cosmicic/transfer"
)

func main() {
	configPath := flag.String("config", "", "base config YAML file (empty = use defaults)")
	referencePath := flag.String("reference", "", "reference two-column TF table file to fit against")
	maxEvals := flag.Int("max-evals", 200, "maximum number of CMA-ES evaluations")
	logPath := flag.String("log", "", "optional CSV evaluation log path")
	flag.Parse()

	if *referencePath == "" {
		log.Fatal("--reference is required")
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()

	refK, refT, err := streams.ReadTFTable(*referencePath)
	if err != nil {
		log.Fatalf("failed to read reference table: %v", err)
	}

	var logWriter *csv.Writer
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			log.Fatalf("failed to create log file: %v", err)
		}
		defer f.Close()
		logWriter = csv.NewWriter(f)
		defer logWriter.Flush()
		logWriter.Write([]string{"eval", "gamma", "residual"})
	}

	baseCosmology := baseCosmologyFrom(cfg)
	evalCount := 0

	objective := func(x []float64) float64 {
		evalCount++
		gamma := x[0]
		if gamma <= 0 {
			return math.Inf(1)
		}
		tf := transfer.BBKS{Cosmology: baseCosmology, Gamma: gamma}
		residual := sumSquaredLogResidual(tf, refK, refT)
		if logWriter != nil {
			logWriter.Write([]string{fmt.Sprintf("%d", evalCount), fmt.Sprintf("%.6f", gamma), fmt.Sprintf("%.6g", residual)})
			logWriter.Flush()
		}
		return residual
	}

	problem := optimize.Problem{Func: objective}
	initX := []float64{baseCosmology.OmegaM * baseCosmology.H()}

	settings := &optimize.Settings{FuncEvaluations: *maxEvals}
	method := &optimize.CmaEsChol{InitStepSize: 0.1, Population: 8}

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	fmt.Printf("evaluations: %d\n", evalCount)
	fmt.Printf("best gamma: %.6f\n", result.X[0])
	fmt.Printf("best residual: %.6g\n", result.F)
}

// sumSquaredLogResidual compares tf against a reference (k, T) table in
// log-T space, since transfer functions span many orders of magnitude.
func sumSquaredLogResidual(tf transfer.Function, refK, refT []float64) float64 {
	var sum float64
	for i, k := range refK {
		t := tf.T(k)
		if t <= 0 || refT[i] <= 0 {
			sum += 1e6
			continue
		}
		d := math.Log(t) - math.Log(refT[i])
		sum += d * d
	}
	return sum
}
