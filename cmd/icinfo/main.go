// Command icinfo prints the grid sizes and resolved cosmology a config
// file implies, without running any part of the generation pipeline —
// a small ambient inspection tool in the spirit of the teacher's own
// single-purpose cmd/ binaries.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/icgen/cosmicic/config"
	"github.com/icgen/cosmicic/cosmology"
)

func main() {
	configPath := flag.String("config", "", "config YAML file (empty = use defaults)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()

	c, err := cosmology.New(cosmology.Cosmology{
		OmegaM:      cfg.Cosmology.OmegaM,
		OmegaB:      cfg.Cosmology.OmegaB,
		OmegaLambda: cfg.Cosmology.OmegaL,
		H0:          cfg.Cosmology.H0,
		Sigma8:      cfg.Cosmology.Sigma8,
		NS:          cfg.Cosmology.NSpec,
		AStart:      cfg.Cosmology.AStart,
	})
	if err != nil {
		log.Fatalf("invalid cosmology: %v", err)
	}

	fmt.Printf("box length:   %.3f Mpc/h\n", cfg.Setup.BoxLength)
	fmt.Printf("levels:       %d..%d (%d levels)\n", cfg.Setup.LevelMin, cfg.Setup.LevelMax, cfg.Derived.NLevels)
	for level := cfg.Setup.LevelMin; level <= cfg.Setup.LevelMax; level++ {
		res := 1 << uint(level)
		fmt.Printf("  level %2d: %d^3 = %d cells\n", level, res, res*res*res)
	}
	fmt.Printf("h:            %.4f\n", c.H())
	fmt.Printf("f_baryon:     %.4f\n", c.FBaryon())
	fmt.Printf("sigma_8:      %.4f\n", c.Sigma8)
	fmt.Printf("cube size:    %d\n", cfg.Random.CubeSize)
	fmt.Printf("seed levels:  %d\n", len(cfg.Random.Seeds))
}
