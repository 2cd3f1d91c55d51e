package main

import (
	"log"

	"github.com/icgen/cosmicic/config"
	"github.com/icgen/cosmicic/cosmology"
)

// baseCosmologyFrom builds a Cosmology from cfg, the same field mapping
// pipeline.New uses, exiting on an invalid bundle rather than
// propagating an error up through flag-parsing main().
func baseCosmologyFrom(cfg *config.Config) cosmology.Cosmology {
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
		log.Fatalf("invalid cosmology in config: %v", err)
	}
	return c
}
