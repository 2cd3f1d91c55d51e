package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if cfg.Setup.BoxLength != 100.0 {
		t.Errorf("expected boxlength 100.0, got %v", cfg.Setup.BoxLength)
	}
	if cfg.Random.CubeSize != 32 {
		t.Errorf("expected cubesize 32, got %v", cfg.Random.CubeSize)
	}
	if len(cfg.Random.Seeds) != 1 || cfg.Random.Seeds[0].IsFile {
		t.Errorf("expected one numeric seed, got %+v", cfg.Random.Seeds)
	}
	if cfg.Derived.H != 0.703 {
		t.Errorf("expected derived H=0.703, got %v", cfg.Derived.H)
	}
}

func TestMustInitPanicsOnBadPath(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected MustInit to panic on unreadable path")
		}
	}()
	MustInit("/nonexistent/path/config.yaml")
}

func TestCfgPanicsBeforeInit(t *testing.T) {
	saved := global
	global = nil
	defer func() { global = saved }()

	defer func() {
		if recover() == nil {
			t.Fatal("expected Cfg to panic before Init")
		}
	}()
	Cfg()
}
