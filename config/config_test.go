package config

import "testing"

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	env, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if env.Dir != dir || env.ProcessID != "" {
		t.Fatalf("unexpected defaults: %+v", env)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	env := &Environment{Dir: dir, ProcessID: "42"}
	if err := env.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ProcessID != "42" {
		t.Fatalf("got %+v", got)
	}
}
