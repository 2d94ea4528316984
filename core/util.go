package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
)

// CleanString trims surrounding whitespace; with lower it also lowercases,
// which callers use to canonicalize usernames, emails and enum-like input.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// Getwd walks up from the process working directory to the directory holding
// go.mod. Tests run with the working directory set to the package under test,
// so a bare os.Getwd cannot anchor config file lookups.
func Getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	for dir := wd; ; {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			log.Fatal("project root not found")
		}
		dir = parent
	}
}
