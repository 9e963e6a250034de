package config

import (
	"os"

	"github.com/joho/godotenv"
)

// loadEnvFiles loads KEY=VALUE pairs from the given files if they exist.
// Missing or malformed files are skipped.
func loadEnvFiles(override bool, paths ...string) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if override {
			_ = godotenv.Overload(path)
			continue
		}
		_ = godotenv.Load(path)
	}
}
