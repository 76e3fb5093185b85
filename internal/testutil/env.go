// Copyright (c) 2024 BlockSocial
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package testutil

import (
	"os"
	"path/filepath"

	"github.com/subosito/gotenv"
)

// LoadTestEnv loads .env.test from the repository root into the process
// environment, if the file exists. Tests run from their package directory,
// so the lookup walks upward until it finds the file or a go.mod.
func LoadTestEnv() {
	dir, err := os.Getwd()
	if err != nil {
		return
	}
	for {
		candidate := filepath.Join(dir, ".env.test")
		if _, err := os.Stat(candidate); err == nil {
			_ = gotenv.Load(candidate)
			return
		}
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}
