//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Default target - build the engine binary
var Default = Build

// Build builds bin/engine
func Build() error {
	if err := os.MkdirAll("bin", 0o755); err != nil {
		return err
	}
	return sh.RunV("go", "build", "-o", "bin/engine", "./cmd/engine")
}

// Test runs the unit tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// QA formats, vets and tests
func QA() error {
	if err := sh.RunV("go", "fmt", "./..."); err != nil {
		return fmt.Errorf("format check failed: %w", err)
	}
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return fmt.Errorf("vet failed: %w", err)
	}
	mg.Deps(Test)
	return nil
}

// Nominees rebuilds nominees.json from the configured ceremony page
func Nominees() error {
	mg.Deps(Build)
	return sh.RunV("bin/engine", "nominees")
}

// Clean removes build artifacts
func Clean() error {
	return sh.Rm("bin")
}
