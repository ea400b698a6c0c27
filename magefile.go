//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Default target when running mage without arguments.
var Default = Build

// Build builds the server and migrate binaries.
func Build() error {
	mg.Deps(Wire)
	fmt.Println("Building binaries...")
	if err := sh.Run("go", "build", "-o", "bin/server", "./cmd/server"); err != nil {
		return err
	}
	return sh.Run("go", "build", "-o", "bin/migrate", "./cmd/migrate")
}

// Wire regenerates dependency injection code.
func Wire() error {
	fmt.Println("Running wire...")

	dirs, err := findWireDirs()
	if err != nil {
		return fmt.Errorf("finding wire directories: %w", err)
	}
	for _, dir := range dirs {
		fmt.Printf("  %s\n", dir)
		if err := sh.Run("wire", dir); err != nil {
			return fmt.Errorf("wire %s: %w", dir, err)
		}
	}
	return nil
}

// findWireDirs returns every package holding a wire.go injector.
func findWireDirs() ([]string, error) {
	var dirs []string

	err := filepath.Walk(".", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			name := info.Name()
			if path != "." && (name == "vendor" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if info.Name() == "wire.go" {
			dirs = append(dirs, "./"+filepath.Dir(path))
		}
		return nil
	})

	return dirs, err
}

// Test runs all tests with the race detector.
func Test() error {
	fmt.Println("Running tests...")
	return sh.RunV("go", "test", "-race", "./...")
}

// TestCover writes coverage.out.
func TestCover() error {
	fmt.Println("Running tests with coverage...")
	return sh.RunV("go", "test", "-race", "-coverprofile=coverage.out", "./...")
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Vet runs go vet.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Migrate applies pending database migrations.
func Migrate() error {
	return sh.RunV("go", "run", "./cmd/migrate", "up")
}

// MigrateStatus prints the migration state.
func MigrateStatus() error {
	return sh.RunV("go", "run", "./cmd/migrate", "status")
}

// Tidy runs go mod tidy.
func Tidy() error {
	return sh.Run("go", "mod", "tidy")
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll("bin"); err != nil {
		return err
	}
	_ = os.Remove("coverage.out")
	return nil
}

// CI runs tidy, wire, vet and covered tests in order.
func CI() error {
	mg.SerialDeps(Tidy, Wire, Vet, TestCover)
	return nil
}

// Dev builds and runs the server.
func Dev() error {
	mg.Deps(Build)
	cmd := exec.Command("./bin/server")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Install installs the code generation and lint tools.
func Install() error {
	tools := []string{
		"github.com/google/wire/cmd/wire@latest",
		"github.com/golangci/golangci-lint/cmd/golangci-lint@latest",
	}
	for _, tool := range tools {
		fmt.Printf("  Installing %s\n", tool)
		if err := sh.Run("go", "install", tool); err != nil {
			return fmt.Errorf("installing %s: %w", tool, err)
		}
	}
	return nil
}
