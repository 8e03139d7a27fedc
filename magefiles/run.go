//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Writes a sample sheet rig to testdata/sheet.yaml and simulates it for five seconds.
func (Run) Sheet() error {
	mg.Deps(Build.Cli)

	rig := filepath.Join("testdata", "sheet.yaml")
	if _, err := os.Stat(rig); os.IsNotExist(err) {
		fmt.Println("Writing sample rig...")
		if _, err := executeCmd("bin/strandsim", withArgs("init", rig, "8", "6"), withStream()); err != nil {
			return err
		}
	}
	_, err := executeCmd("bin/strandsim", withArgs("run", rig, "5"), withStream())
	return err
}

// Simulates the rig named by RIG until interrupted, reloading it on change.
func (Run) Watch() error {
	mg.Deps(Build.Cli)

	rig := os.Getenv("RIG")
	if rig == "" {
		return fmt.Errorf("set RIG to the rig file to watch")
	}
	_, err := executeCmd("bin/strandsim", withArgs("run", rig), withStream())
	return err
}
