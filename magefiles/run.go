//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Builds and runs the testbed with config.toml.
func (Run) Testbed() error {
	mg.Deps(Build.Engine)
	fmt.Println("Run testbed...")
	if _, err := executeCmd("bin/modelrenderer", withArgs("-config", "config.toml"), withStream()); err != nil {
		return err
	}
	return nil
}
