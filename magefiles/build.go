//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Downloads modules and builds the testbed binary into bin/.
func (Build) Engine() error {
	if err := goModDownload(); err != nil {
		return err
	}
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/modelrenderer", "."), withStream()); err != nil {
		return err
	}
	return nil
}
