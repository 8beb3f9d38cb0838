//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Binary compiles the demo executable.
func (Build) Binary() error {
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/materia", ".")); err != nil {
		return err
	}
	return nil
}

// All compiles every package in the module.
func (Build) All() error {
	if _, err := executeCmd("go", withArgs("build", "./...")); err != nil {
		return err
	}
	return nil
}
