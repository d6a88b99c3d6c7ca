package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewConfigCmdHasShowSubcommand(t *testing.T) {
	cmd := newConfigCmd()
	assert.Equal(t, "config", cmd.Use)

	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}

	assert.True(t, names["show"])
}

func TestNewConfigShowCmdStructure(t *testing.T) {
	cmd := newConfigShowCmd()
	assert.Equal(t, "show", cmd.Use)
	assert.Equal(t, "true", cmd.Annotations[skipConfigAnnotation])
}
