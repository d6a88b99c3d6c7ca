package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewConflictsCmdStructure(t *testing.T) {
	cmd := newConflictsCmd()
	assert.Equal(t, "conflicts", cmd.Use)
	assert.Equal(t, "true", cmd.Annotations[skipConfigAnnotation])
	assert.NotNil(t, cmd.RunE)
}
