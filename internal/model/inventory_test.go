package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ravensync/kmlsync/internal/model"
)

func TestAddedRemovedCommon(t *testing.T) {
	prev := model.LocalInventory{
		"a.kml": {MetadataItem: model.MetadataItem{FileName: "a.kml"}},
		"b.kml": {MetadataItem: model.MetadataItem{FileName: "b.kml"}},
	}
	next := model.LocalInventory{
		"b.kml": {MetadataItem: model.MetadataItem{FileName: "b.kml"}},
		"c.kml": {MetadataItem: model.MetadataItem{FileName: "c.kml"}},
	}

	assert.ElementsMatch(t, []string{"c.kml"}, model.Added(prev, next))
	assert.ElementsMatch(t, []string{"a.kml"}, model.Removed(prev, next))
	assert.ElementsMatch(t, []string{"b.kml"}, model.Common(prev, next))
}

func TestNormalizeName(t *testing.T) {
	// "e" + combining acute accent (decomposed) normalizes to the
	// precomposed "é".
	decomposed := "é.kml"
	composed := "é.kml"

	assert.Equal(t, model.NormalizeName(composed), model.NormalizeName(decomposed))
}

func TestModTime(t *testing.T) {
	now := time.Now()
	item := model.CloudItem{MetadataItem: model.MetadataItem{LastModificationDate: now}}
	assert.True(t, item.ModTime().Equal(now))
}
