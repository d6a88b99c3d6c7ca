package conflict_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ravensync/kmlsync/internal/conflict"
)

func existsSet(paths ...string) func(string) bool {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[p] = true
	}

	return func(p string) bool { return set[p] }
}

func TestFreshURLNoPriorSuffix(t *testing.T) {
	got := conflict.FreshURL("/dir/x.kml", "", existsSet())
	assert.Equal(t, "/dir/x_1.kml", got)
}

func TestFreshURLIncrementsExistingSuffix(t *testing.T) {
	got := conflict.FreshURL("/dir/x_3.kml", "", existsSet())
	assert.Equal(t, "/dir/x_4.kml", got)
}

func TestFreshURLDeviceSuffix(t *testing.T) {
	got := conflict.FreshURL("/dir/x.kml", "phone", existsSet())
	assert.Equal(t, "/dir/x_phone_1.kml", got)
}

func TestFreshURLRecursesOnCollision(t *testing.T) {
	got := conflict.FreshURL("/dir/x.kml", "", existsSet("/dir/x_1.kml", "/dir/x_2.kml"))
	assert.Equal(t, "/dir/x_3.kml", got)
}

func TestFreshURLNeverReturnsExistingPath(t *testing.T) {
	exists := existsSet("/dir/x_1.kml", "/dir/x_2.kml", "/dir/x_3.kml")
	got := conflict.FreshURL("/dir/x.kml", "", exists)
	assert.False(t, exists(got))
}
