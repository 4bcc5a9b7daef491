//go:build windows

package ui

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

// The cross-process message structs must match the C ABI exactly or the
// target process reads garbage. Offsets below are the 64-bit layout.
func TestListViewItemLayout(t *testing.T) {
	if unsafe.Sizeof(uintptr(0)) != 8 {
		t.Skip("layout constants are for 64-bit builds")
	}
	var it lvItemW
	assert.Equal(t, uintptr(24), unsafe.Offsetof(it.PszText))
	assert.Equal(t, uintptr(32), unsafe.Offsetof(it.CchTextMax))
	assert.Equal(t, uintptr(40), unsafe.Offsetof(it.LParam))
}

func TestTreeViewItemLayout(t *testing.T) {
	if unsafe.Sizeof(uintptr(0)) != 8 {
		t.Skip("layout constants are for 64-bit builds")
	}
	var it tvItemW
	assert.Equal(t, uintptr(8), unsafe.Offsetof(it.HItem))
	assert.Equal(t, uintptr(24), unsafe.Offsetof(it.PszText))
	assert.Equal(t, uintptr(32), unsafe.Offsetof(it.CchTextMax))
}
