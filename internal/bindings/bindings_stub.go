//go:build !cgo || windows

package bindings

import "github.com/compal/cloudxr-go/pkg/cloudxr"

// Install reports ErrNotBuilt: the C exports are not compiled without cgo.
func Install(*cloudxr.Bridge) error {
	return ErrNotBuilt
}
