// Command libcloudxr is linked as a C shared library:
//
//	go build -buildmode=c-shared -o libcloudxr.so ./cmd/libcloudxr
//
// The host registers its engine with cloudxr_register_engine before the
// first cloudxr_create. Declarations are in
// internal/bindings/cloudxr_bridge.h. With CLOUDXR_SIMULATE=true the library
// serves the simulated engine instead, for host bring-up without a device.
package main

import (
	"fmt"
	"os"

	"github.com/compal/cloudxr-go/internal/bindings"
	"github.com/compal/cloudxr-go/pkg/cloudxr"
	"github.com/compal/cloudxr-go/pkg/cloudxr/simengine"
)

func init() {
	if err := serveSimulated(cloudxr.LoadConfigOrDefault()); err != nil {
		fmt.Fprintf(os.Stderr, "libcloudxr: %v\n", err)
	}
}

func serveSimulated(cfg cloudxr.Config) error {
	if !cfg.Simulate {
		return nil
	}
	return bindings.Install(bindings.NewEnvBridge(simengine.NewFactory(simengine.Options{})))
}

func main() {}
