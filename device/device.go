// Package device selects and creates OCCA devices. Backend choice is
// external configuration: callers pass a Config, or rely on the default
// preference order which can be overridden through POINTWISE_DEVICE.
package device

import (
	"fmt"
	"os"
	"strings"

	"github.com/notargets/gocca"
)

// EnvVar names the environment variable holding an OCCA device
// properties JSON string. When set, it is tried before the built-in
// preference order.
const EnvVar = "POINTWISE_DEVICE"

// Config holds an ordered list of OCCA device property JSON strings.
// Create tries them in order and keeps the first backend that opens.
type Config struct {
	Props []string
}

// DefaultConfig returns the built-in backend preference order.
// Serial is always last so the harness runs on any host.
func DefaultConfig() Config {
	props := []string{
		`{"mode": "CUDA", "device_id": 0}`,
		`{"mode": "OpenMP"}`,
		`{"mode": "Serial"}`,
	}
	if env := strings.TrimSpace(os.Getenv(EnvVar)); env != "" {
		props = append([]string{env}, props...)
	}
	return Config{Props: props}
}

// Create opens the first backend in cfg that initializes successfully.
func Create(cfg Config) (*gocca.OCCADevice, error) {
	if len(cfg.Props) == 0 {
		return nil, fmt.Errorf("device: no backend properties configured")
	}

	var attempts []string
	for _, props := range cfg.Props {
		dev, err := gocca.NewDevice(props)
		if err == nil {
			return dev, nil
		}
		attempts = append(attempts, fmt.Sprintf("%s: %v", props, err))
	}

	return nil, fmt.Errorf("device: no backend available:\n\t%s",
		strings.Join(attempts, "\n\t"))
}

// MustCreate opens a device using the default preference order and
// panics if none is available. Used by tests and the benchmark command.
func MustCreate() *gocca.OCCADevice {
	dev, err := Create(DefaultConfig())
	if err != nil {
		panic(err)
	}
	return dev
}
