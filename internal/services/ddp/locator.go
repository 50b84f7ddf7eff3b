package ddp

import "os"

const (
	// BinaryEnv overrides the engine executable for every invocation.
	BinaryEnv = "DDP_SDK_BIN"
	// DefaultBinary is resolved through PATH when no override is set.
	DefaultBinary = "ddp"
)

// LocateBinary returns the engine executable to launch. It is evaluated on
// every call so environment changes take effect immediately.
func LocateBinary() string {
	if bin := os.Getenv(BinaryEnv); bin != "" {
		return bin
	}
	return DefaultBinary
}
