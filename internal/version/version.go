// ABOUTME: Version and identity constants
// ABOUTME: Reported by the version command and the remote-control handshake
package version

// Version is overridden at build time with -ldflags "-X .../version.Version=..."
var Version = "0.3.0"

const (
	Product      = "Stillwater"
	Manufacturer = "Stillwater Audio"
)

// String returns the product and version, e.g. "Stillwater 0.3.0"
func String() string {
	return Product + " " + Version
}
