package version

// version is set by ldflags when built from the Makefile:
// -ldflags "-X github.com/ghjm/showip/internal/version.version=..."
var version = "dev"

// Version returns the version string of this build
func Version() string {
	return version
}
