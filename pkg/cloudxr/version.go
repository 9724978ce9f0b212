package cloudxr

var Version = "v0.0.0-in-progress"

// BridgeVersion returns the semantic version populated at build time via
// ldflags. In development it defaults to v0.0.0-in-progress.
func BridgeVersion() string {
	return Version
}
