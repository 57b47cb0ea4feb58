package version

const (
	AppName        = "Axon"
	AppDescription = "Permission checks and message dispatch for Discord bots"
)

// Version and BuildDate are set with -ldflags at build time.
var (
	Version   = "dev"
	BuildDate = "unknown"
)
