package autoxliff

// Name is the application name.
const Name = "autoxliff"

// Description is a short description of the application.
const Description = "Appends missing translation labels to XLIFF catalogs"

// Build information, set via ldflags:
//
//	go build -ldflags "-X github.com/ZaguanLabs/autoxliff.Version=1.0.0 -X github.com/ZaguanLabs/autoxliff.GitCommit=$(git rev-parse HEAD)"
var (
	// Version is the semantic version of the application.
	Version = "0.1.0"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// FullVersion returns the version string with the short commit appended
// when known.
func FullVersion() string {
	v := Version
	if GitCommit != "unknown" && GitCommit != "" {
		short := GitCommit
		if len(short) > 7 {
			short = short[:7]
		}
		v += "+" + short
	}
	return v
}
