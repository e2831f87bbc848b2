// Package autoversion provides a library for bumping a MAJOR.MINOR.PATCH version
// kept in a text file, driven by markers in commit messages.
//
// It provides functionalities for:
//   - Reading and writing a version file that contains a single assignment line
//     such as `__version__ = "1.2.3"`, preserving the rest of the file byte for byte.
//   - Classifying commit messages by their [major], [minor] or [patch] markers.
//   - Skipping commits produced by the tool itself ("chore: auto-increment version ..."),
//     unless a human added an explicit marker.
//   - Integrating with Git to read the latest commit message, and to commit and tag
//     the bumped version.
//   - Installing a GitHub Actions workflow that runs the bump on every push.
//
// Usage Example:
//
//	import (
//	    "context"
//	    "os"
//
//	    autoversion "github.com/bcomnes/autoversion/pkg"
//	)
//
//	func main() {
//	    cfg := autoversion.DefaultConfig()
//	    store := autoversion.NewFileStore(*cfg, nil)
//	    res := autoversion.NewEngine(store).RunFromSource(context.Background(), autoversion.GitLog{})
//	    os.Exit(res.Status.ExitCode())
//	}
//
// For additional details and API documentation, see https://pkg.go.dev/github.com/bcomnes/autoversion.
package autoversion
