package shared

import "fmt"

// Version is stamped at link time.
var Version = "dev"

// Banner identifies a service and the build it was produced by.
func Banner(service string) string {
	return fmt.Sprintf("%s (build %s)", service, Version)
}
