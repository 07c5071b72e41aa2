package main

import (
	"fmt"
	"os"

	"github.com/jakoblorz/reactorstate/kitchensink/packages/shared"
)

func main() {
	fmt.Fprintln(os.Stdout, shared.Banner("backend"))
}
