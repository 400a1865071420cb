package console

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// Exit builds the error a command returns to stop with code. urfave/cli prints
// the message.
func Exit(code int, format string, args ...interface{}) cli.ExitCoder {
	return cli.Exit(fmt.Sprintf(format, args...), code)
}
