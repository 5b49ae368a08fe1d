package logs

import (
	"fmt"
	"io"
	"os"

	"github.com/reusee/zel/cmds"
)

type Writer io.Writer

var logFileFlag = cmds.Var[string]("-log-file")

// Writer is stderr, or the file named by -log-file, opened for appending.
func (Module) Writer() Writer {
	if *logFileFlag == "" {
		return os.Stderr
	}
	f, err := os.OpenFile(*logFileFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log file: %v\n", err)
		return os.Stderr
	}
	return f
}
