package main

import "strconv"

// Exit codes. A run over several files exits with the code of the last
// failing file in argument order.
const (
	exitUsage        = 2
	exitCompile      = 3
	exitStdinRead    = 4
	exitStdinReplace = 5
	exitOpen         = 6
	exitRead         = 7
	exitReplace      = 8
	exitOpenWrite    = 9
	exitWrite        = 10
)

// exitError ends the command with a specific exit code. Its diagnostic has
// already been printed.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return "exit status " + strconv.Itoa(e.code)
}
