package main

import (
	"fmt"
	"os"

	"github.com/rebel47/mcq-generator/cmd"
	"github.com/rebel47/mcq-generator/internal/quiz"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", quiz.UserMessage(err))
		os.Exit(1)
	}
}
