package practice

import "github.com/rebel47/mcq-generator/internal/mcq"

// questionAddedMsg is sent when one more question has been generated and
// appended, or generation failed.
type questionAddedMsg struct {
	Question mcq.Question
	Err      error
}

// reportSavedMsg is sent when the report file has been written.
type reportSavedMsg struct {
	Path string
	Err  error
}
