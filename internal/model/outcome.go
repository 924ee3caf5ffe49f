package model

import "time"

// InputFile is one document discovered in the input directory.
type InputFile struct {
	Path string
	Name string // base name, used as the multipart filename
	Size int64
}

// Outcome is the terminal result of one upload task. A task with Err == nil
// succeeded and Body holds the verbatim response text.
type Outcome struct {
	File    InputFile
	Body    []byte
	Err     error
	Latency time.Duration
}

// OK reports whether the upload succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil
}
