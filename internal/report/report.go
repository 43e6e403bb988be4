package report

import "io"

// File is the outcome of rewriting one input.
type File struct {
	Path    string `json:"path"`
	Matches int    `json:"matches"`
	Changed bool   `json:"changed"`
	Code    int    `json:"code,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Summary is the outcome of one rerep run.
type Summary struct {
	Pattern  string `json:"pattern"`
	Dialect  string `json:"dialect"`
	Files    []File `json:"files"`
	ExitCode int    `json:"exit_code"`
}

// Write encodes s as a single JSON line to w.
func Write(w io.Writer, s Summary) error {
	if s.Files == nil {
		s.Files = []File{}
	}

	data, err := marshal(s)
	if err != nil {
		return err
	}

	_, err = w.Write(append(data, '\n'))
	return err
}
