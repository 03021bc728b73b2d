package importer

// RowIssue describes one rejected row in an import run
type RowIssue struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// Report summarizes an import run. Rejected rows never abort the run;
// they are collected here and the remaining rows still go through.
type Report struct {
	Processed int        `json:"processed"`
	Created   int        `json:"created"`
	Rejected  int        `json:"rejected"`
	Issues    []RowIssue `json:"issues,omitempty"`
}

func (r *Report) reject(line int, message string) {
	r.Rejected++
	r.Issues = append(r.Issues, RowIssue{Line: line, Message: message})
}
