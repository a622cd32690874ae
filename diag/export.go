package diag

import (
	"encoding/json"

	"github.com/goccy/go-yaml"
)

// Report is the serializable form of a compilation's diagnostics.
type Report struct {
	File        string   `json:"file"        yaml:"file"`
	Errors      int      `json:"errors"      yaml:"errors"`
	Warnings    int      `json:"warnings"    yaml:"warnings"`
	Diagnostics []Record `json:"diagnostics" yaml:"diagnostics"`
}

// Record is the serializable form of a [Diagnostic].
type Record struct {
	Line     int    `json:"line"     yaml:"line"`
	Column   int    `json:"column"   yaml:"column"`
	Severity string `json:"severity" yaml:"severity"`
	Code     string `json:"code"     yaml:"code"`
	Message  string `json:"message"  yaml:"message"`
}

// NewReport summarizes the diagnostics held by e.
func NewReport(e *Engine) Report {
	r := Report{
		Errors:      e.NumErrors(),
		Warnings:    e.NumWarnings(),
		Diagnostics: make([]Record, 0, len(e.diags)),
	}

	if e.buf != nil {
		r.File = e.buf.Name
	}

	for _, d := range e.diags {
		r.Diagnostics = append(r.Diagnostics, Record{
			Line:     d.Location.Line,
			Column:   d.Location.Column,
			Severity: d.Severity.String(),
			Code:     d.ID.String(),
			Message:  d.Message,
		})
	}

	return r
}

// YAML encodes r as a YAML document.
func (r Report) YAML() ([]byte, error) { return yaml.Marshal(r) }

// JSON encodes r as indented JSON.
func (r Report) JSON() ([]byte, error) { return json.MarshalIndent(r, "", "  ") }
