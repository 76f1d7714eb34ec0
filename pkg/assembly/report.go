package assembly

import (
	"time"

	"github.com/rigport/rigport/pkg/errors"
	"github.com/rigport/rigport/pkg/material"
	"github.com/rigport/rigport/pkg/skeleton"
)

// Part statuses.
const (
	PartLoaded = "loaded"
	PartFailed = "failed"
)

// Report describes what a job did.
type Report struct {
	JobID     string         `json:"job_id"`
	Started   time.Time      `json:"started"`
	Duration  time.Duration  `json:"duration"`
	Groups    []GroupReport  `json:"groups"`
	Materials material.Stats `json:"materials"`
	Warnings  []Warning      `json:"warnings,omitempty"`
}

// GroupReport describes one payload group.
type GroupReport struct {
	Name       string       `json:"name"`
	Type       string       `json:"type"`
	Collection bool         `json:"collection,omitempty"`
	Parts      []PartReport `json:"parts"`
	Merge      *MergeReport `json:"merge,omitempty"`
}

// PartReport describes one imported part.
type PartReport struct {
	Kind      string `json:"kind"`
	Path      string `json:"path"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	Slots     int    `json:"slots"`
	Overrides int    `json:"overrides,omitempty"`
	Morph     string `json:"morph,omitempty"`
}

// MergeReport describes the skeleton merge of one group.
type MergeReport struct {
	Stage       skeleton.Stage                 `json:"stage"`
	Primary     string                         `json:"primary,omitempty"`
	Merged      []string                       `json:"merged"`
	Plan        skeleton.MergePlan             `json:"plan"`
	Hierarchy   *skeleton.Hierarchy            `json:"hierarchy,omitempty"`
	Attachments []skeleton.AttachmentDirective `json:"attachments,omitempty"`
	Error       string                         `json:"error,omitempty"`
}

// Warning is an absorbed, non-fatal failure.
type Warning struct {
	Code    errors.Code `json:"code"`
	Group   string      `json:"group"`
	Path    string      `json:"path,omitempty"`
	Message string      `json:"message"`
}

// Loaded returns the number of parts that loaded.
func (g GroupReport) Loaded() int {
	n := 0
	for _, p := range g.Parts {
		if p.Status == PartLoaded {
			n++
		}
	}
	return n
}

// Merged returns the groups whose merge reached StageDone.
func (r *Report) Merged() []GroupReport {
	var out []GroupReport
	for _, g := range r.Groups {
		if g.Merge != nil && g.Merge.Stage == skeleton.StageDone {
			out = append(out, g)
		}
	}
	return out
}

// Failures returns the warnings with the given code.
func (r *Report) Failures(code errors.Code) []Warning {
	var out []Warning
	for _, w := range r.Warnings {
		if w.Code == code {
			out = append(out, w)
		}
	}
	return out
}
