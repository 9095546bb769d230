package api

import (
	"github.com/AndrewDilley/TenderEvaluation/internal/evaluations"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Evaluations evaluations.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	return &Domain{
		Evaluations: evaluations.New(runtime.Workflow, runtime.Logger),
	}
}
