// Copyright (C) 2025 Skiff Project
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ReasoningEffort selects how much thinking budget a backend should spend.
type ReasoningEffort string

const (
	EffortMinimal ReasoningEffort = "minimal"
	EffortLow     ReasoningEffort = "low"
	EffortMedium  ReasoningEffort = "medium"
	EffortHigh    ReasoningEffort = "high"
)

// ParseReasoningEffort converts a user-supplied string to a ReasoningEffort.
func ParseReasoningEffort(s string) (ReasoningEffort, error) {
	switch ReasoningEffort(s) {
	case EffortMinimal, EffortLow, EffortMedium, EffortHigh:
		return ReasoningEffort(s), nil
	}
	return "", fmt.Errorf("invalid reasoning effort %q: must be one of minimal, low, medium, high", s)
}

// =============================================================================
// Shared Validator Instance
// =============================================================================

// paramsValidate is the validator instance for generation parameter types.
var paramsValidate = validator.New()

// =============================================================================
// Generation Parameters
// =============================================================================

// GenerationParams is the sampling configuration for one completion request.
//
// # Description
//
// All numeric fields are pointers: nil means "unset, backend default" and a
// pointer to zero is a defined zero that IS range-checked. The omitnil tags
// make the validator skip only nil fields, never defined zeros.
//
// # Fields
//
//   - Temperature: Optional. Valid range [0, 2].
//   - TopP: Optional. Valid range [0, 1]. Mutually exclusive with TopK.
//   - TopK: Optional. Valid range [0, 20]. Mutually exclusive with TopP.
//   - ReasoningEffort: Optional. One of minimal, low, medium, high.
//
// # Invariants
//
// TopP and TopK are never simultaneously defined. The invariant is enforced
// at mutation time by Apply, not by Validate: by the time validation runs,
// at most one of the two is set.
type GenerationParams struct {
	Temperature     *float64        `json:"temperature,omitempty" validate:"omitnil,gte=0,lte=2"`
	TopP            *float64        `json:"top_p,omitempty" validate:"omitnil,gte=0,lte=1"`
	TopK            *int            `json:"top_k,omitempty" validate:"omitnil,gte=0,lte=20"`
	ReasoningEffort ReasoningEffort `json:"reasoning_effort,omitempty" validate:"omitempty,oneof=minimal low medium high"`
}

// DefaultParams returns the parameters a fresh session starts with:
// temperature 1.0, low reasoning effort, no nucleus or top-k sampling.
func DefaultParams() GenerationParams {
	temp := 1.0
	return GenerationParams{
		Temperature:     &temp,
		ReasoningEffort: EffortLow,
	}
}

// RangeError reports a generation parameter outside its valid range.
type RangeError struct {
	Param string
	Min   float64
	Max   float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s out of range: must be between %g and %g", e.Param, e.Min, e.Max)
}

// paramRanges maps validator struct fields to their wire name and bounds.
var paramRanges = map[string]RangeError{
	"Temperature": {Param: "temperature", Min: 0, Max: 2},
	"TopP":        {Param: "top_p", Min: 0, Max: 1},
	"TopK":        {Param: "top_k", Min: 0, Max: 20},
}

// Validate checks every defined field against its range independently.
//
// It is a pure check: no field is mutated and no short-circuit ordering is
// observable. Range failures surface as *RangeError; an invalid reasoning
// effort surfaces as a plain error naming the allowed values.
func (p GenerationParams) Validate() error {
	err := paramsValidate.Struct(p)
	if err == nil {
		return nil
	}
	return translateFieldError(err)
}

// translateFieldError converts a validator failure into the error types
// callers branch on. Shared with CompletionRequest validation.
func translateFieldError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	if re, ok := paramRanges[fe.StructField()]; ok {
		return &re
	}
	if fe.StructField() == "ReasoningEffort" {
		return fmt.Errorf("invalid reasoning effort %q: must be one of minimal, low, medium, high", fe.Value())
	}
	return fmt.Errorf("invalid %s: failed %s validation", fe.StructField(), fe.Tag())
}

// =============================================================================
// Parameter Patches
// =============================================================================

// ParamsPatch is a partial update to GenerationParams. A nil field leaves
// the current value untouched; a non-nil field replaces it.
type ParamsPatch struct {
	Temperature     *float64
	TopP            *float64
	TopK            *int
	ReasoningEffort *ReasoningEffort
}

// Apply applies a patch in one atomic update.
//
// This is the single enforcement point for the TopP/TopK exclusion rule:
// defining TopP clears TopK and vice versa, so the invariant holds after
// every mutation, not just at submission time. Patches are applied in field
// order, so a patch that defines both ends with TopK set and TopP cleared.
func (p *GenerationParams) Apply(patch ParamsPatch) {
	if patch.Temperature != nil {
		p.Temperature = patch.Temperature
	}
	if patch.TopP != nil {
		p.TopP = patch.TopP
		p.TopK = nil
	}
	if patch.TopK != nil {
		p.TopK = patch.TopK
		p.TopP = nil
	}
	if patch.ReasoningEffort != nil {
		p.ReasoningEffort = *patch.ReasoningEffort
	}
}
