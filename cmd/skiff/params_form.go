// Copyright (C) 2025 Skiff Project
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/skiffworks/skiff/services/completion/datatypes"
)

// Sampler choices for the /tune form. The form offers one sampler at a
// time, which makes the topP/topK exclusion impossible to violate from
// the UI. A patch cannot express "unset", so samplerNone keeps whatever
// sampler is currently in effect.
const (
	samplerNone = "none"
	samplerTopP = "top_p"
	samplerTopK = "top_k"
)

// runParamsForm presents the interactive parameter form and applies the
// result to the session as a patch. Blank numeric answers leave the
// corresponding parameter unchanged; the patch only carries what the user
// filled in.
func runParamsForm(session *Session) error {
	current := session.Params()

	var (
		temperature string
		sampler     = samplerNone
		samplerVal  string
		effort      = string(current.ReasoningEffort)
	)
	if current.TopP != nil {
		sampler = samplerTopP
		samplerVal = fmt.Sprintf("%g", *current.TopP)
	} else if current.TopK != nil {
		sampler = samplerTopK
		samplerVal = strconv.Itoa(*current.TopK)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Temperature").
				Description("0 to 2, blank to keep current").
				Placeholder(formatCurrentFloat(current.Temperature)).
				Validate(validateOptionalFloat(0, 2)).
				Value(&temperature),

			huh.NewSelect[string]().
				Title("Sampler").
				Description("top_p and top_k are mutually exclusive").
				Options(
					huh.NewOption("None (keep current)", samplerNone),
					huh.NewOption("Nucleus (top_p)", samplerTopP),
					huh.NewOption("Top-K (top_k)", samplerTopK),
				).
				Value(&sampler),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Sampler value").
				Description("top_p: 0 to 1, top_k: 0 to 20").
				Validate(validateSamplerValue(&sampler)).
				Value(&samplerVal),
		).WithHideFunc(func() bool {
			return sampler == samplerNone
		}),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Reasoning effort").
				Options(
					huh.NewOption("Minimal", string(datatypes.EffortMinimal)),
					huh.NewOption("Low", string(datatypes.EffortLow)),
					huh.NewOption("Medium", string(datatypes.EffortMedium)),
					huh.NewOption("High", string(datatypes.EffortHigh)),
				).
				Value(&effort),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("parameter form: %w", err)
	}

	patch, err := buildPatch(temperature, sampler, samplerVal, effort)
	if err != nil {
		return err
	}
	session.UpdateParams(patch)
	return nil
}

// buildPatch converts the form answers into a ParamsPatch. Inputs were
// already validated by the form; errors here mean the conversion itself
// failed.
func buildPatch(temperature, sampler, samplerVal, effort string) (datatypes.ParamsPatch, error) {
	var patch datatypes.ParamsPatch

	if v := strings.TrimSpace(temperature); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return patch, fmt.Errorf("parse temperature: %w", err)
		}
		patch.Temperature = &t
	}

	switch sampler {
	case samplerTopP:
		if v := strings.TrimSpace(samplerVal); v != "" {
			p, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return patch, fmt.Errorf("parse top_p: %w", err)
			}
			patch.TopP = &p
		}
	case samplerTopK:
		if v := strings.TrimSpace(samplerVal); v != "" {
			k, err := strconv.Atoi(v)
			if err != nil {
				return patch, fmt.Errorf("parse top_k: %w", err)
			}
			patch.TopK = &k
		}
	}

	if e, err := datatypes.ParseReasoningEffort(effort); err == nil && e != "" {
		patch.ReasoningEffort = &e
	}

	return patch, nil
}

func formatCurrentFloat(v *float64) string {
	if v == nil {
		return "unset"
	}
	return fmt.Sprintf("%g", *v)
}

// validateOptionalFloat accepts blank input or a float within [min, max].
func validateOptionalFloat(min, max float64) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("not a number")
		}
		if v < min || v > max {
			return fmt.Errorf("must be between %g and %g", min, max)
		}
		return nil
	}
}

// validateSamplerValue validates the shared sampler value field against
// whichever sampler is currently selected.
func validateSamplerValue(sampler *string) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		switch *sampler {
		case samplerTopP:
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return fmt.Errorf("not a number")
			}
			if v < 0 || v > 1 {
				return fmt.Errorf("top_p must be between 0 and 1")
			}
		case samplerTopK:
			v, err := strconv.Atoi(s)
			if err != nil {
				return fmt.Errorf("not an integer")
			}
			if v < 0 || v > 20 {
				return fmt.Errorf("top_k must be between 0 and 20")
			}
		}
		return nil
	}
}
