/*
Copyright 2025 MilhasPix Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package model

import (
	"github.com/milhaspix/milhas"
	"github.com/milhaspix/milhas/model"
)

// SubmitAnnouncement is the request body of the announcement endpoint: the
// union of every wizard field, validated against the combined schema.
type SubmitAnnouncement struct {
	model.FormValues
}

func (s *SubmitAnnouncement) ValidateSubmitAnnouncement() error {
	return s.ValidateCombined()
}

// UpdateFormFields carries a partial field update for a form session. Only
// the fields present in the body are merged.
type UpdateFormFields struct {
	model.FormValues
}

// StepState reports one step of the wizard indicator.
type StepState struct {
	Step  int  `json:"step"`
	Valid bool `json:"valid"`
}

// FormStateView is what the API returns for a form session. The password is
// never echoed back and the CPF comes out formatted.
type FormStateView struct {
	ID           string             `json:"id"`
	CurrentStep  int                `json:"currentStep"`
	TotalSteps   int                `json:"totalSteps"`
	Submitted    bool               `json:"submitted"`
	CanGoBack    bool               `json:"canGoBack"`
	CanGoForward bool               `json:"canGoForward"`
	FieldValues  model.FormValues   `json:"fieldValues"`
	Steps        []StepState        `json:"steps"`
	StepErrors   []model.FieldError `json:"stepErrors,omitempty"`
}

// ToFormStateView projects a live session into the response shape.
func ToFormStateView(s *milhas.FormSession) FormStateView {
	values := s.Values()
	values.Password = nil
	if values.CPF != nil {
		formatted := model.FormatCPF(*values.CPF)
		values.CPF = &formatted
	}

	current := s.CurrentStep()
	steps := make([]StepState, 0, model.TotalSteps)
	for n := model.StepProgram; n <= model.StepSubmitted; n++ {
		steps = append(steps, StepState{Step: n, Valid: s.IsStepValid(n)})
	}

	return FormStateView{
		ID:           s.ID(),
		CurrentStep:  current,
		TotalSteps:   model.TotalSteps,
		Submitted:    s.Submitted(),
		CanGoBack:    current > model.StepProgram && !s.Submitted(),
		CanGoForward: current < model.TotalSteps,
		FieldValues:  values,
		Steps:        steps,
		StepErrors:   s.StepErrors(current),
	}
}
