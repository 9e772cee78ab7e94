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
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// FieldError is one field-level validation failure, in the shape the
// announcement endpoint reports under "details".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// programsIn and payoutTimingsIn adapt the enum slices to ozzo's In rule,
// which takes interface{} elements.
func anySlice(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func productValidation(v *FormValues) validation.RuleFunc {
	return func(value interface{}) error {
		if v.Product == nil {
			return nil // Required already reported
		}
		trimmed := strings.TrimSpace(*v.Product)
		if trimmed == "" {
			return validation.NewError("validation_required", "Produto é obrigatório")
		}
		if len([]rune(trimmed)) > 100 {
			return validation.NewError("validation_length_too_long", "Produto deve ter no máximo 100 caracteres")
		}
		return nil
	}
}

func valuePerThousandValidation(v *FormValues) validation.RuleFunc {
	return func(value interface{}) error {
		if v.ValuePerThousand == nil {
			return validation.NewError("validation_required", "Informe o valor a cada 1.000 milhas")
		}
		val := *v.ValuePerThousand
		if !val.Equal(val.Round(2)) {
			return validation.NewError("validation_decimal_places", "Use no máximo duas casas decimais")
		}
		if val.LessThan(ValuePerThousandMin) {
			return validation.NewError("validation_min_value", "Valor mínimo: R$ 14,00")
		}
		if val.GreaterThan(ValuePerThousandMax) {
			return validation.NewError("validation_max_value", "Valor máximo: R$ 16,56")
		}
		return nil
	}
}

// averagePerPassengerValidation is the cross-field rule of step 2: when the
// per-passenger toggle is on, the average becomes required. The error is
// attributed to averageMilesPerPassenger, not to the toggle.
func averagePerPassengerValidation(v *FormValues) validation.RuleFunc {
	return func(value interface{}) error {
		if v.AveragePerPassengerEnabled == nil || !*v.AveragePerPassengerEnabled {
			return nil
		}
		if v.AverageMilesPerPassenger == nil {
			return validation.NewError("validation_required", "Informe a média por passageiro")
		}
		avg := *v.AverageMilesPerPassenger
		if avg < AverageMilesPerPassengerMin || avg > AverageMilesPerPassengerMax {
			return validation.NewError("validation_out_of_range", "Média por passageiro deve ser entre 1 e 10.000")
		}
		return nil
	}
}

func cpfValidation(v *FormValues) validation.RuleFunc {
	return func(value interface{}) error {
		if v.CPF == nil || *v.CPF == "" {
			return validation.NewError("validation_required", "CPF é obrigatório")
		}
		digits := NormalizeCPF(*v.CPF)
		if len(digits) != cpfLength {
			return validation.NewError("validation_cpf_length", "CPF deve ter 11 dígitos")
		}
		if !IsValidCPF(digits) {
			return validation.NewError("validation_cpf_checksum", "CPF inválido")
		}
		return nil
	}
}

func (v *FormValues) step1Fields() []*validation.FieldRules {
	return []*validation.FieldRules{
		validation.Field(&v.Program,
			validation.Required.Error("Selecione um programa"),
			validation.In(anySlice(Programs)...).Error("Selecione um programa"),
		),
		validation.Field(&v.Product,
			validation.Required.Error("Produto é obrigatório"),
			validation.By(productValidation(v)),
		),
	}
}

func (v *FormValues) step2Fields() []*validation.FieldRules {
	return []*validation.FieldRules{
		validation.Field(&v.PayoutTiming,
			validation.Required.Error("Selecione quando deseja receber"),
			validation.In(anySlice(PayoutTimings)...).Error("Selecione quando deseja receber"),
		),
		validation.Field(&v.MilesOffered,
			validation.Required.Error("Informe a quantidade de milhas"),
			validation.Min(int64(MilesOfferedMin)).Error("Mínimo de 1.000 milhas"),
			validation.Max(int64(MilesOfferedMax)).Error("Máximo de 1.000.000 milhas"),
		),
		validation.Field(&v.ValuePerThousand,
			validation.By(valuePerThousandValidation(v)),
		),
		validation.Field(&v.AverageMilesPerPassenger,
			validation.By(averagePerPassengerValidation(v)),
		),
	}
}

func (v *FormValues) step3Fields() []*validation.FieldRules {
	return []*validation.FieldRules{
		validation.Field(&v.CPF,
			validation.By(cpfValidation(v)),
		),
		validation.Field(&v.Login,
			validation.Required.Error("Login é obrigatório"),
		),
		validation.Field(&v.Password,
			validation.Required.Error("Senha é obrigatória"),
			validation.Length(4, 0).Error("Senha deve ter ao menos 4 dígitos"),
		),
		validation.Field(&v.Phone,
			validation.Required.Error("Telefone é obrigatório"),
			validation.Length(8, 0).Error("Telefone é obrigatório"),
		),
	}
}

// ValidateStep1 checks the loyalty program selection and product.
func (v *FormValues) ValidateStep1() error {
	return validation.ValidateStruct(v, v.step1Fields()...)
}

// ValidateStep2 checks the offer itself: payout timing, miles, price per
// thousand and the optional per-passenger average.
func (v *FormValues) ValidateStep2() error {
	return validation.ValidateStruct(v, v.step2Fields()...)
}

// ValidateStep3 checks the program account data: CPF, login, password and
// phone.
func (v *FormValues) ValidateStep3() error {
	return validation.ValidateStruct(v, v.step3Fields()...)
}

// ValidateCombined is the union of all three step schemas, used for
// whole-form submission validation.
func (v *FormValues) ValidateCombined() error {
	fields := v.step1Fields()
	fields = append(fields, v.step2Fields()...)
	fields = append(fields, v.step3Fields()...)
	return validation.ValidateStruct(v, fields...)
}

// ValidateStep dispatches to the schema of a data-entry step. Steps outside
// 1-3 have no schema of their own and validate vacuously.
func (v *FormValues) ValidateStep(step int) error {
	switch step {
	case StepProgram:
		return v.ValidateStep1()
	case StepOffer:
		return v.ValidateStep2()
	case StepAccount:
		return v.ValidateStep3()
	default:
		return nil
	}
}

// FieldErrors flattens an ozzo validation error into the wire shape, sorted
// by field name. Returns nil for a nil error or a non-validation error.
func FieldErrors(err error) []FieldError {
	errs, ok := err.(validation.Errors)
	if !ok {
		return nil
	}
	out := make([]FieldError, 0, len(errs))
	for field, ferr := range errs {
		code := "validation_invalid"
		if ve, ok := ferr.(validation.Error); ok {
			code = ve.Code()
		}
		out = append(out, FieldError{Field: field, Message: ferr.Error(), Code: code})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}
