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
	"time"

	"github.com/shopspring/decimal"
)

// Wizard step numbers. Steps 1-3 collect data; step 4 is the terminal
// "announcement submitted" screen.
const (
	StepProgram   = 1
	StepOffer     = 2
	StepAccount   = 3
	StepSubmitted = 4

	TotalSteps = 4
)

// Offer bounds enforced by the step 2 schema.
const (
	MilesOfferedMin = 1000
	MilesOfferedMax = 1_000_000

	AverageMilesPerPassengerMin = 1
	AverageMilesPerPassengerMax = 10000
)

// ValuePerThousand bounds in BRL. Values carry at most two decimal places.
var (
	ValuePerThousandMin = decimal.NewFromFloat(14.00)
	ValuePerThousandMax = decimal.NewFromFloat(16.56)
)

// Programs is the fixed set of loyalty programs an announcement can sell
// miles from.
var Programs = []string{"latam", "gol", "azul", "smiles"}

// PayoutTimings is the fixed set of payout timing codes for step 2.
var PayoutTimings = []string{"imediato", "2dias", "7dias", "posVoo"}

// FormValues holds every field collected across the wizard steps. All fields
// are optional pointers: a nil field has not been filled in yet, which is how
// partial updates merge without clobbering earlier steps.
type FormValues struct {
	Program                    *string          `json:"program,omitempty"`
	Product                    *string          `json:"product,omitempty"`
	PayoutTiming               *string          `json:"payoutTiming,omitempty"`
	MilesOffered               *int64           `json:"milesOffered,omitempty"`
	ValuePerThousand           *decimal.Decimal `json:"valuePerThousand,omitempty"`
	AveragePerPassengerEnabled *bool            `json:"averagePerPassengerEnabled,omitempty"`
	AverageMilesPerPassenger   *int64           `json:"averageMilesPerPassenger,omitempty"`
	CPF                        *string          `json:"cpf,omitempty"`
	Login                      *string          `json:"login,omitempty"`
	Password                   *string          `json:"password,omitempty"`
	Phone                      *string          `json:"phone,omitempty"`
}

// Merge overlays the non-nil fields of partial onto v. Fields the partial
// does not carry keep their current value.
func (v *FormValues) Merge(partial FormValues) {
	if partial.Program != nil {
		v.Program = partial.Program
	}
	if partial.Product != nil {
		v.Product = partial.Product
	}
	if partial.PayoutTiming != nil {
		v.PayoutTiming = partial.PayoutTiming
	}
	if partial.MilesOffered != nil {
		v.MilesOffered = partial.MilesOffered
	}
	if partial.ValuePerThousand != nil {
		v.ValuePerThousand = partial.ValuePerThousand
	}
	if partial.AveragePerPassengerEnabled != nil {
		v.AveragePerPassengerEnabled = partial.AveragePerPassengerEnabled
	}
	if partial.AverageMilesPerPassenger != nil {
		v.AverageMilesPerPassenger = partial.AverageMilesPerPassenger
	}
	if partial.CPF != nil {
		v.CPF = partial.CPF
	}
	if partial.Login != nil {
		v.Login = partial.Login
	}
	if partial.Password != nil {
		v.Password = partial.Password
	}
	if partial.Phone != nil {
		v.Phone = partial.Phone
	}
}

// WipeSensitive clears the program-account credentials and personal
// identifiers. Applied to the persisted snapshot once a submission succeeds.
func (v *FormValues) WipeSensitive() {
	v.CPF = nil
	v.Login = nil
	v.Password = nil
	v.Phone = nil
}

// FormSnapshot is the serialized record written to the snapshot store on
// every field or step change.
type FormSnapshot struct {
	FieldValues FormValues `json:"fieldValues"`
	CurrentStep int        `json:"currentStep"`
	Submitted   bool       `json:"submitted"`
	Timestamp   time.Time  `json:"timestamp"`
}

// RankingItem is one row of the competitive ranking an announcer sees while
// pricing an offer. Owned by the upstream MilhasPix API, read-only here.
type RankingItem struct {
	MileValue   float64 `json:"mile_value"`
	Description string  `json:"description"`
	Position    int     `json:"position"`
}

// Offer is one published announcement as returned by the upstream offers
// listing.
type Offer struct {
	OfferID           string `json:"offerId"`
	OfferStatus       string `json:"offerStatus"`
	LoyaltyProgram    string `json:"loyaltyProgram"`
	OfferType         string `json:"offerType"`
	AccountLogin      string `json:"accountLogin"`
	CreatedAt         string `json:"createdAt"`
	AvailableQuantity int64  `json:"availableQuantity"`
}

// OffersResponse wraps the upstream offers listing.
type OffersResponse struct {
	TotalQuantityOffers int     `json:"totalQuantityOffers"`
	Offers              []Offer `json:"offers"`
}
